package middleware

import (
	"fmt"
	"math"
	"net/http"

	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

// Limits requests per client ip.
func (m Middleware) RateLimiterMiddleware(ctx *gin.Context) {
	if m.rateLimiter == nil || !m.rateLimiter.Enabled() {
		ctx.Next()
		return
	}

	allowed, retryAfter := m.rateLimiter.Allow(ctx.ClientIP())
	if !allowed {
		ctx.Header("Retry-After", fmt.Sprintf("%.0f", math.Ceil(retryAfter.Seconds())))
		util.ResponseFailed(ctx, http.StatusTooManyRequests, "Rate limit exceeded", []util.ApiError{{Field: "rate_limit", Message: "too many requests, retry after " + retryAfter.String()}}, nil)
		return
	}

	ctx.Next()
}
