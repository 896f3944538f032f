package middleware

import (
	"time"

	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID keeps an incoming X-Request-Id or assigns a new one.
func (m Middleware) RequestID(ctx *gin.Context) {
	id := ctx.GetHeader(constant.HEADER_REQUEST_ID)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	ctx.Set(constant.CTX_REQUEST_ID, id)
	ctx.Header(constant.HEADER_REQUEST_ID, id)
	ctx.Next()
}

func (m Middleware) RequestLogger(ctx *gin.Context) {
	start := time.Now()
	ctx.Next()

	m.app.Logger.Infow("request",
		"requestId", ctx.GetString(constant.CTX_REQUEST_ID),
		"method", ctx.Request.Method,
		"path", ctx.Request.URL.Path,
		"status", ctx.Writer.Status(),
		"latency", time.Since(start).String(),
		"ip", ctx.ClientIP(),
	)
}
