package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appcontext "github.com/SeakMengs/MarsAI/internal/app_context"
	"github.com/SeakMengs/MarsAI/internal/auth"
	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/SeakMengs/MarsAI/internal/constant"
	ratelimiter "github.com/SeakMengs/MarsAI/internal/rate_limiter"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddleware(limit int) (*Middleware, *auth.JWT) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop().Sugar()
	jwtService := auth.NewJwt(config.AuthConfig{JWT_SECRET: "test-secret"}, logger)
	app := &appcontext.Application{Logger: logger, JWTService: jwtService}
	rl := ratelimiter.NewRateLimiter(config.RateLimiterConfig{
		RequestsPerTimeFrame: limit,
		TimeFrame:            time.Minute,
		Enabled:              limit > 0,
	}, logger)
	return NewMiddleware(app, rl), jwtService
}

func TestAuthAndRequireRole(t *testing.T) {
	m, jwtService := newTestMiddleware(0)

	r := gin.New()
	r.GET("/admin", m.AuthMiddleware, m.RequireRole(constant.RoleAdmin), func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})

	tokens := map[constant.UserRole][2]string{}
	for _, role := range constant.UserRoles {
		refresh, access, err := jwtService.GenerateRefreshAndAccessToken(auth.JWTPayload{ID: 1, Email: "u@marsai.test", Role: role})
		require.NoError(t, err)
		tokens[role] = [2]string{*refresh, *access}
	}

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"refresh token", "Bearer " + tokens[constant.RoleAdmin][0], http.StatusUnauthorized},
		{"jury", "Bearer " + tokens[constant.RoleJury][1], http.StatusForbidden},
		{"producer", "Bearer " + tokens[constant.RoleProducer][1], http.StatusForbidden},
		{"admin", "Bearer " + tokens[constant.RoleAdmin][1], http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	m, _ := newTestMiddleware(2)

	r := gin.New()
	r.Use(m.RateLimiterMiddleware)
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRequestID(t *testing.T) {
	m, _ := newTestMiddleware(0)

	r := gin.New()
	r.Use(m.RequestID)
	r.GET("/", func(ctx *gin.Context) { ctx.String(http.StatusOK, ctx.GetString(constant.CTX_REQUEST_ID)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(constant.HEADER_REQUEST_ID))

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constant.HEADER_REQUEST_ID, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())
}
