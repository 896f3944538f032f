package middleware

import (
	"net/http"

	"github.com/SeakMengs/MarsAI/internal/auth"
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

func (m Middleware) AuthMiddleware(ctx *gin.Context) {
	token, err := util.ReadBearerToken(ctx)
	if err != nil {
		m.app.Logger.Debugf("Failed to read token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "unauthorized"), nil)
		ctx.Abort()
		return
	}

	claim, err := m.app.JWTService.VerifyJwtToken(token)
	if err != nil {
		m.app.Logger.Debugf("Failed to verify token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid token", util.GenerateErrorMessages(err, "unauthorized"), nil)
		ctx.Abort()
		return
	}

	if claim.Type != constant.JWT_TYPE_ACCESS {
		m.app.Logger.Debugf("Invalid token type: %s", claim.Type)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid access token type", []util.ApiError{{Field: "unauthorized", Message: "expected an access token"}}, nil)
		ctx.Abort()
		return
	}

	ctx.Set(constant.CTX_USER, claim.User)
	ctx.Next()
}

// RequireRole must run after AuthMiddleware. It rejects principals whose role is not listed.
func (m Middleware) RequireRole(roles ...constant.UserRole) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		value, ok := ctx.Get(constant.CTX_USER)
		user, isPayload := value.(auth.JWTPayload)
		if !ok || !isPayload {
			util.ResponseFailed(ctx, http.StatusUnauthorized, "", []util.ApiError{{Field: "unauthorized", Message: "missing principal"}}, nil)
			return
		}

		if !util.HasRole(user.Role, roles) {
			m.app.Logger.Debugf("User %d with role %s denied, require one of %v", user.ID, user.Role, roles)
			util.ResponseFailed(ctx, http.StatusForbidden, "You do not have permission to perform this action", []util.ApiError{{Field: "forbidden", Message: "role not allowed"}}, nil)
			return
		}

		ctx.Next()
	}
}
