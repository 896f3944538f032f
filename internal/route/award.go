package route

import (
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/controller"
	"github.com/SeakMengs/MarsAI/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Awards(r *gin.RouterGroup, ac *controller.AwardController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/awards")
	{
		v1.GET("", ac.List)
	}

	admin := r.Group("/v1/awards")
	admin.Use(middleware.AuthMiddleware, middleware.RequireRole(constant.RoleAdmin))
	{
		admin.POST("/:id_movie", ac.Create)
		admin.PUT("/:id/:id_movie", ac.Update)
		admin.DELETE("/:id", ac.Delete)
	}
}
