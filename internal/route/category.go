package route

import (
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/controller"
	"github.com/SeakMengs/MarsAI/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Categories(r *gin.RouterGroup, cc *controller.CategoryController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/categories")
	{
		v1.GET("", cc.List)
	}

	admin := r.Group("/v1/categories")
	admin.Use(middleware.AuthMiddleware, middleware.RequireRole(constant.RoleAdmin))
	{
		admin.POST("", cc.Create)
		admin.PUT("/:id", cc.Update)
		admin.DELETE("/:id", cc.Delete)
	}
}

func V1_Collaborators(r *gin.RouterGroup, cc *controller.CollaboratorController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/collaborators")
	v1.Use(middleware.AuthMiddleware, middleware.RequireRole(constant.RoleAdmin))
	{
		v1.GET("", cc.List)
	}
}

func V1_Dashboard(r *gin.RouterGroup, dc *controller.DashboardController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/dashboard")
	v1.Use(middleware.AuthMiddleware, middleware.RequireRole(constant.RoleAdmin))
	{
		v1.GET("", dc.Stats)
	}
}
