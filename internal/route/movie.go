package route

import (
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/controller"
	"github.com/SeakMengs/MarsAI/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Movies(r *gin.RouterGroup, mc *controller.MovieController, middleware *middleware.Middleware) {
	admin := middleware.RequireRole(constant.RoleAdmin)

	v1 := r.Group("/v1/movies")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.POST("", middleware.RequireRole(constant.RoleProducer, constant.RoleAdmin), mc.Create)
		v1.GET("", admin, mc.List)
		v1.GET("/:id", mc.Get)
		v1.PUT("/:id", admin, mc.Update)
		v1.DELETE("/:id", admin, mc.Delete)

		v1.PUT("/:id/status", admin, mc.UpdateStatus)
		v1.POST("/:id/promote", middleware.RequireRole(constant.RoleJury), mc.Promote)

		v1.PUT("/:id/categories", admin, mc.SetCategories)
		v1.PUT("/:id/juries", admin, mc.SetJuries)
		v1.PUT("/:id/collaborators", middleware.RequireRole(constant.RoleAdmin, constant.RoleProducer), mc.SetCollaborators)
		v1.DELETE("/:id/votes", admin, mc.DeleteVotes)
	}
}
