package route

import (
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/controller"
	"github.com/SeakMengs/MarsAI/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Users(r *gin.RouterGroup, userController *controller.UserController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/users")
	v1.Use(middleware.AuthMiddleware, middleware.RequireRole(constant.RoleAdmin))
	{
		v1.GET("", userController.List)
		v1.POST("", userController.Create)
		v1.GET("/:id", userController.Get)
		v1.PUT("/:id", userController.Update)
		v1.DELETE("/:id", userController.Delete)
	}
}
