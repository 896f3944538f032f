package route

import (
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/controller"
	"github.com/SeakMengs/MarsAI/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Me(r *gin.RouterGroup, userController *controller.UserController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/me")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("", userController.Me)
		v1.GET("/movies", middleware.RequireRole(constant.RoleProducer, constant.RoleAdmin), userController.MyMovies)
		v1.GET("/assigned-movies", middleware.RequireRole(constant.RoleJury), userController.MyAssignedMovies)
	}
}
