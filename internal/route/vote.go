package route

import (
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/controller"
	"github.com/SeakMengs/MarsAI/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Votes(r *gin.RouterGroup, vc *controller.VoteController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/votes")
	v1.Use(middleware.AuthMiddleware)

	mine := v1.Group("/mine")
	mine.Use(middleware.RequireRole(constant.RoleJury))
	{
		mine.GET("", vc.ListMine)
		mine.GET("/:id_movie", vc.GetMine)
		mine.POST("/:id_movie", vc.CastMine)
	}

	admin := v1.Group("")
	admin.Use(middleware.RequireRole(constant.RoleAdmin))
	{
		admin.GET("", vc.List)
		admin.GET("/:id", vc.Get)
		admin.DELETE("/:id", vc.Delete)
		admin.POST("/:id_movie/:id_user", vc.AdminCreate)
	}
}
