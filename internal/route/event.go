package route

import (
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/controller"
	"github.com/SeakMengs/MarsAI/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Events(r *gin.RouterGroup, ec *controller.EventController, middleware *middleware.Middleware) {
	admin := middleware.RequireRole(constant.RoleAdmin)

	v1 := r.Group("/v1/events")
	{
		v1.GET("", ec.List)
		v1.GET("/:id", ec.Get)
		v1.POST("/:id/reservations", ec.Reserve)

		v1.POST("", middleware.AuthMiddleware, admin, ec.Create)
		v1.PUT("/:id", middleware.AuthMiddleware, admin, ec.Update)
		v1.DELETE("/:id", middleware.AuthMiddleware, admin, ec.Delete)
		v1.GET("/:id/reservations", middleware.AuthMiddleware, admin, ec.ListReservations)
	}

	reservations := r.Group("/v1/reservations")
	{
		reservations.GET("/:code/qr", ec.QRCode)
		reservations.DELETE("/:id", middleware.AuthMiddleware, admin, ec.DeleteReservation)
	}
}
