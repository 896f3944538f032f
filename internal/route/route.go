package route

import (
	"github.com/SeakMengs/MarsAI/internal/controller"
	"github.com/SeakMengs/MarsAI/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Register mounts every /api/v1 route on r.
func Register(r *gin.Engine, c *controller.Controller, m *middleware.Middleware) {
	r.GET("/", c.Index.Index)
	r.GET("/health", c.Index.Health)

	rApi := r.Group("/api")

	V1_Auth(rApi, c.Auth)
	V1_OAuth(rApi, c.OAuth)
	V1_Users(rApi, c.User, m)
	V1_Me(rApi, c.User, m)
	V1_Movies(rApi, c.Movie, m)
	V1_Votes(rApi, c.Vote, m)
	V1_Awards(rApi, c.Award, m)
	V1_Categories(rApi, c.Category, m)
	V1_Collaborators(rApi, c.Collaborator, m)
	V1_Dashboard(rApi, c.Dashboard, m)
	V1_Events(rApi, c.Event, m)
}
