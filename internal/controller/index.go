package controller

import (
	"net/http"

	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

type IndexController struct {
	*baseController
}

func (ic IndexController) Index(ctx *gin.Context) {
	util.ResponseSuccess(ctx, gin.H{
		"message": "Welcome to the " + util.GetAppName() + " api",
	})
}

// Health pings the database.
func (ic IndexController) Health(ctx *gin.Context) {
	sqlDB, err := ic.app.Repository.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		ic.app.Logger.Errorw("health check failed", "error", err)
		util.ResponseFailed(ctx, http.StatusServiceUnavailable, "Database unavailable", nil, nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"status": "ok"})
}
