package controller

import (
	"time"

	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	*baseController
}

// Stats are recomputed on every call.
func (dc DashboardController) Stats(ctx *gin.Context) {
	stats, err := dc.app.Repository.Dashboard.GetStats(ctx, nil, time.Now())
	if err != nil {
		dc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"stats": stats})
}
