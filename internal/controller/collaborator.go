package controller

import (
	"strings"

	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

type CollaboratorController struct {
	*baseController
}

func (cc CollaboratorController) List(ctx *gin.Context) {
	page, pageSize := util.ReadPagination(ctx)

	collaborators, total, err := cc.app.Repository.Collaborator.List(ctx, nil, strings.TrimSpace(ctx.Query("search")), page, pageSize)
	if err != nil {
		cc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"collaborators": collaborators,
		"pagination":    newPaginated(page, pageSize, total),
	})
}
