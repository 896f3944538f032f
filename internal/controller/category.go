package controller

import (
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	*baseController
}

type categoryRequest struct {
	Name string `json:"name" form:"name" binding:"required,strNotEmpty,max=100"`
}

func (cc CategoryController) List(ctx *gin.Context) {
	categories, err := cc.app.Repository.Category.List(ctx, nil)
	if err != nil {
		cc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"categories": categories})
}

func (cc CategoryController) Create(ctx *gin.Context) {
	var body categoryRequest
	if err := ctx.ShouldBind(&body); err != nil {
		cc.bindFailed(ctx, err)
		return
	}

	category, err := cc.app.Repository.Category.Create(ctx, nil, util.SanitizeText(body.Name))
	if err != nil {
		cc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"category": category})
}

func (cc CategoryController) Update(ctx *gin.Context) {
	categoryId, err := paramId(ctx, "id")
	if err != nil {
		cc.fail(ctx, err)
		return
	}

	var body categoryRequest
	if err := ctx.ShouldBind(&body); err != nil {
		cc.bindFailed(ctx, err)
		return
	}

	category, err := cc.app.Repository.Category.Update(ctx, nil, categoryId, util.SanitizeText(body.Name))
	if err != nil {
		cc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"category": category})
}

func (cc CategoryController) Delete(ctx *gin.Context) {
	categoryId, err := paramId(ctx, "id")
	if err != nil {
		cc.fail(ctx, err)
		return
	}

	if err := cc.app.Repository.Category.Delete(ctx, nil, categoryId); err != nil {
		cc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}
