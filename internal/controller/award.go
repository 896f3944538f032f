package controller

import (
	"strconv"

	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

type AwardController struct {
	*baseController
}

// List is public. ?id_movie= narrows it to one movie, which must exist.
func (ac AwardController) List(ctx *gin.Context) {
	var (
		awards []model.Award
		err    error
	)

	if v := ctx.Query("id_movie"); v != "" {
		id, parseErr := strconv.ParseUint(v, 10, 64)
		if parseErr != nil || id == 0 {
			ac.fail(ctx, invalidQuery("id_movie", parseErr))
			return
		}
		awards, err = ac.app.Repository.Award.ListByMovie(ctx, nil, uint(id))
	} else {
		awards, err = ac.app.Repository.Award.List(ctx, nil, 0)
	}
	if err != nil {
		ac.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"awards": awards})
}

// Create returns the existing award when the name is already taken.
func (ac AwardController) Create(ctx *gin.Context) {
	movieId, err := paramId(ctx, "id_movie")
	if err != nil {
		ac.fail(ctx, err)
		return
	}

	type Request struct {
		AwardName string `json:"award_name" form:"award_name" binding:"max=255"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		ac.bindFailed(ctx, err)
		return
	}

	award, created, err := ac.app.Repository.Award.Create(ctx, nil, movieId, util.SanitizeText(body.AwardName))
	if err != nil {
		ac.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"award":   award,
		"created": created,
	})
}

// Update renames the award and/or moves it to the movie in the path.
func (ac AwardController) Update(ctx *gin.Context) {
	awardId, err := paramId(ctx, "id")
	if err != nil {
		ac.fail(ctx, err)
		return
	}

	movieId, err := paramId(ctx, "id_movie")
	if err != nil {
		ac.fail(ctx, err)
		return
	}

	type Request struct {
		AwardName *string `json:"award_name" binding:"omitempty,max=255"`
	}
	var body Request

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ac.bindFailed(ctx, err)
		return
	}

	award, err := ac.app.Repository.Award.Update(ctx, nil, awardId, sanitizePtr(body.AwardName), &movieId)
	if err != nil {
		ac.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"award": award})
}

func (ac AwardController) Delete(ctx *gin.Context) {
	awardId, err := paramId(ctx, "id")
	if err != nil {
		ac.fail(ctx, err)
		return
	}

	if err := ac.app.Repository.Award.Delete(ctx, nil, awardId); err != nil {
		ac.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}
