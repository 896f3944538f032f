package controller

import (
	"strconv"

	"github.com/SeakMengs/MarsAI/internal/repository"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

type VoteController struct {
	*baseController
}

type voteRequest struct {
	// A number or a numeric string.
	Note     any    `json:"note"`
	Comments string `json:"comments" binding:"max=5000"`
}

// CastMine creates or updates the caller's vote on a movie they are assigned to.
func (vc VoteController) CastMine(ctx *gin.Context) {
	authUser, ok := vc.mustAuthUser(ctx)
	if !ok {
		return
	}

	movieId, err := paramId(ctx, "id_movie")
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	var body voteRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		vc.bindFailed(ctx, err)
		return
	}

	note, err := util.ParseNote(body.Note)
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	result, err := vc.app.Repository.Vote.CastOrUpdate(ctx, nil, movieId, authUser.ID, note, util.SanitizeText(body.Comments))
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	vc.app.Logger.Infow("vote cast", "movieId", movieId, "juryId", authUser.ID, "created", result.Created, "modificationCount", result.Vote.ModificationCount)
	util.ResponseSuccess(ctx, gin.H{
		"vote":       result.Vote,
		"created":    result.Created,
		"isModified": result.IsModified,
		"isApproved": result.IsApproved,
	})
}

func (vc VoteController) ListMine(ctx *gin.Context) {
	authUser, ok := vc.mustAuthUser(ctx)
	if !ok {
		return
	}

	page, pageSize := util.ReadPagination(ctx)
	votes, total, err := vc.app.Repository.Vote.ListByUser(ctx, nil, authUser.ID, page, pageSize)
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"votes":      votes,
		"pagination": newPaginated(page, pageSize, total),
	})
}

func (vc VoteController) GetMine(ctx *gin.Context) {
	authUser, ok := vc.mustAuthUser(ctx)
	if !ok {
		return
	}

	movieId, err := paramId(ctx, "id_movie")
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	vote, err := vc.app.Repository.Vote.GetByMovieAndUser(ctx, nil, movieId, authUser.ID)
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"vote": vote})
}

// AdminCreate records a vote for any user. Comments are optional here.
func (vc VoteController) AdminCreate(ctx *gin.Context) {
	movieId, err := paramId(ctx, "id_movie")
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	userId, err := paramId(ctx, "id_user")
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	var body voteRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		vc.bindFailed(ctx, err)
		return
	}

	note, err := util.ParseNote(body.Note)
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	vote, err := vc.app.Repository.Vote.CreateVote(ctx, nil, movieId, userId, note, util.SanitizeText(body.Comments))
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"vote": vote})
}

// List accepts optional id_movie and id_user filters.
func (vc VoteController) List(ctx *gin.Context) {
	var filter repository.VoteFilter
	if v := ctx.Query("id_movie"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			vc.fail(ctx, invalidQuery("id_movie", err))
			return
		}
		filter.MovieID = uint(id)
	}
	if v := ctx.Query("id_user"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			vc.fail(ctx, invalidQuery("id_user", err))
			return
		}
		filter.UserID = uint(id)
	}

	page, pageSize := util.ReadPagination(ctx)
	votes, total, err := vc.app.Repository.Vote.List(ctx, nil, filter, page, pageSize)
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"votes":      votes,
		"pagination": newPaginated(page, pageSize, total),
	})
}

func (vc VoteController) Get(ctx *gin.Context) {
	voteId, err := paramId(ctx, "id")
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	vote, err := vc.app.Repository.Vote.GetById(ctx, nil, voteId)
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"vote": vote})
}

func (vc VoteController) Delete(ctx *gin.Context) {
	voteId, err := paramId(ctx, "id")
	if err != nil {
		vc.fail(ctx, err)
		return
	}

	if err := vc.app.Repository.Vote.Delete(ctx, nil, voteId); err != nil {
		vc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}
