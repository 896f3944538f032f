package controller

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/auth"
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/mailer"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/SeakMengs/MarsAI/internal/repository"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

type MovieController struct {
	*baseController
}

type movieResponse struct {
	*model.Movie
	Producer  *model.UserSummary  `json:"producer,omitempty"`
	Juries    []model.UserSummary `json:"juries,omitempty"`
	AssetURLs map[string]string   `json:"asset_urls"`
}

// Juries are only exposed to admins.
func (b *baseController) toMovieResponse(ctx *gin.Context, movie *model.Movie, withJuries bool) movieResponse {
	resp := movieResponse{
		Movie:     movie,
		AssetURLs: b.app.Storage.URLs(ctx, movie.AssetNames()),
	}

	if movie.Producer.ID != 0 {
		producer := movie.Producer.Summary()
		resp.Producer = &producer
	}

	if withJuries {
		resp.Juries = make([]model.UserSummary, 0, len(movie.Juries))
		for _, j := range movie.Juries {
			resp.Juries = append(resp.Juries, j.Summary())
		}
	}

	return resp
}

func (b *baseController) listMovies(ctx *gin.Context, filter repository.MovieFilter, withJuries bool) {
	page, pageSize := util.ReadPagination(ctx)

	movies, total, err := b.app.Repository.Movie.List(ctx, nil, filter, page, pageSize)
	if err != nil {
		b.fail(ctx, err)
		return
	}

	out := make([]movieResponse, 0, len(movies))
	for i := range movies {
		out = append(out, b.toMovieResponse(ctx, &movies[i], withJuries))
	}

	util.ResponseSuccess(ctx, gin.H{
		"movies":     out,
		"pagination": newPaginated(page, pageSize, total),
	})
}

func canViewMovie(user *auth.JWTPayload, movie *model.Movie) bool {
	switch user.Role {
	case constant.RoleAdmin:
		return true
	case constant.RoleProducer:
		return movie.UserID == user.ID
	case constant.RoleJury:
		for _, j := range movie.Juries {
			if j.ID == user.ID {
				return true
			}
		}
	}
	return false
}

// Create accepts a MovieSubmission from a producer or an admin.
func (mc MovieController) Create(ctx *gin.Context) {
	authUser, ok := mc.mustAuthUser(ctx)
	if !ok {
		return
	}

	var body MovieSubmission
	if err := ctx.ShouldBind(&body); err != nil {
		mc.bindFailed(ctx, err)
		return
	}
	body.fillFormRelations(ctx)

	movie, err := body.toModel()
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	rel, err := body.relations()
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	movie.UserID = authUser.ID
	if authUser.Role == constant.RoleAdmin && body.UserID != 0 {
		movie.UserID = body.UserID
	}

	created, err := mc.app.Repository.Movie.Create(ctx, nil, movie, rel)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	mc.app.Logger.Infow("movie submitted", "movieId", created.ID, "ownerId", created.UserID, "by", authUser.ID)
	util.ResponseSuccess(ctx, gin.H{
		"movie": mc.toMovieResponse(ctx, created, authUser.Role == constant.RoleAdmin),
	})
}

// List is the admin view over every movie.
func (mc MovieController) List(ctx *gin.Context) {
	filter := repository.MovieFilter{
		Status: constant.SelectionStatus(strings.TrimSpace(ctx.Query("status"))),
		Search: strings.TrimSpace(ctx.Query("search")),
	}

	mc.listMovies(ctx, filter, true)
}

func (mc MovieController) Get(ctx *gin.Context) {
	authUser, ok := mc.mustAuthUser(ctx)
	if !ok {
		return
	}

	movieId, err := paramId(ctx, "id")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	movie, err := mc.app.Repository.Movie.GetById(ctx, nil, movieId)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	if !canViewMovie(authUser, movie) {
		mc.fail(ctx, apperror.Forbidden("you do not have access to this movie", nil))
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"movie": mc.toMovieResponse(ctx, movie, authUser.Role == constant.RoleAdmin),
	})
}

func (mc MovieController) Update(ctx *gin.Context) {
	movieId, err := paramId(ctx, "id")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	var body MovieEdit
	if err := ctx.ShouldBindJSON(&body); err != nil {
		mc.bindFailed(ctx, err)
		return
	}

	upd, err := body.toUpdate()
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	movie, err := mc.app.Repository.Movie.Update(ctx, nil, movieId, upd)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"movie": mc.toMovieResponse(ctx, movie, true)})
}

// Delete removes the movie with its votes, awards and links, then its stored files.
func (mc MovieController) Delete(ctx *gin.Context) {
	movieId, err := paramId(ctx, "id")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	movie, err := mc.app.Repository.Movie.Delete(ctx, nil, movieId)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	mc.app.Storage.Remove(ctx, movie.AssetNames())

	util.ResponseSuccess(ctx, gin.H{"id": movie.ID})
}

func (mc MovieController) UpdateStatus(ctx *gin.Context) {
	authUser, ok := mc.mustAuthUser(ctx)
	if !ok {
		return
	}

	movieId, err := paramId(ctx, "id")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	type Request struct {
		SelectionStatus string `json:"selection_status" form:"selection_status" binding:"required"`
		JuryComment     string `json:"jury_comment" form:"jury_comment" binding:"max=5000"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		mc.bindFailed(ctx, err)
		return
	}

	status := constant.SelectionStatus(strings.TrimSpace(body.SelectionStatus))
	movie, err := mc.app.Repository.Movie.SetStatus(ctx, nil, movieId, status, util.SanitizeText(body.JuryComment), authUser.Role)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	mc.app.Logger.Infow("movie status changed", "movieId", movie.ID, "status", movie.SelectionStatus, "by", authUser.ID)
	util.ResponseSuccess(ctx, gin.H{"movie": mc.toMovieResponse(ctx, movie, true)})
}

// Promote moves a movie from to_discuss to candidate on behalf of an assigned juror.
func (mc MovieController) Promote(ctx *gin.Context) {
	authUser, ok := mc.mustAuthUser(ctx)
	if !ok {
		return
	}

	movieId, err := paramId(ctx, "id")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	type Request struct {
		JuryComment string `json:"jury_comment" binding:"max=5000"`
	}
	var body Request

	// The body is optional.
	if err := ctx.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		mc.bindFailed(ctx, err)
		return
	}

	movie, err := mc.app.Repository.Movie.PromoteToCandidate(ctx, nil, movieId, authUser.ID, util.SanitizeText(body.JuryComment))
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	mc.app.Logger.Infow("movie promoted to candidate", "movieId", movie.ID, "juryId", authUser.ID)
	util.ResponseSuccess(ctx, gin.H{"movie": mc.toMovieResponse(ctx, movie, false)})
}

func (mc MovieController) SetCategories(ctx *gin.Context) {
	movieId, err := paramId(ctx, "id")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	raw, err := readRawField(ctx, "categories")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	ids, err := parseIdList(raw, "categories")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	categories, err := mc.app.Repository.Assignment.SetCategories(ctx, nil, movieId, ids)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"categories": categories})
}

// SetJuries replaces the jury panel and emails jurors who were not on it before.
func (mc MovieController) SetJuries(ctx *gin.Context) {
	movieId, err := paramId(ctx, "id")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	raw, err := readRawField(ctx, "juryIds")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	ids, err := parseIdList(raw, "juryIds")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	juries, newlyAssigned, err := mc.app.Repository.Assignment.SetJuries(ctx, nil, movieId, ids)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	if len(newlyAssigned) > 0 {
		movie, err := mc.app.Repository.Movie.GetById(ctx, nil, movieId)
		if err != nil {
			mc.app.Logger.Warnf("Jury assignment mail skipped, movie %d: %v", movieId, err)
		} else {
			go mc.notifyJuries(movie, newlyAssigned)
		}
	}

	out := make([]model.UserSummary, 0, len(juries))
	for _, j := range juries {
		out = append(out, j.Summary())
	}

	util.ResponseSuccess(ctx, gin.H{"juries": out})
}

// Mail failures never fail the assignment.
func (mc MovieController) notifyJuries(movie *model.Movie, juries []model.User) {
	if mc.app.Mailer == nil {
		return
	}

	movieURL := strings.TrimRight(mc.app.Config.FrontURL, "/") + "/jury/movies/" + strconv.FormatUint(uint64(movie.ID), 10)
	for _, j := range juries {
		data := mailer.JuryAssignmentData{
			MovieID:    movie.ID,
			JuryID:     j.ID,
			JuryName:   strings.TrimSpace(j.FirstName + " " + j.LastName),
			MovieTitle: movie.Title,
			MovieURL:   movieURL,
			AppName:    util.GetAppName(),
		}
		if _, err := mc.app.Mailer.Send(mailer.JURY_ASSIGNMENT_TEMPLATE, data.JuryName, j.Email, data); err != nil {
			mc.app.Logger.Errorw("failed to send jury assignment mail", "movieId", movie.ID, "juryId", j.ID, "error", err)
		}
	}
}

// SetCollaborators is open to admins and to the producer who owns the movie.
func (mc MovieController) SetCollaborators(ctx *gin.Context) {
	authUser, ok := mc.mustAuthUser(ctx)
	if !ok {
		return
	}

	movieId, err := paramId(ctx, "id")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	if authUser.Role != constant.RoleAdmin {
		movie, err := mc.app.Repository.Movie.GetById(ctx, nil, movieId)
		if err != nil {
			mc.fail(ctx, err)
			return
		}
		if movie.UserID != authUser.ID {
			mc.fail(ctx, apperror.Forbidden("only the owner can edit collaborators", nil))
			return
		}
	}

	raw, err := readRawField(ctx, "collaborators")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	payloads, err := parseCollaborators(raw)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	collaborators, err := mc.app.Repository.Assignment.SetCollaborators(ctx, nil, movieId, payloads)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"collaborators": collaborators})
}

func (mc MovieController) DeleteVotes(ctx *gin.Context) {
	movieId, err := paramId(ctx, "id")
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	deleted, err := mc.app.Repository.Vote.DeleteByMovie(ctx, nil, movieId)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"deleted": deleted})
}
