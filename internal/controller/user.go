package controller

import (
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/SeakMengs/MarsAI/internal/repository"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	*baseController
}

func (uc UserController) List(ctx *gin.Context) {
	page, pageSize := util.ReadPagination(ctx)

	filter := repository.UserFilter{Search: strings.TrimSpace(ctx.Query("search"))}
	if role := ctx.Query("role"); role != "" {
		r, ok := constant.ParseUserRole(role)
		if !ok {
			uc.fail(ctx, apperror.Validation("role is not allowed", nil).WithField("role"))
			return
		}
		filter.Role = r
	}

	users, total, err := uc.app.Repository.User.List(ctx, nil, filter, page, pageSize)
	if err != nil {
		uc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"users":      users,
		"pagination": newPaginated(page, pageSize, total),
	})
}

func (uc UserController) Get(ctx *gin.Context) {
	userId, err := paramId(ctx, "id")
	if err != nil {
		uc.fail(ctx, err)
		return
	}

	user, err := uc.app.Repository.User.GetById(ctx, nil, userId)
	if err != nil {
		uc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"user": user})
}

// Create lets an admin add an account of any role, typically jurors.
func (uc UserController) Create(ctx *gin.Context) {
	type Request struct {
		Email     string            `json:"email" form:"email" binding:"required,email,max=255"`
		Password  string            `json:"password" form:"password" binding:"required,min=8,max=72"`
		FirstName string            `json:"first_name" form:"first_name" binding:"required,strNotEmpty,max=100"`
		LastName  string            `json:"last_name" form:"last_name" binding:"required,strNotEmpty,max=100"`
		Role      constant.UserRole `json:"role" form:"role" binding:"required,userRole"`
		Job       string            `json:"job" form:"job" binding:"max=100"`
		Phone     string            `json:"phone" form:"phone" binding:"max=50"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		uc.bindFailed(ctx, err)
		return
	}

	hashed, err := util.HashPassword(body.Password)
	if err != nil {
		uc.fail(ctx, err)
		return
	}

	user, err := uc.app.Repository.User.CheckDupAndCreate(ctx, nil, &model.User{
		Email:     body.Email,
		Password:  hashed,
		FirstName: util.SanitizeText(body.FirstName),
		LastName:  util.SanitizeText(body.LastName),
		Role:      body.Role,
		Job:       util.SanitizeText(body.Job),
		Phone:     strings.TrimSpace(body.Phone),
	})
	if err != nil {
		uc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"user": user})
}

func (uc UserController) Update(ctx *gin.Context) {
	userId, err := paramId(ctx, "id")
	if err != nil {
		uc.fail(ctx, err)
		return
	}

	type Request struct {
		FirstName  *string            `json:"first_name" binding:"omitempty,strNotEmpty,max=100"`
		LastName   *string            `json:"last_name" binding:"omitempty,strNotEmpty,max=100"`
		Role       *constant.UserRole `json:"role" binding:"omitempty,userRole"`
		Job        *string            `json:"job" binding:"omitempty,max=100"`
		Phone      *string            `json:"phone" binding:"omitempty,max=50"`
		ProfileURL *string            `json:"profile_url" binding:"omitempty,url"`
		Password   *string            `json:"password" binding:"omitempty,min=8,max=72"`
	}
	var body Request

	if err := ctx.ShouldBindJSON(&body); err != nil {
		uc.bindFailed(ctx, err)
		return
	}

	upd := repository.UserUpdate{
		FirstName:  sanitizePtr(body.FirstName),
		LastName:   sanitizePtr(body.LastName),
		Role:       body.Role,
		Job:        sanitizePtr(body.Job),
		Phone:      body.Phone,
		ProfileURL: body.ProfileURL,
	}
	if body.Password != nil {
		hashed, err := util.HashPassword(*body.Password)
		if err != nil {
			uc.fail(ctx, err)
			return
		}
		upd.Password = &hashed
	}

	user, err := uc.app.Repository.User.Update(ctx, nil, userId, upd)
	if err != nil {
		uc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"user": user})
}

func (uc UserController) Delete(ctx *gin.Context) {
	userId, err := paramId(ctx, "id")
	if err != nil {
		uc.fail(ctx, err)
		return
	}

	authUser, ok := uc.mustAuthUser(ctx)
	if !ok {
		return
	}
	if authUser.ID == userId {
		uc.fail(ctx, apperror.Validation("you cannot delete your own account", nil).WithField("id"))
		return
	}

	if err := uc.app.Repository.User.Delete(ctx, nil, userId); err != nil {
		uc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}

func (uc UserController) Me(ctx *gin.Context) {
	authUser, ok := uc.mustAuthUser(ctx)
	if !ok {
		return
	}

	user, err := uc.app.Repository.User.GetById(ctx, nil, authUser.ID)
	if err != nil {
		uc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"user": user})
}

// MyMovies lists the movies the caller submitted.
func (uc UserController) MyMovies(ctx *gin.Context) {
	authUser, ok := uc.mustAuthUser(ctx)
	if !ok {
		return
	}

	uc.listMovies(ctx, repository.MovieFilter{ProducerID: authUser.ID}, false)
}

// MyAssignedMovies lists the movies the calling juror is assigned to.
func (uc UserController) MyAssignedMovies(ctx *gin.Context) {
	authUser, ok := uc.mustAuthUser(ctx)
	if !ok {
		return
	}

	uc.listMovies(ctx, repository.MovieFilter{JuryID: authUser.ID}, false)
}

func sanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := util.SanitizeText(*s)
	return &v
}
