package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	*baseController
}

// Register creates a PRODUCER account and signs it in.
func (ac AuthController) Register(ctx *gin.Context) {
	type Request struct {
		Email     string `json:"email" form:"email" binding:"required,email,max=255"`
		Password  string `json:"password" form:"password" binding:"required,min=8,max=72"`
		FirstName string `json:"first_name" form:"first_name" binding:"required,strNotEmpty,max=100"`
		LastName  string `json:"last_name" form:"last_name" binding:"required,strNotEmpty,max=100"`
		Job       string `json:"job" form:"job" binding:"max=100"`
		Phone     string `json:"phone" form:"phone" binding:"max=50"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		ac.bindFailed(ctx, err)
		return
	}

	hashed, err := util.HashPassword(body.Password)
	if err != nil {
		ac.fail(ctx, err)
		return
	}

	user, err := ac.app.Repository.User.CheckDupAndCreate(ctx, nil, &model.User{
		Email:     body.Email,
		Password:  hashed,
		FirstName: util.SanitizeText(body.FirstName),
		LastName:  util.SanitizeText(body.LastName),
		Job:       util.SanitizeText(body.Job),
		Phone:     strings.TrimSpace(body.Phone),
		Role:      constant.RoleProducer,
	})
	if err != nil {
		ac.fail(ctx, err)
		return
	}

	ac.issueTokens(ctx, user)
}

func (ac AuthController) Login(ctx *gin.Context) {
	type Request struct {
		Email    string `json:"email" form:"email" binding:"required,email"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		ac.bindFailed(ctx, err)
		return
	}

	user, err := ac.app.Repository.User.GetByEmail(ctx, nil, body.Email)
	if err != nil || !util.CheckPassword(user.Password, body.Password) {
		ac.app.Logger.Debugf("Login failed for %s", body.Email)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid email or password", util.GenerateErrorMessages(errors.New("invalid email or password"), "credentials"), nil)
		return
	}

	ac.issueTokens(ctx, user)
}

func (ac AuthController) issueTokens(ctx *gin.Context, user *model.User) {
	refreshToken, accessToken, err := ac.app.Repository.JWT.GenRefreshAndAccessToken(ctx, nil, *user)
	if err != nil {
		ac.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user":         user,
		"refreshToken": refreshToken,
		"accessToken":  accessToken,
	})
}

func (ac AuthController) VerifyJwtAccessToken(ctx *gin.Context) {
	token, err := util.ReadBearerToken(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err), gin.H{
			"tokenValid": false,
		})
		return
	}

	// Keep in mind that verify jwt token does not check database.
	jwtClaims, err := ac.app.JWTService.VerifyJwtToken(token)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err), gin.H{
			"tokenValid": false,
		})
		return
	}

	if jwtClaims.Type != constant.JWT_TYPE_ACCESS {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(errors.New("invalid jwt token type")), gin.H{
			"tokenValid": false,
		})
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"tokenValid": true,
		"payload":    jwtClaims,
	})
}

func (ac AuthController) RefreshAccessToken(ctx *gin.Context) {
	refreshToken, err := util.ReadRefreshToken(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err), nil)
		return
	}

	jwtClaims, err := ac.app.JWTService.VerifyJwtToken(refreshToken)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err), nil)
		return
	}

	if jwtClaims.Type != constant.JWT_TYPE_REFRESH {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(errors.New("invalid jwt token type")), nil)
		return
	}

	newRefreshToken, newAccessToken, err := ac.app.Repository.JWT.RefreshToken(ctx, nil, refreshToken)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err), nil)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"refreshToken": newRefreshToken,
		"accessToken":  newAccessToken,
	})
}

// Logout revokes the refresh token sent as "Refresh <token>".
func (ac AuthController) Logout(ctx *gin.Context) {
	refreshToken, err := util.ReadRefreshToken(ctx)
	if err != nil {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err), nil)
		return
	}

	if err := ac.app.Repository.JWT.DeleteToken(ctx, nil, refreshToken); err != nil {
		ac.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}
