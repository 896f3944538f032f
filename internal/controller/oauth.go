package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

const oauthStateCookie = "oauth_state"

type OAuthController struct {
	*baseController
	googleOAuthConfig *oauth2.Config
}

type GoogleUser struct {
	Email         string `json:"email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	VerifiedEmail bool   `json:"verified_email"`
	AccessToken   string `json:"-"`
}

func (oc OAuthController) ContinueWithGoogle(ctx *gin.Context) {
	oc.app.Logger.Debug("OAuth: Google logic")

	state, err := util.GenerateNChar(16)
	if err != nil {
		oc.fail(ctx, err)
		return
	}

	ctx.SetCookie(oauthStateCookie, state, 600, "/", "", oc.app.Config.IsProduction(), true)
	url := oc.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)

	oc.app.Logger.Debugf("OAuth: Google, Redirect to: %s", url)
	ctx.Redirect(http.StatusTemporaryRedirect, url)
}

func (oc OAuthController) getGoogleUserInfo(ctx context.Context, code string) (*GoogleUser, error) {
	oc.app.Logger.Debug("OAuth: Google, Get user info logic")

	// Exchange the authorization code for an access token
	token, err := oc.googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		oc.app.Logger.Debug("OAuth: Google, Error: Failed to exchange token")
		return nil, err
	}

	// Use the access token to fetch user info
	client := oc.googleOAuthConfig.Client(ctx, token)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		oc.app.Logger.Debug("OAuth: Google, Error: Failed to fetch user info")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo returned status %d", resp.StatusCode)
	}

	var userInfo GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		oc.app.Logger.Debug("OAuth: Google, Error: Failed to decode user info")
		return nil, err
	}
	userInfo.AccessToken = token.AccessToken

	return &userInfo, nil
}

// ContinueWithGoogleCallback signs the Google account in, creating a PRODUCER on first use.
func (oc OAuthController) ContinueWithGoogleCallback(ctx *gin.Context) {
	oc.app.Logger.Debug("OAuth: Google callback logic")

	state, err := ctx.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != ctx.Query("state") {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid oauth state", util.GenerateErrorMessages(errors.New("oauth state mismatch"), "state"), nil)
		return
	}
	ctx.SetCookie(oauthStateCookie, "", -1, "/", "", oc.app.Config.IsProduction(), true)

	userInfo, err := oc.getGoogleUserInfo(ctx, ctx.Query("code"))
	if err != nil {
		oc.app.Logger.Debugf("OAuth: Google, Error: Failed to get user info: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "", util.GenerateErrorMessages(err, "oauth"), nil)
		return
	}

	if !userInfo.VerifiedEmail {
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Google email is not verified", util.GenerateErrorMessages(errors.New("email not verified"), "email"), nil)
		return
	}

	user, err := oc.app.Repository.User.GetByEmail(ctx, nil, userInfo.Email)
	if apperror.KindOf(err) == apperror.KindNotFound {
		// If new user, create account
		user, err = oc.app.Repository.User.CheckDupAndCreate(ctx, nil, &model.User{
			Email:      userInfo.Email,
			FirstName:  userInfo.GivenName,
			LastName:   userInfo.FamilyName,
			ProfileURL: userInfo.Picture,
			Role:       constant.RoleProducer,
		})
	}
	if err != nil {
		oc.app.Logger.Debug("OAuth: Google, Error: Failed to get or create user")
		oc.fail(ctx, err)
		return
	}

	// Create or update oauth provider such that we can store the access token
	if err := oc.app.Repository.OAuthProvider.CreateOrUpdateByProviderUserId(ctx, nil, model.OAuthProvider{
		ProviderUserId: userInfo.ID,
		ProviderType:   constant.OAUTH_PROVIDER_GOOGLE,
		AccessToken:    userInfo.AccessToken,
		UserID:         user.ID,
	}); err != nil {
		oc.app.Logger.Warnf("OAuth: Google, failed to store provider for user %d: %v", user.ID, err)
	}

	refreshToken, accessToken, err := oc.app.Repository.JWT.GenRefreshAndAccessToken(ctx, nil, *user)
	if err != nil {
		oc.app.Logger.Debug("OAuth: Google, Error: Failed to generate refresh and access token")
		oc.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"user":         user,
		"refreshToken": refreshToken,
		"accessToken":  accessToken,
	})
}
