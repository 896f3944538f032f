package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	appcontext "github.com/SeakMengs/MarsAI/internal/app_context"
	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/auth"
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	User         *UserController
	Index        *IndexController
	Auth         *AuthController
	OAuth        *OAuthController
	Movie        *MovieController
	Vote         *VoteController
	Award        *AwardController
	Category     *CategoryController
	Collaborator *CollaboratorController
	Dashboard    *DashboardController
	Event        *EventController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	googleOAuthConfig := &oauth2.Config{
		ClientID:     app.Config.Auth.GoogleOAuthConfig.ClientID,
		ClientSecret: app.Config.Auth.GoogleOAuthConfig.ClientSecret,
		RedirectURL:  app.Config.Auth.GoogleOAuthConfig.RedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}

	return &Controller{
		User:         &UserController{baseController: bc},
		Index:        &IndexController{baseController: bc},
		Auth:         &AuthController{baseController: bc},
		OAuth:        &OAuthController{baseController: bc, googleOAuthConfig: googleOAuthConfig},
		Movie:        &MovieController{baseController: bc},
		Vote:         &VoteController{baseController: bc},
		Award:        &AwardController{baseController: bc},
		Category:     &CategoryController{baseController: bc},
		Collaborator: &CollaboratorController{baseController: bc},
		Dashboard:    &DashboardController{baseController: bc},
		Event:        &EventController{baseController: bc},
	}
}

func (b *baseController) getAuthUser(ctx *gin.Context) (*auth.JWTPayload, error) {
	user, exists := ctx.Get(constant.CTX_USER)
	if !exists {
		return nil, errors.New("user not found in context")
	}

	if payload, ok := user.(auth.JWTPayload); ok {
		return &payload, nil
	}

	jsonUser, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	var authUser *auth.JWTPayload
	err = json.Unmarshal(jsonUser, &authUser)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}

	return authUser, nil
}

// mustAuthUser writes a 401 and returns false when there is no principal.
func (b *baseController) mustAuthUser(ctx *gin.Context) (*auth.JWTPayload, bool) {
	user, err := b.getAuthUser(ctx)
	if err != nil {
		b.app.Logger.Debugf("Get auth user: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Unauthorized", util.GenerateErrorMessages(err, "unauthorized"), nil)
		return nil, false
	}
	return user, true
}

func (b *baseController) fail(ctx *gin.Context, err error) {
	util.ResponseAppError(ctx, b.app.Logger, err)
}

func (b *baseController) bindFailed(ctx *gin.Context, err error) {
	b.app.Logger.Debugf("Bind request: %v", err)
	util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
}

// paramId reads a positive integer path parameter.
func paramId(ctx *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation(name+" must be a positive integer", err).WithField(name)
	}
	return uint(id), nil
}

type paginated struct {
	Page       uint  `json:"page"`
	PageSize   uint  `json:"pageSize"`
	TotalCount int64 `json:"totalCount"`
	TotalPage  int   `json:"totalPage"`
}

func newPaginated(page, pageSize uint, total int64) paginated {
	return paginated{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPage:  util.CalculateTotalPage(total, pageSize),
	}
}

func invalidQuery(name string, err error) error {
	return apperror.Validation(name+" must be a positive integer", err).WithField(name)
}
