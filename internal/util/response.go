package util

import (
	"errors"
	"net/http"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func BuildResponseSuccess(data any) Response {
	return Response{
		Success: true,
		Message: constant.REQUEST_SUCCESSFUL,
		Data:    data,
	}
}

func ResponseSuccess(ctx *gin.Context, data any) {
	if data == nil {
		data = gin.H{}
	}

	ctx.JSON(http.StatusOK, BuildResponseSuccess(data))
	ctx.Abort()
}

func BuildResponseFailed(message string, err any, data any) Response {
	if message == "" {
		message = constant.REQUEST_UNSUCCESSFUL
	}

	// Sometimes we define err type any but err type is error
	if e, ok := err.(error); ok {
		err = GenerateErrorMessages(e)
	}

	if err == nil {
		err = gin.H{}
	}

	if data == nil {
		data = gin.H{}
	}

	return Response{
		Success: false,
		Message: message,
		Errors:  err,
		Data:    data,
	}
}

func ResponseFailed(ctx *gin.Context, code int, message string, err any, data any) {
	ctx.JSON(code, BuildResponseFailed(message, err, data))
	ctx.Abort()
}

// ResponseAppError maps an apperror kind to its status code. Internal errors are
// logged with their cause, the client only receives the message.
func ResponseAppError(ctx *gin.Context, logger *zap.SugaredLogger, err error) {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		ae = apperror.Internal("unexpected error", err)
	}

	code := ae.HTTPStatus()
	if code >= http.StatusInternalServerError {
		if logger != nil {
			logger.Errorw("request failed", "path", ctx.FullPath(), "error", err)
		}
		ResponseFailed(ctx, code, ae.Message, []ApiError{{Field: "Unknown", Message: ae.Message}}, nil)
		return
	}

	field := ae.Field
	if field == "" {
		field = string(ae.Kind)
	}

	ResponseFailed(ctx, code, ae.Message, []ApiError{{Field: field, Message: ae.Message}}, nil)
}
