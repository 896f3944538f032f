package controller

import (
	"net/http"
	"strings"
	"time"

	"github.com/SeakMengs/MarsAI/internal/mailer"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/SeakMengs/MarsAI/internal/repository"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
)

const reservationQRCodeSize = 256

type EventController struct {
	*baseController
}

type eventRequest struct {
	Name        string    `json:"name" binding:"required,strNotEmpty,max=255"`
	Description string    `json:"description" binding:"max=5000"`
	Location    string    `json:"location" binding:"max=255"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at"`
	Capacity    int       `json:"capacity" binding:"min=0"`
}

func (r eventRequest) toInput() repository.EventInput {
	endsAt := r.EndsAt
	if endsAt.IsZero() {
		endsAt = r.StartsAt
	}

	return repository.EventInput{
		Name:        util.SanitizeText(r.Name),
		Description: util.SanitizeText(r.Description),
		Location:    util.SanitizeText(r.Location),
		StartsAt:    r.StartsAt,
		EndsAt:      endsAt,
		Capacity:    r.Capacity,
	}
}

// List hides past events unless ?past=true.
func (ec EventController) List(ctx *gin.Context) {
	events, err := ec.app.Repository.Event.List(ctx, nil, ctx.Query("past") == "true")
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"events": events})
}

func (ec EventController) Get(ctx *gin.Context) {
	eventId, err := paramId(ctx, "id")
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	event, err := ec.app.Repository.Event.GetById(ctx, nil, eventId)
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"event": event})
}

func (ec EventController) Create(ctx *gin.Context) {
	var body eventRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ec.bindFailed(ctx, err)
		return
	}

	event, err := ec.app.Repository.Event.Create(ctx, nil, body.toInput())
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"event": event})
}

func (ec EventController) Update(ctx *gin.Context) {
	eventId, err := paramId(ctx, "id")
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	var body eventRequest
	if err := ctx.ShouldBindJSON(&body); err != nil {
		ec.bindFailed(ctx, err)
		return
	}

	event, err := ec.app.Repository.Event.Update(ctx, nil, eventId, body.toInput())
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"event": event})
}

func (ec EventController) Delete(ctx *gin.Context) {
	eventId, err := paramId(ctx, "id")
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	if err := ec.app.Repository.Event.Delete(ctx, nil, eventId); err != nil {
		ec.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}

// Reserve is public. The confirmation mail links to the reservation QR code.
func (ec EventController) Reserve(ctx *gin.Context) {
	eventId, err := paramId(ctx, "id")
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	type Request struct {
		FirstName string `json:"first_name" form:"first_name" binding:"required,strNotEmpty,max=100"`
		LastName  string `json:"last_name" form:"last_name" binding:"required,strNotEmpty,max=100"`
		Email     string `json:"email" form:"email" binding:"required,email,max=255"`
		Seats     int    `json:"seats" form:"seats" binding:"min=0,max=20"`
	}
	var body Request

	if err := ctx.ShouldBind(&body); err != nil {
		ec.bindFailed(ctx, err)
		return
	}

	created, err := ec.app.Repository.Reservation.Create(ctx, nil, eventId, repository.ReservationInput{
		FirstName: util.SanitizeText(body.FirstName),
		LastName:  util.SanitizeText(body.LastName),
		Email:     body.Email,
		Seats:     body.Seats,
	})
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	reservation, err := ec.app.Repository.Reservation.GetByCode(ctx, nil, created.Code)
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	go ec.sendConfirmation(*reservation, ec.qrCodeURL(ctx, reservation.Code))

	util.ResponseSuccess(ctx, gin.H{"reservation": reservation})
}

func (ec EventController) qrCodeURL(ctx *gin.Context, code string) string {
	scheme := "http"
	if ctx.Request.TLS != nil || ctx.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + ctx.Request.Host + "/api/v1/reservations/" + code + "/qr"
}

func (ec EventController) sendConfirmation(reservation model.Reservation, qrCodeURL string) {
	if ec.app.Mailer == nil {
		return
	}

	data := mailer.ReservationConfirmationData{
		Name:      strings.TrimSpace(reservation.FirstName + " " + reservation.LastName),
		EventName: reservation.Event.Name,
		Location:  reservation.Event.Location,
		StartsAt:  reservation.Event.StartsAt.Format("Monday 02 January 2006, 15:04"),
		Seats:     reservation.Seats,
		Code:      reservation.Code,
		QRCodeURL: qrCodeURL,
		AppName:   util.GetAppName(),
	}
	if _, err := ec.app.Mailer.Send(mailer.RESERVATION_CONFIRMATION_TEMPLATE, data.Name, reservation.Email, data); err != nil {
		ec.app.Logger.Errorw("failed to send reservation confirmation", "reservationId", reservation.ID, "error", err)
	}
}

// QRCode renders the reservation code as a PNG.
func (ec EventController) QRCode(ctx *gin.Context) {
	reservation, err := ec.app.Repository.Reservation.GetByCode(ctx, nil, ctx.Param("code"))
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	png, err := util.GenerateQRCodePNG(reservation.Code, reservationQRCodeSize)
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	ctx.Header("Cache-Control", "private, max-age=3600")
	ctx.Data(http.StatusOK, "image/png", png)
}

func (ec EventController) ListReservations(ctx *gin.Context) {
	eventId, err := paramId(ctx, "id")
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	reservations, err := ec.app.Repository.Reservation.ListByEvent(ctx, nil, eventId)
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, gin.H{"reservations": reservations})
}

func (ec EventController) DeleteReservation(ctx *gin.Context) {
	reservationId, err := paramId(ctx, "id")
	if err != nil {
		ec.fail(ctx, err)
		return
	}

	if err := ec.app.Repository.Reservation.Delete(ctx, nil, reservationId); err != nil {
		ec.fail(ctx, err)
		return
	}

	util.ResponseSuccess(ctx, nil)
}
