package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/SeakMengs/MarsAI/internal/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Retries when a generated confirmation code collides with an existing one.
const reservationCodeAttempts = 3

type ReservationRepository struct {
	*baseRepository
}

type ReservationInput struct {
	FirstName string
	LastName  string
	Email     string
	Seats     int
}

// Create books seats on an event. The event row is locked while the reserved seats
// are summed so two bookings cannot both take the last seats.
func (rr ReservationRepository) Create(ctx context.Context, tx *gorm.DB, eventId uint, in ReservationInput) (*model.Reservation, error) {
	rr.logger.Debugf("Create reservation for event %d, seats: %d", eventId, in.Seats)

	if in.Seats == 0 {
		in.Seats = 1
	}
	if in.Seats < 0 {
		return nil, apperror.Validation("seats must be at least 1", nil).WithField("seats")
	}
	for field, v := range map[string]string{"first_name": in.FirstName, "last_name": in.LastName, "email": in.Email} {
		if strings.TrimSpace(v) == "" {
			return nil, apperror.ErrMissingField.WithField(field)
		}
	}

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var reservation model.Reservation
	var err error
	for attempt := 0; attempt < reservationCodeAttempts; attempt++ {
		err = rr.withTx(db, func(tx *gorm.DB) error {
			var event model.Event
			if err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
				Model(&model.Event{}).Where("id = ?", eventId).First(&event).Error; err != nil {
				return apperror.FromGorm(err, "event")
			}

			if event.Capacity > 0 {
				reserved, err := reservedSeats(ctx, tx, eventId)
				if err != nil {
					return err
				}
				if reserved+int64(in.Seats) > int64(event.Capacity) {
					return apperror.ErrEventFull
				}
			}

			code, err := util.GenerateReservationCode()
			if err != nil {
				return apperror.Internal("failed to generate reservation code", err)
			}

			reservation = model.Reservation{
				FirstName: strings.TrimSpace(in.FirstName),
				LastName:  strings.TrimSpace(in.LastName),
				Email:     strings.ToLower(strings.TrimSpace(in.Email)),
				Seats:     in.Seats,
				Code:      code,
				EventID:   eventId,
			}
			if err := tx.WithContext(ctx).Omit(clause.Associations).Create(&reservation).Error; err != nil {
				return apperror.FromGorm(err, "reservation")
			}
			return nil
		})

		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	return &reservation, nil
}

func (rr ReservationRepository) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*model.Reservation, error) {
	rr.logger.Debugf("Get reservation by code: %s", code)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var reservation model.Reservation
	if err := db.WithContext(ctx).Model(&model.Reservation{}).Preload("Event").
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&reservation).Error; err != nil {
		return nil, apperror.FromGorm(err, "reservation")
	}

	return &reservation, nil
}

func (rr ReservationRepository) ListByEvent(ctx context.Context, tx *gorm.DB, eventId uint) ([]model.Reservation, error) {
	rr.logger.Debugf("List reservations of event %d", eventId)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Model(&model.Event{}).Where("id = ?", eventId).Count(&count).Error; err != nil {
		return nil, apperror.FromGorm(err, "event")
	}
	if count == 0 {
		return nil, apperror.NotFound("event not found", nil)
	}

	reservations := []model.Reservation{}
	if err := db.WithContext(ctx).Model(&model.Reservation{}).Where("id_event = ?", eventId).Order("id asc").Find(&reservations).Error; err != nil {
		return nil, apperror.FromGorm(err, "reservation")
	}

	return reservations, nil
}

func (rr ReservationRepository) Delete(ctx context.Context, tx *gorm.DB, reservationId uint) error {
	rr.logger.Debugf("Delete reservation %d", reservationId)

	db := rr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	res := db.WithContext(ctx).Delete(&model.Reservation{}, reservationId)
	if res.Error != nil {
		return apperror.FromGorm(res.Error, "reservation")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("reservation not found", nil)
	}

	return nil
}
