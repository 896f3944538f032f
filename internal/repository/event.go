package repository

import (
	"context"
	"strings"
	"time"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"gorm.io/gorm"
)

type EventRepository struct {
	*baseRepository
}

type EventInput struct {
	Name        string
	Description string
	Location    string
	StartsAt    time.Time
	EndsAt      time.Time
	Capacity    int
}

func (in EventInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.ErrMissingField.WithField("name")
	}
	if in.StartsAt.IsZero() {
		return apperror.ErrMissingField.WithField("starts_at")
	}
	if in.EndsAt.Before(in.StartsAt) {
		return apperror.Validation("ends_at must not be before starts_at", nil).WithField("ends_at")
	}
	if in.Capacity < 0 {
		return apperror.Validation("capacity must not be negative", nil).WithField("capacity")
	}
	return nil
}

// List returns events ordered by start time. Past events are skipped unless includePast.
func (er EventRepository) List(ctx context.Context, tx *gorm.DB, includePast bool) ([]model.Event, error) {
	er.logger.Debugf("List events, includePast: %v", includePast)

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Event{})
	if !includePast {
		query = query.Where("ends_at >= ?", time.Now())
	}

	events := []model.Event{}
	if err := query.Order("starts_at asc").Find(&events).Error; err != nil {
		return nil, apperror.FromGorm(err, "event")
	}

	return events, nil
}

func (er EventRepository) GetById(ctx context.Context, tx *gorm.DB, eventId uint) (*model.Event, error) {
	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var event model.Event
	if err := db.WithContext(ctx).Model(&model.Event{}).Where("id = ?", eventId).First(&event).Error; err != nil {
		return nil, apperror.FromGorm(err, "event")
	}

	return &event, nil
}

func (er EventRepository) Create(ctx context.Context, tx *gorm.DB, in EventInput) (*model.Event, error) {
	er.logger.Debugf("Create event: %s", in.Name)

	if err := in.validate(); err != nil {
		return nil, err
	}

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	event := model.Event{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Location:    in.Location,
		StartsAt:    in.StartsAt,
		EndsAt:      in.EndsAt,
		Capacity:    in.Capacity,
	}
	if err := db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, apperror.FromGorm(err, "event")
	}

	return &event, nil
}

// Update replaces every field. Capacity cannot drop below the seats already reserved.
func (er EventRepository) Update(ctx context.Context, tx *gorm.DB, eventId uint, in EventInput) (*model.Event, error) {
	er.logger.Debugf("Update event %d", eventId)

	if err := in.validate(); err != nil {
		return nil, err
	}

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var event *model.Event
	txErr := er.withTx(db, func(tx *gorm.DB) error {
		if _, err := er.GetById(ctx, tx, eventId); err != nil {
			return err
		}

		if in.Capacity > 0 {
			reserved, err := reservedSeats(ctx, tx, eventId)
			if err != nil {
				return err
			}
			if reserved > int64(in.Capacity) {
				return apperror.Conflict("capacity is below the seats already reserved", nil).WithField("capacity")
			}
		}

		if err := tx.WithContext(ctx).Model(&model.Event{}).Where("id = ?", eventId).Updates(map[string]any{
			"name":        strings.TrimSpace(in.Name),
			"description": in.Description,
			"location":    in.Location,
			"starts_at":   in.StartsAt,
			"ends_at":     in.EndsAt,
			"capacity":    in.Capacity,
		}).Error; err != nil {
			return apperror.FromGorm(err, "event")
		}

		var err error
		event, err = er.GetById(ctx, tx, eventId)
		return err
	})

	return event, txErr
}

func (er EventRepository) Delete(ctx context.Context, tx *gorm.DB, eventId uint) error {
	er.logger.Debugf("Delete event %d", eventId)

	db := er.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return er.withTx(db, func(tx *gorm.DB) error {
		if _, err := er.GetById(ctx, tx, eventId); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Where("id_event = ?", eventId).Delete(&model.Reservation{}).Error; err != nil {
			return apperror.FromGorm(err, "reservation")
		}
		if err := tx.WithContext(ctx).Delete(&model.Event{}, eventId).Error; err != nil {
			return apperror.FromGorm(err, "event")
		}
		return nil
	})
}

func reservedSeats(ctx context.Context, tx *gorm.DB, eventId uint) (int64, error) {
	var seats int64
	if err := tx.WithContext(ctx).Model(&model.Reservation{}).
		Where("id_event = ?", eventId).
		Select("COALESCE(SUM(seats), 0)").
		Scan(&seats).Error; err != nil {
		return 0, apperror.FromGorm(err, "reservation")
	}
	return seats, nil
}
