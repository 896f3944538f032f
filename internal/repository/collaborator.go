package repository

import (
	"context"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CollaboratorRepository struct {
	*baseRepository
}

type CollaboratorInput struct {
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Email     string `json:"email" form:"email"`
	Job       string `json:"job" form:"job"`
}

func (cr CollaboratorRepository) List(ctx context.Context, tx *gorm.DB, search string, page, pageSize uint) ([]model.Collaborator, int64, error) {
	cr.logger.Debugf("List collaborators, search: %s", search)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	scope := func(q *gorm.DB) *gorm.DB {
		if search == "" {
			return q
		}
		like := "%" + strings.ToLower(search) + "%"
		return q.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
	}

	var collaborators []model.Collaborator
	if err := db.WithContext(ctx).Model(&model.Collaborator{}).Scopes(scope).
		Order("id asc").Offset(int((page - 1) * pageSize)).Limit(int(pageSize)).Find(&collaborators).Error; err != nil {
		return nil, 0, apperror.FromGorm(err, "collaborator")
	}

	var total int64
	if err := db.WithContext(ctx).Model(&model.Collaborator{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, apperror.FromGorm(err, "collaborator")
	}

	return collaborators, total, nil
}

// FindOrCreateByEmail inserts the collaborator unless the email exists, then fills
// in name and job from non empty incoming values. The unique email index settles
// concurrent inserts.
func (cr CollaboratorRepository) FindOrCreateByEmail(ctx context.Context, tx *gorm.DB, in CollaboratorInput) (*model.Collaborator, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	cr.logger.Debugf("Find or create collaborator by email: %s", email)

	if email == "" {
		return nil, apperror.ErrMissingField.WithField("email")
	}

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	incoming := model.Collaborator{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Email:     email,
		Job:       strings.TrimSpace(in.Job),
	}

	if err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoNothing: true,
	}).Create(&incoming).Error; err != nil {
		return nil, apperror.FromGorm(err, "collaborator")
	}

	var stored model.Collaborator
	if err := db.WithContext(ctx).Model(&model.Collaborator{}).Where("email = ?", email).First(&stored).Error; err != nil {
		return nil, apperror.FromGorm(err, "collaborator")
	}

	changes := map[string]any{}
	if incoming.FirstName != "" && incoming.FirstName != stored.FirstName {
		changes["first_name"] = incoming.FirstName
		stored.FirstName = incoming.FirstName
	}
	if incoming.LastName != "" && incoming.LastName != stored.LastName {
		changes["last_name"] = incoming.LastName
		stored.LastName = incoming.LastName
	}
	if incoming.Job != "" && incoming.Job != stored.Job {
		changes["job"] = incoming.Job
		stored.Job = incoming.Job
	}

	if len(changes) > 0 {
		if err := db.WithContext(ctx).Model(&model.Collaborator{}).Where("id = ?", stored.ID).Updates(changes).Error; err != nil {
			return nil, apperror.FromGorm(err, "collaborator")
		}
	}

	return &stored, nil
}
