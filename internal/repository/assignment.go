package repository

import (
	"context"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"gorm.io/gorm"
)

// AssignmentRepository replaces the category, jury and collaborator sets of a movie.
// Every call is a full replacement inside one transaction: an empty list clears.
type AssignmentRepository struct {
	*baseRepository
	collaborator *CollaboratorRepository
}

func uniqueIds(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// replaceJoinRows deletes every row of movieId in table and links targets instead.
func replaceJoinRows(ctx context.Context, tx *gorm.DB, table, column string, movieId uint, targets []uint) error {
	if err := tx.WithContext(ctx).Exec("DELETE FROM "+table+" WHERE movie_id = ?", movieId).Error; err != nil {
		return apperror.FromGorm(err, table)
	}

	if len(targets) == 0 {
		return nil
	}

	rows := make([]map[string]any, 0, len(targets))
	for _, id := range targets {
		rows = append(rows, map[string]any{"movie_id": movieId, column: id})
	}

	if err := tx.WithContext(ctx).Table(table).Create(&rows).Error; err != nil {
		return apperror.FromGorm(err, table)
	}

	return nil
}

func (ar AssignmentRepository) ensureMovie(ctx context.Context, tx *gorm.DB, movieId uint) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", movieId).Count(&count).Error; err != nil {
		return apperror.FromGorm(err, "movie")
	}
	if count == 0 {
		return apperror.NotFound("movie not found", nil)
	}
	return nil
}

// SetCategories links exactly the existing categories among ids.
func (ar AssignmentRepository) SetCategories(ctx context.Context, tx *gorm.DB, movieId uint, ids []uint) ([]model.Category, error) {
	ar.logger.Debugf("Set categories of movie %d: %v \n", movieId, ids)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	categories := []model.Category{}
	txErr := ar.withTx(db, func(tx *gorm.DB) error {
		if err := ar.ensureMovie(ctx, tx, movieId); err != nil {
			return err
		}

		ids = uniqueIds(ids)
		if len(ids) > 0 {
			if err := tx.WithContext(ctx).Model(&model.Category{}).Where("id IN ?", ids).Order("id asc").Find(&categories).Error; err != nil {
				return apperror.FromGorm(err, "category")
			}
		}

		targets := make([]uint, 0, len(categories))
		for _, c := range categories {
			targets = append(targets, c.ID)
		}

		return replaceJoinRows(ctx, tx, "movie_categories", "category_id", movieId, targets)
	})
	if txErr != nil {
		return nil, txErr
	}

	return categories, nil
}

// SetJuries links exactly the users among ids whose role is JURY. It also returns the
// jurors that were not assigned before the call so they can be notified.
func (ar AssignmentRepository) SetJuries(ctx context.Context, tx *gorm.DB, movieId uint, ids []uint) ([]model.User, []model.User, error) {
	ar.logger.Debugf("Set juries of movie %d: %v \n", movieId, ids)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	juries := []model.User{}
	newlyAssigned := []model.User{}
	txErr := ar.withTx(db, func(tx *gorm.DB) error {
		if err := ar.ensureMovie(ctx, tx, movieId); err != nil {
			return err
		}

		ids = uniqueIds(ids)
		if len(ids) > 0 {
			if err := tx.WithContext(ctx).Model(&model.User{}).
				Where("id IN ? AND role = ?", ids, constant.RoleJury).
				Order("id asc").Find(&juries).Error; err != nil {
				return apperror.FromGorm(err, "user")
			}
		}

		var previous []uint
		if err := tx.WithContext(ctx).Table("movie_juries").Where("movie_id = ?", movieId).Pluck("user_id", &previous).Error; err != nil {
			return apperror.FromGorm(err, "movie_juries")
		}
		was := make(map[uint]struct{}, len(previous))
		for _, id := range previous {
			was[id] = struct{}{}
		}

		targets := make([]uint, 0, len(juries))
		for _, j := range juries {
			targets = append(targets, j.ID)
			if _, ok := was[j.ID]; !ok {
				newlyAssigned = append(newlyAssigned, j)
			}
		}

		return replaceJoinRows(ctx, tx, "movie_juries", "user_id", movieId, targets)
	})
	if txErr != nil {
		return nil, nil, txErr
	}

	return juries, newlyAssigned, nil
}

// SetCollaborators resolves each payload with an email to a collaborator row and links
// exactly those. Payloads without email are skipped. Unlinked collaborators stay in
// the collaborators table.
func (ar AssignmentRepository) SetCollaborators(ctx context.Context, tx *gorm.DB, movieId uint, payloads []CollaboratorInput) ([]model.Collaborator, error) {
	ar.logger.Debugf("Set %d collaborators of movie %d \n", len(payloads), movieId)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	collaborators := []model.Collaborator{}
	txErr := ar.withTx(db, func(tx *gorm.DB) error {
		if err := ar.ensureMovie(ctx, tx, movieId); err != nil {
			return err
		}

		seen := map[uint]struct{}{}
		targets := []uint{}
		for _, p := range payloads {
			if strings.TrimSpace(p.Email) == "" {
				continue
			}

			c, err := ar.collaborator.FindOrCreateByEmail(ctx, tx, p)
			if err != nil {
				return err
			}

			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}
			targets = append(targets, c.ID)
			collaborators = append(collaborators, *c)
		}

		return replaceJoinRows(ctx, tx, "movie_collaborators", "collaborator_id", movieId, targets)
	})
	if txErr != nil {
		return nil, txErr
	}

	return collaborators, nil
}
