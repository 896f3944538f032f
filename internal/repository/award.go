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

// Award names are unique across the table. Awards are independent from the
// awarded selection status.
type AwardRepository struct {
	*baseRepository
}

func movieExists(ctx context.Context, tx *gorm.DB, movieId uint) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", movieId).Count(&count).Error; err != nil {
		return apperror.FromGorm(err, "movie")
	}
	if count == 0 {
		return apperror.NotFound("movie not found", nil)
	}
	return nil
}

func (ar AwardRepository) GetById(ctx context.Context, tx *gorm.DB, awardId uint) (*model.Award, error) {
	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var award model.Award
	if err := db.WithContext(ctx).Model(&model.Award{}).Where("id = ?", awardId).First(&award).Error; err != nil {
		return nil, apperror.FromGorm(err, "award")
	}

	return &award, nil
}

func (ar AwardRepository) GetByName(ctx context.Context, tx *gorm.DB, name string) (*model.Award, error) {
	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var award model.Award
	if err := db.WithContext(ctx).Model(&model.Award{}).Where("award_name = ?", name).First(&award).Error; err != nil {
		return nil, apperror.FromGorm(err, "award")
	}

	return &award, nil
}

// Create returns the award already carrying name when there is one, with created=false.
// The name is looked up before the movie, so a taken name wins over an unknown movie.
// Return award, created, error
func (ar AwardRepository) Create(ctx context.Context, tx *gorm.DB, movieId uint, name string) (*model.Award, bool, error) {
	ar.logger.Debugf("Create award %q for movie %d \n", name, movieId)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, apperror.ErrMissingField.WithField("award_name")
	}

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var award *model.Award
	created := false
	txErr := ar.withTx(db, func(tx *gorm.DB) error {
		existing, err := ar.GetByName(ctx, tx, name)
		if err == nil {
			award = existing
			return nil
		}
		if apperror.KindOf(err) != apperror.KindNotFound {
			return err
		}

		if err := movieExists(ctx, tx, movieId); err != nil {
			return err
		}

		newAward := model.Award{Name: name, MovieID: movieId}
		res := tx.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "award_name"}},
			DoNothing: true,
		}).Create(&newAward)
		if res.Error != nil {
			return apperror.FromGorm(res.Error, "award")
		}

		// A concurrent insert won the unique index, hand back its row.
		if res.RowsAffected == 0 {
			award, err = ar.GetByName(ctx, tx, name)
			return err
		}

		award = &newAward
		created = true
		return nil
	})
	if txErr != nil {
		return nil, false, txErr
	}

	return award, created, nil
}

// Update overwrites the name and/or moves the award to another movie.
func (ar AwardRepository) Update(ctx context.Context, tx *gorm.DB, awardId uint, name *string, movieId *uint) (*model.Award, error) {
	ar.logger.Debugf("Update award %d \n", awardId)

	fields := map[string]any{}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return nil, apperror.ErrMissingField.WithField("award_name")
		}
		fields["award_name"] = n
	}

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var award *model.Award
	txErr := ar.withTx(db, func(tx *gorm.DB) error {
		if _, err := ar.GetById(ctx, tx, awardId); err != nil {
			return err
		}

		if movieId != nil {
			if err := movieExists(ctx, tx, *movieId); err != nil {
				return err
			}
			fields["id_movie"] = *movieId
		}

		if len(fields) > 0 {
			if err := tx.WithContext(ctx).Model(&model.Award{}).Where("id = ?", awardId).Updates(fields).Error; err != nil {
				return apperror.FromGorm(err, "award")
			}
		}

		var err error
		award, err = ar.GetById(ctx, tx, awardId)
		return err
	})

	return award, txErr
}

func (ar AwardRepository) Delete(ctx context.Context, tx *gorm.DB, awardId uint) error {
	ar.logger.Debugf("Delete award %d \n", awardId)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	res := db.WithContext(ctx).Delete(&model.Award{}, awardId)
	if res.Error != nil {
		return apperror.FromGorm(res.Error, "award")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("award not found", nil)
	}

	return nil
}

// List returns every award, or only those of movieId when it is not zero.
func (ar AwardRepository) List(ctx context.Context, tx *gorm.DB, movieId uint) ([]model.Award, error) {
	ar.logger.Debugf("List awards, movie: %d \n", movieId)

	db := ar.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Award{})
	if movieId != 0 {
		query = query.Where("id_movie = ?", movieId)
	}

	awards := []model.Award{}
	if err := query.Order("id asc").Find(&awards).Error; err != nil {
		return nil, apperror.FromGorm(err, "award")
	}

	return awards, nil
}

// ListByMovie is List scoped to one movie that must exist.
func (ar AwardRepository) ListByMovie(ctx context.Context, tx *gorm.DB, movieId uint) ([]model.Award, error) {
	if err := movieExists(ctx, ar.getDB(tx), movieId); err != nil {
		return nil, err
	}
	return ar.List(ctx, tx, movieId)
}
