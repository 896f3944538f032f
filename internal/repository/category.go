package repository

import (
	"context"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	*baseRepository
}

func (cr CategoryRepository) List(ctx context.Context, tx *gorm.DB) ([]model.Category, error) {
	cr.logger.Debug("List categories")

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var categories []model.Category
	if err := db.WithContext(ctx).Model(&model.Category{}).Order("name asc").Find(&categories).Error; err != nil {
		return nil, apperror.FromGorm(err, "category")
	}

	return categories, nil
}

func (cr CategoryRepository) GetById(ctx context.Context, tx *gorm.DB, categoryId uint) (*model.Category, error) {
	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var category model.Category
	if err := db.WithContext(ctx).Model(&model.Category{}).Where("id = ?", categoryId).First(&category).Error; err != nil {
		return nil, apperror.FromGorm(err, "category")
	}

	return &category, nil
}

func (cr CategoryRepository) Create(ctx context.Context, tx *gorm.DB, name string) (*model.Category, error) {
	cr.logger.Debugf("Create category: %s", name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ErrMissingField.WithField("name")
	}

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	category := model.Category{Name: name}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, apperror.FromGorm(err, "category")
	}

	return &category, nil
}

func (cr CategoryRepository) Update(ctx context.Context, tx *gorm.DB, categoryId uint, name string) (*model.Category, error) {
	cr.logger.Debugf("Update category %d: %s", categoryId, name)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ErrMissingField.WithField("name")
	}

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var category *model.Category
	txErr := cr.withTx(db, func(tx *gorm.DB) error {
		if _, err := cr.GetById(ctx, tx, categoryId); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Model(&model.Category{}).Where("id = ?", categoryId).Update("name", name).Error; err != nil {
			return apperror.FromGorm(err, "category")
		}

		var err error
		category, err = cr.GetById(ctx, tx, categoryId)
		return err
	})

	return category, txErr
}

// Delete unlinks the category from every movie before removing it.
func (cr CategoryRepository) Delete(ctx context.Context, tx *gorm.DB, categoryId uint) error {
	cr.logger.Debugf("Delete category %d", categoryId)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return cr.withTx(db, func(tx *gorm.DB) error {
		if _, err := cr.GetById(ctx, tx, categoryId); err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Exec("DELETE FROM movie_categories WHERE category_id = ?", categoryId).Error; err != nil {
			return apperror.FromGorm(err, "category")
		}
		if err := tx.WithContext(ctx).Delete(&model.Category{}, categoryId).Error; err != nil {
			return apperror.FromGorm(err, "category")
		}
		return nil
	})
}
