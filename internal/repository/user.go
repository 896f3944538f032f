package repository

import (
	"context"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"gorm.io/gorm"
)

type UserRepository struct {
	*baseRepository
}

func (ur UserRepository) GetById(ctx context.Context, tx *gorm.DB, userId uint) (*model.User, error) {
	ur.logger.Debugf("Get user by id: %d \n", userId)

	db := ur.getDB(tx)
	var user model.User

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).First(&user).Error; err != nil {
		return nil, apperror.FromGorm(err, "user")
	}

	return &user, nil
}

func (ur UserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.User, error) {
	ur.logger.Debugf("Get user by email: %s \n", email)

	db := ur.getDB(tx)
	var user model.User

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.User{}).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, apperror.FromGorm(err, "user")
	}

	return &user, nil
}

func (ur *UserRepository) Create(ctx context.Context, tx *gorm.DB, newUser *model.User) (*model.User, error) {
	ur.logger.Debugf("Create user with email: %s, role: %s \n", newUser.Email, newUser.Role)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	newUser.Email = strings.ToLower(strings.TrimSpace(newUser.Email))
	if newUser.Role == "" {
		newUser.Role = constant.RoleProducer
	}

	if err := db.WithContext(ctx).Model(&model.User{}).Create(newUser).Error; err != nil {
		return nil, apperror.FromGorm(err, "user")
	}

	return newUser, nil
}

// Create the user unless the email is taken. The unique index on email still
// guards concurrent registrations.
func (ur *UserRepository) CheckDupAndCreate(ctx context.Context, tx *gorm.DB, newUser *model.User) (*model.User, error) {
	ur.logger.Debugf("Get user and create user with email (Transaction): %s \n", newUser.Email)

	var created *model.User
	db := ur.getDB(tx)
	txErr := ur.withTx(db, func(tx *gorm.DB) error {
		existingUser, err := ur.GetByEmail(ctx, tx, newUser.Email)
		if err != nil && apperror.KindOf(err) != apperror.KindNotFound {
			return err
		}

		if existingUser != nil {
			return apperror.Conflict("user with "+existingUser.Email+" already exist", nil).WithField("email")
		}

		created, err = ur.Create(ctx, tx, newUser)
		return err
	})

	return created, txErr
}

type UserFilter struct {
	Role   constant.UserRole
	Search string
}

func userFilterScope(filter UserFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if filter.Role != "" {
			q = q.Where("role = ?", filter.Role)
		}
		if filter.Search != "" {
			like := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where("LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?", like, like, like)
		}
		return q
	}
}

func (ur UserRepository) List(ctx context.Context, tx *gorm.DB, filter UserFilter, page, pageSize uint) ([]model.User, int64, error) {
	ur.logger.Debugf("List users with filter: %+v", filter)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var users []model.User
	if err := db.WithContext(ctx).Model(&model.User{}).Scopes(userFilterScope(filter)).
		Order("id asc").Offset(int((page - 1) * pageSize)).Limit(int(pageSize)).Find(&users).Error; err != nil {
		return nil, 0, apperror.FromGorm(err, "user")
	}

	var total int64
	if err := db.WithContext(ctx).Model(&model.User{}).Scopes(userFilterScope(filter)).Count(&total).Error; err != nil {
		return nil, 0, apperror.FromGorm(err, "user")
	}

	return users, total, nil
}

type UserUpdate struct {
	FirstName  *string
	LastName   *string
	Role       *constant.UserRole
	Job        *string
	Phone      *string
	ProfileURL *string
	Password   *string
}

func (ur UserRepository) Update(ctx context.Context, tx *gorm.DB, userId uint, upd UserUpdate) (*model.User, error) {
	ur.logger.Debugf("Update user id: %d", userId)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	fields := map[string]any{}
	if upd.FirstName != nil {
		fields["first_name"] = *upd.FirstName
	}
	if upd.LastName != nil {
		fields["last_name"] = *upd.LastName
	}
	if upd.Role != nil {
		fields["role"] = *upd.Role
	}
	if upd.Job != nil {
		fields["job"] = *upd.Job
	}
	if upd.Phone != nil {
		fields["phone"] = *upd.Phone
	}
	if upd.ProfileURL != nil {
		fields["profile_url"] = *upd.ProfileURL
	}
	if upd.Password != nil {
		fields["password"] = *upd.Password
	}

	var user *model.User
	txErr := ur.withTx(db, func(tx *gorm.DB) error {
		if _, err := ur.GetById(ctx, tx, userId); err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := tx.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).Updates(fields).Error; err != nil {
				return apperror.FromGorm(err, "user")
			}
		}

		var err error
		user, err = ur.GetById(ctx, tx, userId)
		return err
	})

	return user, txErr
}

// Delete removes the user. Movies owned by a producer and votes cast by a jury go
// with it.
func (ur UserRepository) Delete(ctx context.Context, tx *gorm.DB, userId uint) error {
	ur.logger.Debugf("Delete user id: %d", userId)

	db := ur.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return ur.withTx(db, func(tx *gorm.DB) error {
		if _, err := ur.GetById(ctx, tx, userId); err != nil {
			return err
		}

		var movieIds []uint
		if err := tx.WithContext(ctx).Model(&model.Movie{}).Where("id_user = ?", userId).Pluck("id", &movieIds).Error; err != nil {
			return apperror.FromGorm(err, "movie")
		}
		for _, id := range movieIds {
			if err := deleteMovieCascade(ctx, tx, id); err != nil {
				return err
			}
		}

		steps := []func() error{
			func() error { return tx.WithContext(ctx).Where("id_user = ?", userId).Delete(&model.Vote{}).Error },
			func() error { return tx.WithContext(ctx).Exec("DELETE FROM movie_juries WHERE user_id = ?", userId).Error },
			func() error { return tx.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.Token{}).Error },
			func() error { return tx.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.OAuthProvider{}).Error },
			func() error { return tx.WithContext(ctx).Delete(&model.User{}, userId).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return apperror.FromGorm(err, "user")
			}
		}

		return nil
	})
}
