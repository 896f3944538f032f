package repository

import (
	"context"
	"errors"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/auth"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"gorm.io/gorm"
)

type JWTRepository struct {
	*baseRepository
	user *UserRepository
}

func toJWTPayload(user model.User) auth.JWTPayload {
	return auth.JWTPayload{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
	}
}

func (jr JWTRepository) GenRefreshAndAccessToken(ctx context.Context, tx *gorm.DB, user model.User) (*string, *string, error) {
	jr.logger.Debugf("Generate refresh and access token for userId: %d \n", user.ID)

	refreshToken, accessToken, err := jr.jwtService.GenerateRefreshAndAccessToken(toJWTPayload(user))
	if err != nil {
		return nil, nil, err
	}

	db := jr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Token{}).Create(&model.Token{
		RefreshToken: *refreshToken,
		AccessToken:  *accessToken,
		CanAccess:    true,
		CanRefresh:   true,
		UserID:       user.ID,
	}).Error; err != nil {
		return nil, nil, apperror.FromGorm(err, "token")
	}

	return refreshToken, accessToken, nil
}

func (jr JWTRepository) GetTokenByRefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*model.Token, error) {
	jr.logger.Debugf("Get token by refresh token \n")

	db := jr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var token model.Token

	if err := db.WithContext(ctx).Model(&model.Token{}).Where(model.Token{
		RefreshToken: refreshToken,
	}).First(&token).Error; err != nil {
		return nil, apperror.FromGorm(err, "token")
	}

	return &token, nil
}

/*
 * Refresh token by replacing the stored pair with a newly generated refresh and access token.
 * The user is re-read so a role change takes effect on the next refresh.
 */
func (jr JWTRepository) RefreshToken(ctx context.Context, tx *gorm.DB, refreshToken string) (*string, *string, error) {
	jr.logger.Debugf("Refresh token \n")

	db := jr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var newRefreshToken, newAccessToken *string

	txErr := jr.withTx(db, func(tx2 *gorm.DB) error {
		token, err := jr.GetTokenByRefreshToken(ctx, tx2, refreshToken)
		if err != nil {
			return err
		}

		if !token.CanRefresh {
			return apperror.Forbidden("token is valid but cannot be refreshed", nil)
		}

		user, err := jr.user.GetById(ctx, tx2, token.UserID)
		if err != nil {
			return err
		}

		newRefreshToken, newAccessToken, err = jr.jwtService.GenerateRefreshAndAccessToken(toJWTPayload(*user))
		if err != nil {
			return err
		}

		if newRefreshToken == nil || newAccessToken == nil {
			return errors.New("failed to generate refresh and access token")
		}

		// Update the new token to the database
		if err := tx2.WithContext(ctx).Model(&model.Token{}).Select("refresh_token", "access_token", "can_access", "can_refresh", "user_id").Where(model.Token{
			RefreshToken: refreshToken,
		}).Updates(model.Token{
			RefreshToken: *newRefreshToken,
			AccessToken:  *newAccessToken,
			CanAccess:    true,
			CanRefresh:   true,
			UserID:       user.ID,
		}).Error; err != nil {
			return apperror.FromGorm(err, "token")
		}

		return nil
	})

	return newRefreshToken, newAccessToken, txErr
}

func (jr JWTRepository) DeleteToken(ctx context.Context, tx *gorm.DB, refreshToken string) error {
	jr.logger.Debugf("Delete token using refresh token \n")

	db := jr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Token{}).Where(model.Token{
		RefreshToken: refreshToken,
	}).Delete(&model.Token{}).Error; err != nil {
		return apperror.FromGorm(err, "token")
	}

	return nil
}
