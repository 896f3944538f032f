package repository

import (
	"context"
	"testing"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCheckDupAndCreate(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	u, err := r.User.CheckDupAndCreate(ctx, nil, &model.User{Email: " New@MarsAI.test ", FirstName: "N", LastName: "U"})
	require.NoError(t, err)
	assert.Equal(t, "new@marsai.test", u.Email)
	assert.Equal(t, constant.RoleProducer, u.Role)

	_, err = r.User.CheckDupAndCreate(ctx, nil, &model.User{Email: "new@marsai.test", FirstName: "N", LastName: "U"})
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	found, err := r.User.GetByEmail(ctx, nil, "NEW@marsai.test")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
}

func TestUserListUpdateDelete(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	jury := seedUser(t, r, constant.RoleJury, "jury@marsai.test")
	seedUser(t, r, constant.RoleAdmin, "admin@marsai.test")

	juries, total, err := r.User.List(ctx, nil, UserFilter{Role: constant.RoleJury}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, juries, 1)
	assert.Equal(t, jury.ID, juries[0].ID)

	role := constant.RoleJury
	job := "Director"
	updated, err := r.User.Update(ctx, nil, producer.ID, UserUpdate{Role: &role, Job: &job})
	require.NoError(t, err)
	assert.Equal(t, constant.RoleJury, updated.Role)
	assert.Equal(t, "Director", updated.Job)

	_, n, err := r.User.List(ctx, nil, UserFilter{Role: constant.RoleJury}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	movie := seedMovie(t, r, updated, constant.StatusToDiscuss)
	assignJury(t, r, movie, jury)
	_, err = r.Vote.CastOrUpdate(ctx, nil, movie.ID, jury.ID, 5, "ok")
	require.NoError(t, err)

	require.NoError(t, r.User.Delete(ctx, nil, jury.ID))
	var votes int64
	require.NoError(t, r.DB.Model(&model.Vote{}).Count(&votes).Error)
	assert.Zero(t, votes)

	require.NoError(t, r.User.Delete(ctx, nil, producer.ID))
	_, err = r.Movie.GetById(ctx, nil, movie.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = r.User.GetById(ctx, nil, producer.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestJWTRefreshRotatesToken(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	u := seedUser(t, r, constant.RoleJury, "jury@marsai.test")

	refresh, access, err := r.JWT.GenRefreshAndAccessToken(ctx, nil, *u)
	require.NoError(t, err)
	require.NotNil(t, refresh)
	require.NotNil(t, access)

	newRefresh, newAccess, err := r.JWT.RefreshToken(ctx, nil, *refresh)
	require.NoError(t, err)
	require.NotNil(t, newRefresh)
	require.NotNil(t, newAccess)

	_, err = r.JWT.GetTokenByRefreshToken(ctx, nil, *refresh)
	if *refresh != *newRefresh {
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	}

	_, _, err = r.JWT.RefreshToken(ctx, nil, "unknown")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
