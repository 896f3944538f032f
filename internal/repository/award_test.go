package repository

import (
	"context"
	"testing"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAwardCreateReturnsExistingName(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	m1 := seedMovie(t, r, producer, constant.StatusAwarded)
	m2 := seedMovie(t, r, producer, constant.StatusCandidate)

	first, created, err := r.Award.Create(ctx, nil, m1.ID, "Best AI Animation")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := r.Award.Create(ctx, nil, m2.ID, "Best AI Animation")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, m1.ID, second.MovieID)

	var count int64
	require.NoError(t, r.DB.Model(&model.Award{}).Where("award_name = ?", "Best AI Animation").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// status is not touched by awards
	after, err := r.Movie.GetById(ctx, nil, m2.ID)
	require.NoError(t, err)
	assert.Equal(t, constant.StatusCandidate, after.SelectionStatus)
}

func TestAwardValidationAndUpdate(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	m1 := seedMovie(t, r, producer, constant.StatusAwarded)
	m2 := seedMovie(t, r, producer, constant.StatusAwarded)

	_, _, err := r.Award.Create(ctx, nil, m1.ID, "   ")
	assert.ErrorIs(t, err, apperror.ErrMissingField)

	_, _, err = r.Award.Create(ctx, nil, 9999, "Grand Prix")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	grand, _, err := r.Award.Create(ctx, nil, m1.ID, "Grand Prix")
	require.NoError(t, err)
	public, _, err := r.Award.Create(ctx, nil, m1.ID, "Public Prize")
	require.NoError(t, err)

	moved, err := r.Award.Update(ctx, nil, grand.ID, nil, &m2.ID)
	require.NoError(t, err)
	assert.Equal(t, m2.ID, moved.MovieID)
	assert.Equal(t, "Grand Prix", moved.Name)

	taken := "Public Prize"
	_, err = r.Award.Update(ctx, nil, grand.ID, &taken, nil)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	missing := uint(9999)
	_, err = r.Award.Update(ctx, nil, grand.ID, nil, &missing)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	byMovie, err := r.Award.ListByMovie(ctx, nil, m1.ID)
	require.NoError(t, err)
	require.Len(t, byMovie, 1)
	assert.Equal(t, public.ID, byMovie[0].ID)

	require.NoError(t, r.Award.Delete(ctx, nil, public.ID))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(r.Award.Delete(ctx, nil, public.ID)))

	all, err := r.Award.List(ctx, nil, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAwardCreateLosesRaceToExistingName(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	m1 := seedMovie(t, r, producer, constant.StatusAwarded)
	m2 := seedMovie(t, r, producer, constant.StatusAwarded)

	// Another writer inserts the same name between the lookup and our insert.
	var rival *model.Award
	beforeCreate(t, r, "awards", func(tx *gorm.DB) {
		if rival != nil {
			return
		}
		rival = &model.Award{Name: "Jury Prize", MovieID: m2.ID}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(rival).Error)
	})

	award, created, err := r.Award.Create(ctx, nil, m1.ID, "Jury Prize")
	require.NoError(t, err)
	assert.False(t, created)
	require.NotNil(t, rival)
	assert.Equal(t, rival.ID, award.ID)
	assert.Equal(t, m2.ID, award.MovieID)

	var count int64
	require.NoError(t, r.DB.Model(&model.Award{}).Where("award_name = ?", "Jury Prize").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAwardCreateTakenNameWithUnknownMovie(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	movie := seedMovie(t, r, producer, constant.StatusAwarded)

	first, _, err := r.Award.Create(ctx, nil, movie.ID, "Best Score")
	require.NoError(t, err)

	again, created, err := r.Award.Create(ctx, nil, 9999, "Best Score")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
}
