package repository

import (
	"context"
	"math"
	"testing"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestCastOrUpdateLifecycle(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	jury := seedUser(t, r, constant.RoleJury, "jury@marsai.test")
	movie := seedMovie(t, r, producer, constant.StatusToDiscuss)
	assignJury(t, r, movie, jury)

	first, err := r.Vote.CastOrUpdate(ctx, nil, movie.ID, jury.ID, 7.0, "ok")
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.False(t, first.IsModified)
	assert.True(t, first.IsApproved)
	assert.Equal(t, 0, first.Vote.ModificationCount)
	assert.Empty(t, first.Vote.History)

	second, err := r.Vote.CastOrUpdate(ctx, nil, movie.ID, jury.ID, 8.0, "better")
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.True(t, second.IsModified)
	assert.Equal(t, first.Vote.ID, second.Vote.ID)
	assert.Equal(t, 8.0, second.Vote.Note)
	assert.Equal(t, "better", second.Vote.Comments)
	assert.Equal(t, 1, second.Vote.ModificationCount)
	require.Len(t, second.Vote.History, 1)
	assert.Equal(t, 7.0, second.Vote.History[0].Note)
	assert.Equal(t, "ok", second.Vote.History[0].Comments)
	assert.Equal(t, movie.ID, second.Vote.Movie.ID)
	assert.Equal(t, jury.ID, second.Vote.User.ID)

	var count int64
	require.NoError(t, r.DB.Model(&model.Vote{}).Where("id_movie = ? AND id_user = ?", movie.ID, jury.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCastOrUpdateInvariants(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	jury := seedUser(t, r, constant.RoleJury, "jury@marsai.test")
	movie := seedMovie(t, r, producer, constant.StatusAssigned)
	assignJury(t, r, movie, jury)

	type step struct {
		status  constant.SelectionStatus
		note    float64
		comment string
	}
	steps := []step{
		{constant.StatusAssigned, 5, "first"},
		{constant.StatusAssigned, 5, "first"},
		{constant.StatusAssigned, 6, "first"},
		{constant.StatusToDiscuss, 6, "first"},
		{constant.StatusToDiscuss, 6, "second"},
		{constant.StatusToDiscuss, 9, "third"},
		{constant.StatusCandidate, 3, "fourth"},
	}

	lastCount := 0
	var lastHistory []model.VoteHistory
	for _, s := range steps {
		_, err := r.Movie.SetStatus(ctx, nil, movie.ID, s.status, "", constant.RoleAdmin)
		require.NoError(t, err)

		before, _ := r.Vote.GetByMovieAndUser(ctx, nil, movie.ID, jury.ID)

		res, err := r.Vote.CastOrUpdate(ctx, nil, movie.ID, jury.ID, s.note, s.comment)
		require.NoError(t, err)

		changed := before != nil && (before.Note != s.note || before.Comments != s.comment)
		want := lastCount
		if changed && s.status == constant.StatusToDiscuss {
			want++
		}
		assert.Equal(t, want, res.Vote.ModificationCount, "step %+v", s)
		assert.GreaterOrEqual(t, res.Vote.ModificationCount, lastCount)
		assert.GreaterOrEqual(t, len(res.Vote.History), len(lastHistory))
		for i := range lastHistory {
			assert.Equal(t, lastHistory[i], res.Vote.History[i], "history rows never change")
		}

		lastCount = res.Vote.ModificationCount
		lastHistory = res.Vote.History
	}

	assert.Equal(t, 2, lastCount)
	assert.Len(t, lastHistory, 4)

	var count int64
	require.NoError(t, r.DB.Model(&model.Vote{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCastOrUpdateValidation(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	jury := seedUser(t, r, constant.RoleJury, "jury@marsai.test")
	outsider := seedUser(t, r, constant.RoleJury, "outsider@marsai.test")
	movie := seedMovie(t, r, producer, constant.StatusToDiscuss)
	assignJury(t, r, movie, jury)

	tests := []struct {
		name    string
		movieId uint
		juryId  uint
		note    float64
		comment string
		want    error
	}{
		{"nan note", movie.ID, jury.ID, math.NaN(), "ok", apperror.ErrInvalidNote},
		{"infinite note", movie.ID, jury.ID, math.Inf(1), "ok", apperror.ErrInvalidNote},
		{"blank comment", movie.ID, jury.ID, 5, "  \t", apperror.ErrMissingComment},
		{"not assigned", movie.ID, outsider.ID, 5, "ok", apperror.ErrNotAssigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Vote.CastOrUpdate(ctx, nil, tt.movieId, tt.juryId, tt.note, tt.comment)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := r.Vote.CastOrUpdate(ctx, nil, 9999, jury.ID, 5, "ok")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	var count int64
	require.NoError(t, r.DB.Model(&model.Vote{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateVoteAndDelete(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	jury := seedUser(t, r, constant.RoleJury, "jury@marsai.test")
	movie := seedMovie(t, r, producer, constant.StatusToDiscuss)
	assignJury(t, r, movie, jury)

	// admin path keeps an empty comment
	vote, err := r.Vote.CreateVote(ctx, nil, movie.ID, jury.ID, 4.5, "")
	require.NoError(t, err)
	assert.Equal(t, 4.5, vote.Note)
	assert.Empty(t, vote.Comments)

	_, err = r.Vote.CreateVote(ctx, nil, movie.ID, jury.ID, 6, "again")
	assert.ErrorIs(t, err, apperror.ErrVoteExists)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	_, err = r.Vote.CreateVote(ctx, nil, 9999, jury.ID, 6, "")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	_, err = r.Vote.CreateVote(ctx, nil, movie.ID, 9999, 6, "")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	_, err = r.Vote.CastOrUpdate(ctx, nil, movie.ID, jury.ID, 7, "changed")
	require.NoError(t, err)

	list, total, err := r.Vote.ListByUser(ctx, nil, jury.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	require.Len(t, list[0].History, 1)
	assert.Equal(t, 4.5, list[0].History[0].Note)

	require.NoError(t, r.Vote.Delete(ctx, nil, vote.ID))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(r.Vote.Delete(ctx, nil, vote.ID)))

	var history []model.VoteHistory
	require.NoError(t, r.DB.Where("id_vote = ?", vote.ID).Find(&history).Error)
	assert.Len(t, history, 1, "history survives vote deletion")

	_, err = r.Vote.CreateVote(ctx, nil, movie.ID, jury.ID, 1, "")
	require.NoError(t, err)
	deleted, err := r.Vote.DeleteByMovie(ctx, nil, movie.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
}

func TestCastOrUpdateConcurrentFirstVote(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	jury := seedUser(t, r, constant.RoleJury, "jury@marsai.test")
	movie := seedMovie(t, r, producer, constant.StatusAssigned)
	assignJury(t, r, movie, jury)

	// A second request from the same juror inserts the pair after our lookup.
	inserted := false
	beforeCreate(t, r, "votes", func(tx *gorm.DB) {
		if inserted {
			return
		}
		inserted = true
		rival := model.Vote{Note: 3, Comments: "first click", MovieID: movie.ID, UserID: jury.ID}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Omit(clause.Associations).Create(&rival).Error)
	})

	_, err := r.Vote.CastOrUpdate(ctx, nil, movie.ID, jury.ID, 8, "second click")
	assert.ErrorIs(t, err, apperror.ErrVoteExists)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	var votes []model.Vote
	require.NoError(t, r.DB.Where("id_movie = ? AND id_user = ?", movie.ID, jury.ID).Find(&votes).Error)
	require.Len(t, votes, 1)
	assert.Equal(t, "first click", votes[0].Comments)
}

func TestCastOrUpdateLocksMovieRow(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	jury := seedUser(t, r, constant.RoleJury, "jury@marsai.test")
	movie := seedMovie(t, r, producer, constant.StatusToDiscuss)
	assignJury(t, r, movie, jury)

	locked := false
	err := r.DB.Callback().Query().Before("gorm:query").Register("test:movie_lock", func(tx *gorm.DB) {
		if tx.Statement.Table != "movies" {
			return
		}
		if _, ok := tx.Statement.Clauses["FOR"]; ok {
			locked = true
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.DB.Callback().Query().Remove("test:movie_lock") })

	res, err := r.Vote.CastOrUpdate(ctx, nil, movie.ID, jury.ID, 6, "solid")
	require.NoError(t, err)
	assert.True(t, res.IsApproved)
	assert.True(t, locked, "movie status is read under a row lock")
}
