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

func TestMovieCreate(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")

	drama, err := r.Category.Create(ctx, nil, "Drama")
	require.NoError(t, err)

	t.Run("defaults to submitted and links relations", func(t *testing.T) {
		m, err := r.Movie.Create(ctx, nil, &model.Movie{Title: "Red Dust", Duration: 120, UserID: producer.ID}, &MovieRelations{
			CategoryIDs:   []uint{drama.ID, 999},
			Collaborators: []CollaboratorInput{{FirstName: "Ada", Email: "Ada@Example.com"}, {FirstName: "NoMail"}},
		})
		require.NoError(t, err)

		assert.Equal(t, constant.StatusSubmitted, m.SelectionStatus)
		require.Len(t, m.Categories, 1)
		assert.Equal(t, "Drama", m.Categories[0].Name)
		require.Len(t, m.Collaborators, 1)
		assert.Equal(t, "ada@example.com", m.Collaborators[0].Email)
		assert.Equal(t, producer.ID, m.Producer.ID)
	})

	t.Run("duration above cap", func(t *testing.T) {
		_, err := r.Movie.Create(ctx, nil, &model.Movie{Title: "Too long", Duration: 121, UserID: producer.ID}, nil)
		assert.ErrorIs(t, err, apperror.ErrDurationTooLong)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := r.Movie.Create(ctx, nil, &model.Movie{Title: "  ", UserID: producer.ID}, nil)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := r.Movie.Create(ctx, nil, &model.Movie{Title: "Orphan", UserID: 4242}, nil)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestMovieSetStatus(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	movie := seedMovie(t, r, producer, constant.StatusSubmitted)

	t.Run("admin moves to any status", func(t *testing.T) {
		for _, st := range []constant.SelectionStatus{constant.StatusFinalist, constant.StatusSubmitted, constant.StatusAwarded, constant.StatusRefused} {
			m, err := r.Movie.SetStatus(ctx, nil, movie.ID, st, "", constant.RoleAdmin)
			require.NoError(t, err)
			assert.Equal(t, st, m.SelectionStatus)
		}
	})

	t.Run("comment overwritten only when not blank", func(t *testing.T) {
		m, err := r.Movie.SetStatus(ctx, nil, movie.ID, constant.StatusSelected, "great pacing", constant.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "great pacing", m.JuryComment)

		m, err = r.Movie.SetStatus(ctx, nil, movie.ID, constant.StatusToDiscuss, "   ", constant.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, "great pacing", m.JuryComment)
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := r.Movie.SetStatus(ctx, nil, movie.ID, "shortlisted", "", constant.RoleAdmin)
		assert.ErrorIs(t, err, apperror.ErrInvalidStatus)
	})

	t.Run("missing movie", func(t *testing.T) {
		_, err := r.Movie.SetStatus(ctx, nil, 9999, constant.StatusSelected, "", constant.RoleAdmin)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("producer is forbidden", func(t *testing.T) {
		_, err := r.Movie.SetStatus(ctx, nil, movie.ID, constant.StatusSelected, "", constant.RoleProducer)
		assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
	})
}

func TestPromoteToCandidate(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	jury := seedUser(t, r, constant.RoleJury, "jury@marsai.test")
	outsider := seedUser(t, r, constant.RoleJury, "outsider@marsai.test")

	for _, st := range []constant.SelectionStatus{
		constant.StatusSubmitted,
		constant.StatusAssigned,
		constant.StatusCandidate,
		constant.StatusRefused,
		constant.StatusSelected,
	} {
		t.Run("rejected from "+st.String(), func(t *testing.T) {
			movie := seedMovie(t, r, producer, st)
			assignJury(t, r, movie, jury)

			_, err := r.Movie.PromoteToCandidate(ctx, nil, movie.ID, jury.ID, "should not stick")
			assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

			after, err := r.Movie.GetById(ctx, nil, movie.ID)
			require.NoError(t, err)
			assert.Equal(t, st, after.SelectionStatus)
			assert.Empty(t, after.JuryComment)
		})
	}

	t.Run("rejected when not assigned", func(t *testing.T) {
		movie := seedMovie(t, r, producer, constant.StatusToDiscuss)
		assignJury(t, r, movie, jury)

		_, err := r.Movie.PromoteToCandidate(ctx, nil, movie.ID, outsider.ID, "")
		assert.ErrorIs(t, err, apperror.ErrNotAssigned)

		after, err := r.Movie.GetById(ctx, nil, movie.ID)
		require.NoError(t, err)
		assert.Equal(t, constant.StatusToDiscuss, after.SelectionStatus)
	})

	t.Run("missing movie", func(t *testing.T) {
		_, err := r.Movie.PromoteToCandidate(ctx, nil, 9999, jury.ID, "")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("assigned jury promotes from to_discuss", func(t *testing.T) {
		movie := seedMovie(t, r, producer, constant.StatusToDiscuss)
		assignJury(t, r, movie, jury)

		m, err := r.Movie.PromoteToCandidate(ctx, nil, movie.ID, jury.ID, "worth a prize")
		require.NoError(t, err)
		assert.Equal(t, constant.StatusCandidate, m.SelectionStatus)
		assert.Equal(t, "worth a prize", m.JuryComment)
	})
}

func TestMovieDeleteCascade(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	jury := seedUser(t, r, constant.RoleJury, "jury@marsai.test")
	movie := seedMovie(t, r, producer, constant.StatusToDiscuss)
	assignJury(t, r, movie, jury)

	_, err := r.Vote.CastOrUpdate(ctx, nil, movie.ID, jury.ID, 6, "fine")
	require.NoError(t, err)
	_, err = r.Vote.CastOrUpdate(ctx, nil, movie.ID, jury.ID, 7, "finer")
	require.NoError(t, err)
	_, _, err = r.Award.Create(ctx, nil, movie.ID, "Jury Prize")
	require.NoError(t, err)

	deleted, err := r.Movie.Delete(ctx, nil, movie.ID)
	require.NoError(t, err)
	assert.Equal(t, movie.ID, deleted.ID)

	var count int64
	require.NoError(t, r.DB.Model(&model.Vote{}).Where("id_movie = ?", movie.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, r.DB.Model(&model.Award{}).Where("id_movie = ?", movie.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, r.DB.Table("movie_juries").Where("movie_id = ?", movie.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, r.DB.Model(&model.VoteHistory{}).Where("id_movie = ?", movie.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = r.Movie.Delete(ctx, nil, movie.ID)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestMovieList(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	other := seedUser(t, r, constant.RoleProducer, "other@marsai.test")
	jury := seedUser(t, r, constant.RoleJury, "jury@marsai.test")

	a := seedMovie(t, r, producer, constant.StatusSubmitted)
	seedMovie(t, r, producer, constant.StatusSelected)
	c := seedMovie(t, r, other, constant.StatusSubmitted)
	assignJury(t, r, c, jury)

	movies, total, err := r.Movie.List(ctx, nil, MovieFilter{Status: constant.StatusSubmitted}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, movies, 2)

	movies, total, err = r.Movie.List(ctx, nil, MovieFilter{ProducerID: producer.ID}, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, movies, 1)

	movies, _, err = r.Movie.List(ctx, nil, MovieFilter{JuryID: jury.ID}, 1, 10)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, c.ID, movies[0].ID)

	_, _, err = r.Movie.List(ctx, nil, MovieFilter{Status: "unknown"}, 1, 10)
	assert.ErrorIs(t, err, apperror.ErrInvalidStatus)

	title := "Updated"
	tooLong := 500
	_, err = r.Movie.Update(ctx, nil, a.ID, MovieUpdate{Duration: &tooLong})
	assert.ErrorIs(t, err, apperror.ErrDurationTooLong)

	updated, err := r.Movie.Update(ctx, nil, a.ID, MovieUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Title)
	assert.Equal(t, producer.ID, updated.UserID)
}

func TestMovieCreateRollsBackOnRelationFailure(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()
	producer := seedUser(t, r, constant.RoleProducer, "producer@marsai.test")
	drama, err := r.Category.Create(ctx, nil, "Drama")
	require.NoError(t, err)

	failCreates(t, r, "movie_categories")
	_, err = r.Movie.Create(ctx, nil, &model.Movie{Title: "Half Written", Duration: 60, UserID: producer.ID}, &MovieRelations{
		CategoryIDs: []uint{drama.ID},
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, r.DB.Model(&model.Movie{}).Where("title = ?", "Half Written").Count(&count).Error)
	assert.Zero(t, count, "no movie row survives a failed relation write")
}
