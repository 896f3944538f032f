package repository

import (
	"context"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/lifecycle"
	"github.com/SeakMengs/MarsAI/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieRepository struct {
	*baseRepository
	assignment *AssignmentRepository
}

// MovieRelations is applied together with a new movie. Nil slices are left untouched.
type MovieRelations struct {
	CategoryIDs   []uint
	JuryIDs       []uint
	Collaborators []CollaboratorInput
}

type MovieFilter struct {
	Status     constant.SelectionStatus
	Search     string
	ProducerID uint
	JuryID     uint
}

// Nil fields are not updated. Ownership is immutable and has no field here.
type MovieUpdate struct {
	Title        *string
	TitleEN      *string
	Synopsis     *string
	SynopsisEN   *string
	Duration     *int
	MainLanguage *string
	ReleaseYear  *int
	Nationality  *string
	Production   *string
	Workshop     *string
	AITool       *string
	Trailer      *string
	Film         *string
	Thumbnail1   *string
	Thumbnail2   *string
	Thumbnail3   *string
	Subtitle     *string
	JuryComment  *string
}

func (u MovieUpdate) fields() map[string]any {
	out := map[string]any{}
	for col, v := range map[string]*string{
		"title":         u.Title,
		"title_en":      u.TitleEN,
		"synopsis":      u.Synopsis,
		"synopsis_en":   u.SynopsisEN,
		"main_language": u.MainLanguage,
		"nationality":   u.Nationality,
		"production":    u.Production,
		"workshop":      u.Workshop,
		"ai_tool":       u.AITool,
		"trailer":       u.Trailer,
		"film":          u.Film,
		"thumbnail1":    u.Thumbnail1,
		"thumbnail2":    u.Thumbnail2,
		"thumbnail3":    u.Thumbnail3,
		"subtitle":      u.Subtitle,
		"jury_comment":  u.JuryComment,
	} {
		if v != nil {
			out[col] = *v
		}
	}
	if u.Duration != nil {
		out["duration"] = *u.Duration
	}
	if u.ReleaseYear != nil {
		out["release_year"] = *u.ReleaseYear
	}
	return out
}

func ValidateDuration(seconds int) error {
	if seconds < 0 {
		return apperror.Validation("duration must not be negative", nil).WithField("duration")
	}
	if seconds > constant.MaxMovieDurationSeconds {
		return apperror.ErrDurationTooLong
	}
	return nil
}

func (mr MovieRepository) Create(ctx context.Context, tx *gorm.DB, movie *model.Movie, rel *MovieRelations) (*model.Movie, error) {
	mr.logger.Debugf("Create movie: %s, owner: %d \n", movie.Title, movie.UserID)

	if strings.TrimSpace(movie.Title) == "" {
		return nil, apperror.ErrMissingField.WithField("title")
	}
	if movie.UserID == 0 {
		return nil, apperror.ErrMissingField.WithField("id_user")
	}
	if err := ValidateDuration(movie.Duration); err != nil {
		return nil, err
	}
	if movie.SelectionStatus == "" {
		movie.SelectionStatus = constant.StatusSubmitted
	}
	if !movie.SelectionStatus.IsValid() {
		return nil, apperror.ErrInvalidStatus
	}

	db := mr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var created *model.Movie
	txErr := mr.withTx(db, func(tx *gorm.DB) error {
		var owner model.User
		if err := tx.WithContext(ctx).Model(&model.User{}).Where("id = ?", movie.UserID).First(&owner).Error; err != nil {
			return apperror.FromGorm(err, "user")
		}

		if err := tx.WithContext(ctx).Omit(clause.Associations).Create(movie).Error; err != nil {
			return apperror.FromGorm(err, "movie")
		}

		if rel != nil {
			if rel.CategoryIDs != nil {
				if _, err := mr.assignment.SetCategories(ctx, tx, movie.ID, rel.CategoryIDs); err != nil {
					return err
				}
			}
			if rel.JuryIDs != nil {
				if _, _, err := mr.assignment.SetJuries(ctx, tx, movie.ID, rel.JuryIDs); err != nil {
					return err
				}
			}
			if rel.Collaborators != nil {
				if _, err := mr.assignment.SetCollaborators(ctx, tx, movie.ID, rel.Collaborators); err != nil {
					return err
				}
			}
		}

		var err error
		created, err = mr.GetById(ctx, tx, movie.ID)
		return err
	})

	return created, txErr
}

func (mr MovieRepository) GetById(ctx context.Context, tx *gorm.DB, movieId uint) (*model.Movie, error) {
	mr.logger.Debugf("Get movie by id: %d \n", movieId)

	db := mr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var movie model.Movie
	if err := db.WithContext(ctx).Model(&model.Movie{}).
		Preload("Producer").
		Preload("Categories").
		Preload("Juries").
		Preload("Collaborators").
		Preload("Awards").
		Where("id = ?", movieId).First(&movie).Error; err != nil {
		return nil, apperror.FromGorm(err, "movie")
	}

	return &movie, nil
}

func movieFilterScope(db *gorm.DB, filter MovieFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			q = q.Where("movies.selection_status = ?", filter.Status)
		}
		if filter.ProducerID != 0 {
			q = q.Where("movies.id_user = ?", filter.ProducerID)
		}
		if filter.JuryID != 0 {
			q = q.Where("movies.id IN (?)", db.Table("movie_juries").Select("movie_id").Where("user_id = ?", filter.JuryID))
		}
		if filter.Search != "" {
			like := "%" + strings.ToLower(filter.Search) + "%"
			q = q.Where("LOWER(movies.title) LIKE ? OR LOWER(movies.title_en) LIKE ?", like, like)
		}
		return q
	}
}

// Return movies, total count, error
func (mr MovieRepository) List(ctx context.Context, tx *gorm.DB, filter MovieFilter, page, pageSize uint) ([]model.Movie, int64, error) {
	mr.logger.Debugf("List movies with filter: %+v, page: %d, pageSize: %d \n", filter, page, pageSize)

	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, apperror.ErrInvalidStatus
	}

	db := mr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var movies []model.Movie
	if err := db.WithContext(ctx).Model(&model.Movie{}).
		Scopes(movieFilterScope(db, filter)).
		Preload("Categories").
		Preload("Awards").
		Order("movies.created_at desc, movies.id desc").
		Offset(int((page - 1) * pageSize)).
		Limit(int(pageSize)).
		Find(&movies).Error; err != nil {
		return nil, 0, apperror.FromGorm(err, "movie")
	}

	var total int64
	if err := db.WithContext(ctx).Model(&model.Movie{}).
		Scopes(movieFilterScope(db, filter)).
		Count(&total).Error; err != nil {
		return nil, 0, apperror.FromGorm(err, "movie")
	}

	return movies, total, nil
}

func (mr MovieRepository) Update(ctx context.Context, tx *gorm.DB, movieId uint, upd MovieUpdate) (*model.Movie, error) {
	mr.logger.Debugf("Update movie id: %d \n", movieId)

	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, apperror.ErrMissingField.WithField("title")
	}
	if upd.Duration != nil {
		if err := ValidateDuration(*upd.Duration); err != nil {
			return nil, err
		}
	}

	db := mr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var movie *model.Movie
	txErr := mr.withTx(db, func(tx *gorm.DB) error {
		if _, err := mr.lockMovie(ctx, tx, movieId); err != nil {
			return err
		}

		if fields := upd.fields(); len(fields) > 0 {
			if err := tx.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", movieId).Updates(fields).Error; err != nil {
				return apperror.FromGorm(err, "movie")
			}
		}

		var err error
		movie, err = mr.GetById(ctx, tx, movieId)
		return err
	})

	return movie, txErr
}

// Delete removes the movie with its votes, awards and join rows. Vote history is kept.
// The deleted row is returned so the caller can clean up stored assets.
func (mr MovieRepository) Delete(ctx context.Context, tx *gorm.DB, movieId uint) (*model.Movie, error) {
	mr.logger.Debugf("Delete movie id: %d \n", movieId)

	db := mr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var movie *model.Movie
	txErr := mr.withTx(db, func(tx *gorm.DB) error {
		var err error
		movie, err = mr.lockMovie(ctx, tx, movieId)
		if err != nil {
			return err
		}

		return deleteMovieCascade(ctx, tx, movieId)
	})

	return movie, txErr
}

func deleteMovieCascade(ctx context.Context, tx *gorm.DB, movieId uint) error {
	steps := []func() error{
		func() error { return tx.WithContext(ctx).Where("id_movie = ?", movieId).Delete(&model.Vote{}).Error },
		func() error { return tx.WithContext(ctx).Where("id_movie = ?", movieId).Delete(&model.Award{}).Error },
		func() error { return tx.WithContext(ctx).Exec("DELETE FROM movie_categories WHERE movie_id = ?", movieId).Error },
		func() error { return tx.WithContext(ctx).Exec("DELETE FROM movie_juries WHERE movie_id = ?", movieId).Error },
		func() error { return tx.WithContext(ctx).Exec("DELETE FROM movie_collaborators WHERE movie_id = ?", movieId).Error },
		func() error { return tx.WithContext(ctx).Delete(&model.Movie{}, movieId).Error },
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return apperror.FromGorm(err, "movie")
		}
	}

	return nil
}

// lockMovie reads the movie row with FOR UPDATE. Must be called inside a transaction.
func (mr MovieRepository) lockMovie(ctx context.Context, tx *gorm.DB, movieId uint) (*model.Movie, error) {
	var movie model.Movie
	if err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Model(&model.Movie{}).Where("id = ?", movieId).First(&movie).Error; err != nil {
		return nil, apperror.FromGorm(err, "movie")
	}
	return &movie, nil
}

func (mr MovieRepository) IsJuryAssigned(ctx context.Context, tx *gorm.DB, movieId, userId uint) (bool, error) {
	mr.logger.Debugf("Check jury %d assigned to movie %d \n", userId, movieId)

	db := mr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var count int64
	if err := db.WithContext(ctx).Table("movie_juries").Where("movie_id = ? AND user_id = ?", movieId, userId).Count(&count).Error; err != nil {
		return false, apperror.FromGorm(err, "assignment")
	}

	return count > 0, nil
}

// SetStatus applies an administrative status change. The comment only replaces
// jury_comment when it is non blank.
func (mr MovieRepository) SetStatus(ctx context.Context, tx *gorm.DB, movieId uint, status constant.SelectionStatus, comment string, role constant.UserRole) (*model.Movie, error) {
	mr.logger.Debugf("Set movie %d status to %s by %s \n", movieId, status, role)

	if !status.IsValid() {
		return nil, apperror.ErrInvalidStatus
	}

	return mr.transition(ctx, tx, movieId, status, comment, func(tx *gorm.DB, current *model.Movie) error {
		return lifecycle.Check(current.SelectionStatus, status, role)
	})
}

// PromoteToCandidate is the jury path: the juror must be assigned and the movie
// must be in to_discuss.
func (mr MovieRepository) PromoteToCandidate(ctx context.Context, tx *gorm.DB, movieId, juryId uint, comment string) (*model.Movie, error) {
	mr.logger.Debugf("Promote movie %d to candidate by jury %d \n", movieId, juryId)

	return mr.transition(ctx, tx, movieId, constant.StatusCandidate, comment, func(tx *gorm.DB, current *model.Movie) error {
		assigned, err := mr.IsJuryAssigned(ctx, tx, movieId, juryId)
		if err != nil {
			return err
		}
		if !assigned {
			return apperror.ErrNotAssigned
		}

		return lifecycle.Check(current.SelectionStatus, constant.StatusCandidate, constant.RoleJury)
	})
}

func (mr MovieRepository) transition(ctx context.Context, tx *gorm.DB, movieId uint, status constant.SelectionStatus, comment string, guard func(*gorm.DB, *model.Movie) error) (*model.Movie, error) {
	db := mr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var movie *model.Movie
	txErr := mr.withTx(db, func(tx *gorm.DB) error {
		current, err := mr.lockMovie(ctx, tx, movieId)
		if err != nil {
			return err
		}

		if err := guard(tx, current); err != nil {
			return err
		}

		fields := map[string]any{"selection_status": status}
		if c := strings.TrimSpace(comment); c != "" {
			fields["jury_comment"] = c
		}

		if err := tx.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", movieId).Updates(fields).Error; err != nil {
			return apperror.FromGorm(err, "movie")
		}

		movie, err = mr.GetById(ctx, tx, movieId)
		return err
	})

	return movie, txErr
}

// Status counts of every movie. Statuses without movies are absent.
func (mr MovieRepository) CountByStatus(ctx context.Context, tx *gorm.DB) (map[constant.SelectionStatus]int64, error) {
	db := mr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var rows []struct {
		SelectionStatus constant.SelectionStatus
		Count           int64
	}
	if err := db.WithContext(ctx).Model(&model.Movie{}).
		Select("selection_status, COUNT(*) AS count").
		Group("selection_status").
		Scan(&rows).Error; err != nil {
		return nil, apperror.FromGorm(err, "movie")
	}

	out := make(map[constant.SelectionStatus]int64, len(rows))
	for _, r := range rows {
		out[r.SelectionStatus] = r.Count
	}
	return out, nil
}
