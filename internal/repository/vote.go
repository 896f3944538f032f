package repository

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VoteRepository struct {
	*baseRepository
	movie *MovieRepository
}

// VoteDetail is a vote with its history (oldest first) and shallow movie/user projections.
type VoteDetail struct {
	model.Vote
	History []model.VoteHistory `json:"history"`
	Movie   model.MovieSummary  `json:"movie"`
	User    model.UserSummary   `json:"user"`
}

type CastResult struct {
	Vote       *VoteDetail `json:"vote"`
	Created    bool        `json:"created"`
	IsModified bool        `json:"is_modified"`
	IsApproved bool        `json:"is_approved"`
}

type VoteFilter struct {
	MovieID uint
	UserID  uint
}

func checkNote(note float64) error {
	if math.IsNaN(note) || math.IsInf(note, 0) {
		return apperror.ErrInvalidNote
	}
	return nil
}

// CastOrUpdate is the juror self-service path. The first call creates the vote. Later
// calls that change note or comment snapshot the previous pair into vote history and
// overwrite it; modification_count only grows while the movie is in to_discuss.
func (vr VoteRepository) CastOrUpdate(ctx context.Context, tx *gorm.DB, movieId, juryId uint, note float64, comment string) (*CastResult, error) {
	vr.logger.Debugf("Cast or update vote, movie: %d, jury: %d, note: %v \n", movieId, juryId, note)

	if err := checkNote(note); err != nil {
		return nil, err
	}
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, apperror.ErrMissingComment
	}

	db := vr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := &CastResult{}
	var voteId uint
	conflict := false
	txErr := vr.withTx(db, func(tx *gorm.DB) error {
		// Locked so a status change cannot land between this read and the vote write.
		movie, err := vr.movie.lockMovie(ctx, tx, movieId)
		if err != nil {
			return err
		}

		assigned, err := vr.movie.IsJuryAssigned(ctx, tx, movieId, juryId)
		if err != nil {
			return err
		}
		if !assigned {
			return apperror.ErrNotAssigned
		}

		inDiscussion := movie.SelectionStatus == constant.StatusToDiscuss
		result.IsApproved = inDiscussion

		var vote model.Vote
		err = tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
			Model(&model.Vote{}).
			Where("id_movie = ? AND id_user = ?", movieId, juryId).
			First(&vote).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			vote = model.Vote{Note: note, Comments: comment, MovieID: movieId, UserID: juryId}
			res := tx.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id_movie"}, {Name: "id_user"}},
				DoNothing: true,
			}).Create(&vote)
			if res.Error != nil {
				return apperror.FromGorm(res.Error, "vote")
			}
			// Another request inserted the pair first. Keep its row and report the conflict.
			if res.RowsAffected == 0 {
				conflict = true
				return nil
			}
			voteId = vote.ID
			result.Created = true
			return nil
		}
		if err != nil {
			return apperror.FromGorm(err, "vote")
		}

		voteId = vote.ID
		if vote.Note == note && vote.Comments == comment {
			result.IsModified = vote.ModificationCount > 0
			return nil
		}

		if err := tx.WithContext(ctx).Create(&model.VoteHistory{
			VoteID:   vote.ID,
			MovieID:  vote.MovieID,
			UserID:   vote.UserID,
			Note:     vote.Note,
			Comments: vote.Comments,
		}).Error; err != nil {
			return apperror.FromGorm(err, "vote history")
		}

		fields := map[string]any{"note": note, "comments": comment}
		count := vote.ModificationCount
		if inDiscussion {
			count++
			fields["modification_count"] = count
		}

		if err := tx.WithContext(ctx).Model(&model.Vote{}).Where("id = ?", vote.ID).Updates(fields).Error; err != nil {
			return apperror.FromGorm(err, "vote")
		}

		result.IsModified = count > 0
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	if conflict {
		return nil, apperror.ErrVoteExists
	}

	detail, err := vr.GetById(ctx, tx, voteId)
	if err != nil {
		return nil, err
	}
	result.Vote = detail

	return result, nil
}

// CreateVote is the administrative path. It refuses a second vote for the same pair and
// stores the comment as given.
func (vr VoteRepository) CreateVote(ctx context.Context, tx *gorm.DB, movieId, userId uint, note float64, comment string) (*VoteDetail, error) {
	vr.logger.Debugf("Create vote, movie: %d, user: %d, note: %v \n", movieId, userId, note)

	if err := checkNote(note); err != nil {
		return nil, err
	}

	db := vr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var voteId uint
	txErr := vr.withTx(db, func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&model.Movie{}).Where("id = ?", movieId).Count(&count).Error; err != nil {
			return apperror.FromGorm(err, "movie")
		}
		if count == 0 {
			return apperror.NotFound("movie not found", nil)
		}

		if err := tx.WithContext(ctx).Model(&model.User{}).Where("id = ?", userId).Count(&count).Error; err != nil {
			return apperror.FromGorm(err, "user")
		}
		if count == 0 {
			return apperror.NotFound("user not found", nil)
		}

		if err := tx.WithContext(ctx).Model(&model.Vote{}).Where("id_movie = ? AND id_user = ?", movieId, userId).Count(&count).Error; err != nil {
			return apperror.FromGorm(err, "vote")
		}
		if count > 0 {
			return apperror.ErrVoteExists
		}

		vote := model.Vote{Note: note, Comments: comment, MovieID: movieId, UserID: userId}
		if err := tx.WithContext(ctx).Omit(clause.Associations).Create(&vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.ErrVoteExists.Wrap(err)
			}
			return apperror.FromGorm(err, "vote")
		}

		voteId = vote.ID
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return vr.GetById(ctx, tx, voteId)
}

// Delete removes a vote. Its history rows are kept.
func (vr VoteRepository) Delete(ctx context.Context, tx *gorm.DB, voteId uint) error {
	vr.logger.Debugf("Delete vote id: %d \n", voteId)

	db := vr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	res := db.WithContext(ctx).Delete(&model.Vote{}, voteId)
	if res.Error != nil {
		return apperror.FromGorm(res.Error, "vote")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("vote not found", nil)
	}

	return nil
}

// Return number of deleted votes
func (vr VoteRepository) DeleteByMovie(ctx context.Context, tx *gorm.DB, movieId uint) (int64, error) {
	vr.logger.Debugf("Delete votes of movie id: %d \n", movieId)

	db := vr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	res := db.WithContext(ctx).Where("id_movie = ?", movieId).Delete(&model.Vote{})
	if res.Error != nil {
		return 0, apperror.FromGorm(res.Error, "vote")
	}

	return res.RowsAffected, nil
}

func (vr VoteRepository) GetById(ctx context.Context, tx *gorm.DB, voteId uint) (*VoteDetail, error) {
	vr.logger.Debugf("Get vote by id: %d \n", voteId)

	return vr.first(ctx, tx, func(q *gorm.DB) *gorm.DB {
		return q.Where("votes.id = ?", voteId)
	})
}

func (vr VoteRepository) GetByMovieAndUser(ctx context.Context, tx *gorm.DB, movieId, userId uint) (*VoteDetail, error) {
	vr.logger.Debugf("Get vote by movie: %d, user: %d \n", movieId, userId)

	return vr.first(ctx, tx, func(q *gorm.DB) *gorm.DB {
		return q.Where("votes.id_movie = ? AND votes.id_user = ?", movieId, userId)
	})
}

func (vr VoteRepository) first(ctx context.Context, tx *gorm.DB, scope func(*gorm.DB) *gorm.DB) (*VoteDetail, error) {
	db := vr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	var vote model.Vote
	if err := db.WithContext(ctx).Model(&model.Vote{}).Preload("Movie").Preload("User").Scopes(scope).First(&vote).Error; err != nil {
		return nil, apperror.FromGorm(err, "vote")
	}

	details, err := vr.attachHistory(ctx, db, []model.Vote{vote})
	if err != nil {
		return nil, err
	}

	return &details[0], nil
}

// Return votes, total count, error
func (vr VoteRepository) List(ctx context.Context, tx *gorm.DB, filter VoteFilter, page, pageSize uint) ([]VoteDetail, int64, error) {
	vr.logger.Debugf("List votes with filter: %+v \n", filter)

	db := vr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	scope := func(q *gorm.DB) *gorm.DB {
		if filter.MovieID != 0 {
			q = q.Where("votes.id_movie = ?", filter.MovieID)
		}
		if filter.UserID != 0 {
			q = q.Where("votes.id_user = ?", filter.UserID)
		}
		return q
	}

	var votes []model.Vote
	if err := db.WithContext(ctx).Model(&model.Vote{}).
		Preload("Movie").
		Preload("User").
		Scopes(scope).
		Order("votes.id asc").
		Offset(int((page - 1) * pageSize)).
		Limit(int(pageSize)).
		Find(&votes).Error; err != nil {
		return nil, 0, apperror.FromGorm(err, "vote")
	}

	var total int64
	if err := db.WithContext(ctx).Model(&model.Vote{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, apperror.FromGorm(err, "vote")
	}

	details, err := vr.attachHistory(ctx, db, votes)
	if err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

func (vr VoteRepository) ListByUser(ctx context.Context, tx *gorm.DB, userId uint, page, pageSize uint) ([]VoteDetail, int64, error) {
	return vr.List(ctx, tx, VoteFilter{UserID: userId}, page, pageSize)
}

func (vr VoteRepository) attachHistory(ctx context.Context, db *gorm.DB, votes []model.Vote) ([]VoteDetail, error) {
	details := make([]VoteDetail, 0, len(votes))
	if len(votes) == 0 {
		return details, nil
	}

	ids := make([]uint, 0, len(votes))
	for _, v := range votes {
		ids = append(ids, v.ID)
	}

	var history []model.VoteHistory
	if err := db.WithContext(ctx).Model(&model.VoteHistory{}).
		Where("id_vote IN ?", ids).
		Order("created_at asc, id asc").
		Find(&history).Error; err != nil {
		return nil, apperror.FromGorm(err, "vote history")
	}

	byVote := make(map[uint][]model.VoteHistory, len(votes))
	for _, h := range history {
		byVote[h.VoteID] = append(byVote[h.VoteID], h)
	}

	for _, v := range votes {
		h := byVote[v.ID]
		if h == nil {
			h = []model.VoteHistory{}
		}
		details = append(details, VoteDetail{
			Vote:    v,
			History: h,
			Movie:   v.Movie.Summary(),
			User:    v.User.Summary(),
		})
	}

	return details, nil
}
