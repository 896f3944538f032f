package repository

import (
	"context"
	"math"
	"time"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	constant "github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/model"
	"gorm.io/gorm"
)

// Number of days covered by DashboardStats.VotesPerDay, today included.
const VoteTrendDays = 7

type DashboardRepository struct {
	*baseRepository
	movie *MovieRepository
}

type DashboardTotals struct {
	Users      int64 `json:"users"`
	Movies     int64 `json:"movies"`
	Votes      int64 `json:"votes"`
	Awards     int64 `json:"awards"`
	Categories int64 `json:"categories"`
	Juries     int64 `json:"juries"`
}

type DayCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardStats struct {
	Totals                DashboardTotals                    `json:"totals"`
	NewUsersToday         int64                              `json:"new_users_today"`
	FilmsEvaluated        int64                              `json:"films_evaluated"`
	VotesPerDay           []DayCount                         `json:"votes_per_day"`
	Pipeline              map[constant.SelectionStatus]int64 `json:"pipeline"`
	JuryParticipationRate int                                `json:"jury_participation_rate"`
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// bucketByDay counts timestamps per local day over the days ending at now, oldest first.
// Days without timestamps are present with a zero count.
func bucketByDay(now time.Time, days int, stamps []time.Time) []DayCount {
	first := startOfDay(now).AddDate(0, 0, -(days - 1))
	out := make([]DayCount, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := first.AddDate(0, 0, i).Format(time.DateOnly)
		out[i] = DayCount{Date: key}
		index[key] = i
	}

	for _, s := range stamps {
		key := s.In(now.Location()).Format(time.DateOnly)
		if i, ok := index[key]; ok {
			out[i].Count++
		}
	}

	return out
}

// participationRate is the rounded percentage of jurors that voted, 0 without jurors.
func participationRate(voting, juries int64) int {
	if juries <= 0 {
		return 0
	}
	return int(math.Round(float64(voting) * 100 / float64(juries)))
}

// GetStats recomputes every figure from the tables on each call.
func (dr DashboardRepository) GetStats(ctx context.Context, tx *gorm.DB, now time.Time) (*DashboardStats, error) {
	dr.logger.Debugf("Compute dashboard stats at %s", now.Format(time.RFC3339))

	db := dr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	stats := &DashboardStats{}
	counts := []struct {
		what  string
		query *gorm.DB
		dest  *int64
	}{
		{"user", db.WithContext(ctx).Model(&model.User{}), &stats.Totals.Users},
		{"movie", db.WithContext(ctx).Model(&model.Movie{}), &stats.Totals.Movies},
		{"vote", db.WithContext(ctx).Model(&model.Vote{}), &stats.Totals.Votes},
		{"award", db.WithContext(ctx).Model(&model.Award{}), &stats.Totals.Awards},
		{"category", db.WithContext(ctx).Model(&model.Category{}), &stats.Totals.Categories},
		{"user", db.WithContext(ctx).Model(&model.User{}).Where("role = ?", constant.RoleJury), &stats.Totals.Juries},
		{"user", db.WithContext(ctx).Model(&model.User{}).Where("created_at >= ?", startOfDay(now)), &stats.NewUsersToday},
		{"vote", db.WithContext(ctx).Model(&model.Vote{}).Distinct("id_movie"), &stats.FilmsEvaluated},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, apperror.FromGorm(err, c.what)
		}
	}

	var votingJuries int64
	if err := db.WithContext(ctx).Model(&model.Vote{}).
		Joins("JOIN users ON users.id = votes.id_user").
		Where("users.role = ?", constant.RoleJury).
		Distinct("votes.id_user").
		Count(&votingJuries).Error; err != nil {
		return nil, apperror.FromGorm(err, "vote")
	}
	stats.JuryParticipationRate = participationRate(votingJuries, stats.Totals.Juries)

	since := startOfDay(now).AddDate(0, 0, -(VoteTrendDays - 1))
	var stamps []time.Time
	if err := db.WithContext(ctx).Model(&model.Vote{}).Where("created_at >= ?", since).Pluck("created_at", &stamps).Error; err != nil {
		return nil, apperror.FromGorm(err, "vote")
	}
	stats.VotesPerDay = bucketByDay(now, VoteTrendDays, stamps)

	pipeline, err := dr.movie.CountByStatus(ctx, db)
	if err != nil {
		return nil, err
	}
	stats.Pipeline = pipeline

	return stats, nil
}
