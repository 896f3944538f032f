package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/SeakMengs/MarsAI/internal/auth"
	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/SeakMengs/MarsAI/internal/constant"
	"github.com/SeakMengs/MarsAI/internal/database"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepository opens a private in-memory database per test. A single connection
// keeps every statement on the same memory database.
func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	cfg := database.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db))

	log := zap.NewNop().Sugar()
	return NewRepository(db, log, auth.NewJwt(config.AuthConfig{JWT_SECRET: "test-secret"}, log))
}

func seedUser(t *testing.T, r *Repository, role constant.UserRole, email string) *model.User {
	t.Helper()

	u, err := r.User.Create(context.Background(), nil, &model.User{
		Email:     email,
		FirstName: "First",
		LastName:  "Last",
		Role:      role,
	})
	require.NoError(t, err)
	return u
}

func seedMovie(t *testing.T, r *Repository, owner *model.User, status constant.SelectionStatus) *model.Movie {
	t.Helper()

	m, err := r.Movie.Create(context.Background(), nil, &model.Movie{
		Title:           "Movie " + string(status),
		Duration:        90,
		SelectionStatus: status,
		UserID:          owner.ID,
	}, nil)
	require.NoError(t, err)
	return m
}

func assignJury(t *testing.T, r *Repository, movie *model.Movie, juries ...*model.User) {
	t.Helper()

	ids := make([]uint, 0, len(juries))
	for _, j := range juries {
		ids = append(ids, j.ID)
	}
	_, _, err := r.Assignment.SetJuries(context.Background(), nil, movie.ID, ids)
	require.NoError(t, err)
}

// beforeCreate runs fn ahead of every insert into table until the test ends.
func beforeCreate(t *testing.T, r *Repository, table string, fn func(tx *gorm.DB)) {
	t.Helper()

	name := "test:before_create_" + table
	err := r.DB.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			fn(tx)
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.DB.Callback().Create().Remove(name) })
}

// failCreates makes every later insert into table fail.
func failCreates(t *testing.T, r *Repository, table string) {
	t.Helper()

	beforeCreate(t, r, table, func(tx *gorm.DB) {
		_ = tx.AddError(errors.New("write failed"))
	})
}
