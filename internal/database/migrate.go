package database

import (
	"github.com/SeakMengs/MarsAI/internal/model"
	"gorm.io/gorm"
)

// Models lists every table owned by the api, in dependency order.
func Models() []any {
	return []any{
		&model.User{},
		&model.Token{},
		&model.OAuthProvider{},
		&model.Category{},
		&model.Collaborator{},
		&model.Movie{},
		&model.Vote{},
		&model.VoteHistory{},
		&model.Award{},
		&model.Event{},
		&model.Reservation{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
