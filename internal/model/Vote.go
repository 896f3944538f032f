package model

import "time"

type Vote struct {
	BaseModel
	Note              float64 `gorm:"not null" json:"note"`
	Comments          string  `gorm:"type:text" json:"comments"`
	ModificationCount int     `gorm:"not null;default:0" json:"modification_count"`

	// At most one vote per (movie, jury).
	MovieID uint `gorm:"column:id_movie;not null;uniqueIndex:idx_votes_movie_user" json:"id_movie"`
	UserID  uint `gorm:"column:id_user;not null;uniqueIndex:idx_votes_movie_user;index" json:"id_user"`

	Movie Movie `gorm:"foreignKey:MovieID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (v Vote) TableName() string {
	return "votes"
}

// VoteHistory is an append only snapshot of a vote before it changed. It has no
// foreign keys so it outlives the vote and the movie.
type VoteHistory struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	VoteID    uint      `gorm:"column:id_vote;not null;index" json:"id_vote"`
	MovieID   uint      `gorm:"column:id_movie;not null;index" json:"id_movie"`
	UserID    uint      `gorm:"column:id_user;not null;index" json:"id_user"`
	Note      float64   `gorm:"not null" json:"note"`
	Comments  string    `gorm:"type:text" json:"comments"`
	CreatedAt time.Time `gorm:"autoCreateTime;not null" json:"created_at"`
}

func (vh VoteHistory) TableName() string {
	return "vote_histories"
}
