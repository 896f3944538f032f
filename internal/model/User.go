package model

import "github.com/SeakMengs/MarsAI/internal/constant"

type User struct {
	BaseModel
	Email      string            `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" form:"email"`
	FirstName  string            `gorm:"type:varchar(100);not null" json:"first_name" form:"first_name"`
	LastName   string            `gorm:"type:varchar(100);not null" json:"last_name" form:"last_name"`
	Password   string            `gorm:"type:varchar(255)" json:"-" form:"-"`
	Role       constant.UserRole `gorm:"type:varchar(20);not null;default:PRODUCER;index" json:"role" form:"role"`
	Job        string            `gorm:"type:varchar(100)" json:"job" form:"job"`
	Phone      string            `gorm:"type:varchar(50)" json:"phone" form:"phone"`
	ProfileURL string            `gorm:"type:text" json:"profile_url" form:"profile_url"`
}

func (u User) TableName() string {
	return "users"
}

func (u User) IsJury() bool {
	return u.Role == constant.RoleJury
}

// UserSummary is the shallow projection attached to votes and movies.
type UserSummary struct {
	ID        uint              `json:"id"`
	Email     string            `json:"email"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Role      constant.UserRole `json:"role"`
}

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName, Role: u.Role}
}
