package model

import "time"

type Event struct {
	BaseModel
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Location    string    `gorm:"type:varchar(255)" json:"location"`
	StartsAt    time.Time `gorm:"not null;index" json:"starts_at"`
	EndsAt      time.Time `gorm:"not null" json:"ends_at"`
	// 0 means no seat limit
	Capacity int `gorm:"not null;default:0" json:"capacity"`
}

func (e Event) TableName() string {
	return "events"
}

type Reservation struct {
	BaseModel
	FirstName string `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName  string `gorm:"type:varchar(100);not null" json:"last_name"`
	Email     string `gorm:"type:varchar(255);not null;index" json:"email"`
	Seats     int    `gorm:"not null;default:1" json:"seats"`
	Code      string `gorm:"type:varchar(32);uniqueIndex;not null" json:"code"`

	EventID uint  `gorm:"column:id_event;not null;index" json:"id_event"`
	Event   Event `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (r Reservation) TableName() string {
	return "reservations"
}
