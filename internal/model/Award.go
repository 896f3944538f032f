package model

type Award struct {
	BaseModel
	// Unique across the whole table, not per movie.
	Name    string `gorm:"column:award_name;type:varchar(255);uniqueIndex;not null" json:"award_name"`
	MovieID uint   `gorm:"column:id_movie;not null;index" json:"id_movie"`
}

func (a Award) TableName() string {
	return "awards"
}
