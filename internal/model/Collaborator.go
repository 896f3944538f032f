package model

type Collaborator struct {
	BaseModel
	FirstName string `gorm:"type:varchar(100)" json:"first_name" form:"first_name"`
	LastName  string `gorm:"type:varchar(100)" json:"last_name" form:"last_name"`
	Email     string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" form:"email"`
	Job       string `gorm:"type:varchar(100)" json:"job" form:"job"`
}

func (c Collaborator) TableName() string {
	return "collaborators"
}
