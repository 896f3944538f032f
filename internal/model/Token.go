package model

type Token struct {
	BaseModel
	AccessToken  string `gorm:"type:text" json:"accessToken" form:"accessToken"`
	RefreshToken string `gorm:"type:varchar(512);uniqueIndex" json:"refreshToken" form:"refreshToken"`
	CanAccess    bool   `gorm:"not null;default:true" json:"canAccess" form:"canAccess"`
	CanRefresh   bool   `gorm:"not null;default:true" json:"canRefresh" form:"canRefresh"`

	UserID uint `gorm:"not null;index" json:"userId" form:"userId"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-" form:"-"`
}

func (t Token) TableName() string {
	return "tokens"
}
