package model

type OAuthProvider struct {
	BaseModel
	ProviderType   string `gorm:"type:varchar(50);not null;" json:"providerType" form:"providerType" binding:"required"`
	ProviderUserId string `gorm:"type:varchar(255);uniqueIndex;not null" json:"providerUserId" form:"providerUserId" binding:"required"`
	AccessToken    string `gorm:"type:text" json:"-" form:"accessToken"`
	UserID         uint   `gorm:"not null;index" json:"userId" form:"userId"`

	User User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-" form:"-"`
}

func (op OAuthProvider) TableName() string {
	return "oauth_providers"
}
