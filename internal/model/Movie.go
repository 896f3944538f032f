package model

import (
	"github.com/SeakMengs/MarsAI/internal/constant"
)

type Movie struct {
	BaseModel
	Title        string `gorm:"type:varchar(255);not null" json:"title"`
	TitleEN      string `gorm:"type:varchar(255)" json:"title_en"`
	Synopsis     string `gorm:"type:text" json:"synopsis"`
	SynopsisEN   string `gorm:"type:text" json:"synopsis_en"`
	Duration     int    `gorm:"type:int" json:"duration"`
	MainLanguage string `gorm:"type:varchar(100)" json:"main_language"`
	ReleaseYear  int    `gorm:"type:int" json:"release_year"`
	Nationality  string `gorm:"type:varchar(100)" json:"nationality"`
	Production   string `gorm:"type:text" json:"production"`
	Workshop     string `gorm:"type:text" json:"workshop"`
	AITool       string `gorm:"column:ai_tool;type:text" json:"ai_tool"`

	// Names produced by the upload collaborator, never file bytes.
	Trailer    string `gorm:"type:varchar(512)" json:"trailer"`
	Film       string `gorm:"type:varchar(512)" json:"film"`
	Thumbnail1 string `gorm:"type:varchar(512)" json:"thumbnail1"`
	Thumbnail2 string `gorm:"type:varchar(512)" json:"thumbnail2"`
	Thumbnail3 string `gorm:"type:varchar(512)" json:"thumbnail3"`
	Subtitle   string `gorm:"type:varchar(512)" json:"subtitle"`

	SelectionStatus constant.SelectionStatus `gorm:"type:varchar(20);not null;default:submitted;index" json:"selection_status"`
	JuryComment     string                   `gorm:"type:text" json:"jury_comment"`

	UserID   uint `gorm:"column:id_user;not null;index" json:"id_user"`
	Producer User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Categories    []Category     `gorm:"many2many:movie_categories;joinForeignKey:MovieID;joinReferences:CategoryID" json:"categories,omitempty"`
	Juries        []User         `gorm:"many2many:movie_juries;joinForeignKey:MovieID;joinReferences:UserID" json:"-"`
	Collaborators []Collaborator `gorm:"many2many:movie_collaborators;joinForeignKey:MovieID;joinReferences:CollaboratorID" json:"collaborators,omitempty"`
	Awards        []Award        `gorm:"foreignKey:MovieID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"awards,omitempty"`
}

func (m Movie) TableName() string {
	return "movies"
}

// AssetNames returns every non empty stored file reference keyed by its field.
func (m Movie) AssetNames() map[string]string {
	out := map[string]string{}
	for k, v := range map[string]string{
		"trailer":    m.Trailer,
		"film":       m.Film,
		"thumbnail1": m.Thumbnail1,
		"thumbnail2": m.Thumbnail2,
		"thumbnail3": m.Thumbnail3,
		"subtitle":   m.Subtitle,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// MovieSummary is the shallow projection attached to votes.
type MovieSummary struct {
	ID              uint                     `json:"id"`
	Title           string                   `json:"title"`
	SelectionStatus constant.SelectionStatus `json:"selection_status"`
}

func (m Movie) Summary() MovieSummary {
	return MovieSummary{ID: m.ID, Title: m.Title, SelectionStatus: m.SelectionStatus}
}
