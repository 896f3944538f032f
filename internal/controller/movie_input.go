package controller

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/model"
	"github.com/SeakMengs/MarsAI/internal/repository"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// MovieSubmission is the single accepted shape for new movies, both as JSON and as
// form fields. Asset fields hold names returned by the upload service.
type MovieSubmission struct {
	Title           string   `json:"title" form:"title" binding:"required,strNotEmpty,max=255"`
	TitleEN         string   `json:"title_en" form:"title_en" binding:"max=255"`
	Synopsis        string   `json:"synopsis" form:"synopsis" binding:"max=5000"`
	SynopsisEN      string   `json:"synopsis_en" form:"synopsis_en" binding:"max=5000"`
	Duration        *int     `json:"duration" form:"duration"`
	DurationMinutes *float64 `json:"duration_minutes" form:"duration_minutes"`
	MainLanguage    string   `json:"main_language" form:"main_language" binding:"max=100"`
	ReleaseYear     int      `json:"release_year" form:"release_year" binding:"omitempty,min=1888,max=2100"`
	Nationality     string   `json:"nationality" form:"nationality" binding:"max=100"`
	Production      string   `json:"production" form:"production" binding:"max=5000"`
	Workshop        string   `json:"workshop" form:"workshop" binding:"max=5000"`
	AITool          string   `json:"ai_tool" form:"ai_tool" binding:"max=5000"`
	Trailer         string   `json:"trailer" form:"trailer" binding:"max=512"`
	Film            string   `json:"film" form:"film" binding:"max=512"`
	Thumbnail1      string   `json:"thumbnail1" form:"thumbnail1" binding:"max=512"`
	Thumbnail2      string   `json:"thumbnail2" form:"thumbnail2" binding:"max=512"`
	Thumbnail3      string   `json:"thumbnail3" form:"thumbnail3" binding:"max=512"`
	Subtitle        string   `json:"subtitle" form:"subtitle" binding:"max=512"`

	// Only honoured for admins, producers always own what they submit.
	UserID uint `json:"id_user" form:"id_user"`

	Categories    json.RawMessage `json:"categories" form:"-"`
	Collaborators json.RawMessage `json:"collaborators" form:"-"`
}

// resolveDuration returns the duration in seconds. Legacy minute values are
// converted before the cap is checked.
func resolveDuration(seconds *int, minutes *float64) (*int, error) {
	var secs int
	switch {
	case seconds != nil:
		secs = *seconds
	case minutes != nil:
		if math.IsNaN(*minutes) || math.IsInf(*minutes, 0) {
			return nil, apperror.Validation("duration_minutes must be a finite number", nil).WithField("duration_minutes")
		}
		secs = int(math.Round(*minutes * 60))
	default:
		return nil, nil
	}

	if err := repository.ValidateDuration(secs); err != nil {
		return nil, err
	}
	return &secs, nil
}

func (s MovieSubmission) toModel() (*model.Movie, error) {
	duration, err := resolveDuration(s.Duration, s.DurationMinutes)
	if err != nil {
		return nil, err
	}

	movie := &model.Movie{
		Title:        util.SanitizeText(s.Title),
		TitleEN:      util.SanitizeText(s.TitleEN),
		Synopsis:     util.SanitizeText(s.Synopsis),
		SynopsisEN:   util.SanitizeText(s.SynopsisEN),
		MainLanguage: util.SanitizeText(s.MainLanguage),
		ReleaseYear:  s.ReleaseYear,
		Nationality:  util.SanitizeText(s.Nationality),
		Production:   util.SanitizeText(s.Production),
		Workshop:     util.SanitizeText(s.Workshop),
		AITool:       util.SanitizeText(s.AITool),
		Trailer:      strings.TrimSpace(s.Trailer),
		Film:         strings.TrimSpace(s.Film),
		Thumbnail1:   strings.TrimSpace(s.Thumbnail1),
		Thumbnail2:   strings.TrimSpace(s.Thumbnail2),
		Thumbnail3:   strings.TrimSpace(s.Thumbnail3),
		Subtitle:     strings.TrimSpace(s.Subtitle),
	}
	if duration != nil {
		movie.Duration = *duration
	}
	return movie, nil
}

// relations parses the optional relation fields. Absent fields stay nil so the
// repository leaves them alone.
func (s MovieSubmission) relations() (*repository.MovieRelations, error) {
	rel := &repository.MovieRelations{}

	if isPresent(s.Categories) {
		ids, err := parseIdList(s.Categories, "categories")
		if err != nil {
			return nil, err
		}
		rel.CategoryIDs = ids
	}

	if isPresent(s.Collaborators) {
		collaborators, err := parseCollaborators(s.Collaborators)
		if err != nil {
			return nil, err
		}
		rel.Collaborators = collaborators
	}

	return rel, nil
}

func isPresent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// unwrapJSONString turns "\"[1,2]\"" into "[1,2]", form clients send arrays that way.
func unwrapJSONString(raw json.RawMessage, field string) (json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return raw, nil
	}

	var inner string
	if err := json.Unmarshal(raw, &inner); err != nil {
		return nil, apperror.Validation(field+" is malformed", err).WithField(field)
	}
	return json.RawMessage(strings.TrimSpace(inner)), nil
}

// parseIdList requires the field. An empty array is valid and clears the relation.
func parseIdList(raw json.RawMessage, field string) ([]uint, error) {
	if !isPresent(raw) {
		return nil, apperror.ErrMissingField.WithField(field)
	}

	raw, err := unwrapJSONString(raw, field)
	if err != nil {
		return nil, err
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperror.Validation(field+" must be an array of ids", err).WithField(field)
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		text := string(bytes.TrimSpace(item))
		var s string
		if json.Unmarshal(item, &s) == nil {
			text = strings.TrimSpace(s)
		}

		id, err := strconv.ParseUint(text, 10, 64)
		if err != nil || id == 0 {
			return nil, apperror.Validation(field+" must only contain positive integer ids", err).WithField(field)
		}
		ids = append(ids, uint(id))
	}

	return ids, nil
}

func parseCollaborators(raw json.RawMessage) ([]repository.CollaboratorInput, error) {
	const field = "collaborators"

	if !isPresent(raw) {
		return nil, apperror.ErrMissingField.WithField(field)
	}

	raw, err := unwrapJSONString(raw, field)
	if err != nil {
		return nil, err
	}

	var payloads []repository.CollaboratorInput
	if err := json.Unmarshal(raw, &payloads); err != nil {
		return nil, apperror.Validation("collaborators must be an array of objects", err).WithField(field)
	}

	for i := range payloads {
		payloads[i].FirstName = util.SanitizeText(payloads[i].FirstName)
		payloads[i].LastName = util.SanitizeText(payloads[i].LastName)
		payloads[i].Job = util.SanitizeText(payloads[i].Job)
		payloads[i].Email = strings.TrimSpace(payloads[i].Email)
	}
	return payloads, nil
}

func isJSONRequest(ctx *gin.Context) bool {
	return ctx.ContentType() == binding.MIMEJSON
}

// readRawField returns the raw value of one field from a JSON body or a form.
// A missing field returns nil.
func readRawField(ctx *gin.Context, field string) (json.RawMessage, error) {
	if isJSONRequest(ctx) {
		var body map[string]json.RawMessage
		if err := ctx.ShouldBindJSON(&body); err != nil {
			return nil, apperror.Validation("request body must be a JSON object", err).WithField(field)
		}
		return body[field], nil
	}

	if value, ok := ctx.GetPostForm(field); ok {
		return json.RawMessage(value), nil
	}
	return nil, nil
}

// fillFormRelations copies relation fields from a form submission.
func (s *MovieSubmission) fillFormRelations(ctx *gin.Context) {
	if isJSONRequest(ctx) {
		return
	}
	if v, ok := ctx.GetPostForm("categories"); ok {
		s.Categories = json.RawMessage(v)
	}
	if v, ok := ctx.GetPostForm("collaborators"); ok {
		s.Collaborators = json.RawMessage(v)
	}
}

// MovieEdit is the admin update payload. Nil fields are left as they are.
type MovieEdit struct {
	Title           *string  `json:"title" binding:"omitempty,strNotEmpty,max=255"`
	TitleEN         *string  `json:"title_en" binding:"omitempty,max=255"`
	Synopsis        *string  `json:"synopsis" binding:"omitempty,max=5000"`
	SynopsisEN      *string  `json:"synopsis_en" binding:"omitempty,max=5000"`
	Duration        *int     `json:"duration"`
	DurationMinutes *float64 `json:"duration_minutes"`
	MainLanguage    *string  `json:"main_language" binding:"omitempty,max=100"`
	ReleaseYear     *int     `json:"release_year" binding:"omitempty,min=1888,max=2100"`
	Nationality     *string  `json:"nationality" binding:"omitempty,max=100"`
	Production      *string  `json:"production" binding:"omitempty,max=5000"`
	Workshop        *string  `json:"workshop" binding:"omitempty,max=5000"`
	AITool          *string  `json:"ai_tool" binding:"omitempty,max=5000"`
	Trailer         *string  `json:"trailer" binding:"omitempty,max=512"`
	Film            *string  `json:"film" binding:"omitempty,max=512"`
	Thumbnail1      *string  `json:"thumbnail1" binding:"omitempty,max=512"`
	Thumbnail2      *string  `json:"thumbnail2" binding:"omitempty,max=512"`
	Thumbnail3      *string  `json:"thumbnail3" binding:"omitempty,max=512"`
	Subtitle        *string  `json:"subtitle" binding:"omitempty,max=512"`
	JuryComment     *string  `json:"jury_comment" binding:"omitempty,max=5000"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func (e MovieEdit) toUpdate() (repository.MovieUpdate, error) {
	duration, err := resolveDuration(e.Duration, e.DurationMinutes)
	if err != nil {
		return repository.MovieUpdate{}, err
	}

	return repository.MovieUpdate{
		Title:        sanitizePtr(e.Title),
		TitleEN:      sanitizePtr(e.TitleEN),
		Synopsis:     sanitizePtr(e.Synopsis),
		SynopsisEN:   sanitizePtr(e.SynopsisEN),
		Duration:     duration,
		MainLanguage: sanitizePtr(e.MainLanguage),
		ReleaseYear:  e.ReleaseYear,
		Nationality:  sanitizePtr(e.Nationality),
		Production:   sanitizePtr(e.Production),
		Workshop:     sanitizePtr(e.Workshop),
		AITool:       sanitizePtr(e.AITool),
		Trailer:      trimPtr(e.Trailer),
		Film:         trimPtr(e.Film),
		Thumbnail1:   trimPtr(e.Thumbnail1),
		Thumbnail2:   trimPtr(e.Thumbnail2),
		Thumbnail3:   trimPtr(e.Thumbnail3),
		Subtitle:     trimPtr(e.Subtitle),
		JuryComment:  sanitizePtr(e.JuryComment),
	}, nil
}
