package mailer

import (
	"bytes"
	"embed"
	"html/template"
)

const (
	FROM_NAME                         = "MarsAI"
	MAX_RETRY                         = 3
	JURY_ASSIGNMENT_TEMPLATE          = "jury_assignment.tmpl"
	RESERVATION_CONFIRMATION_TEMPLATE = "reservation_confirmation.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, toUsername, toEmail string, data any) (int, error)
}

// Render executes the "subject" and "body" blocks of an embedded template.
func Render(templateFile string, data any) (string, string, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return "", "", err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return "", "", err
	}

	return subject.String(), body.String(), nil
}

type JuryAssignmentData struct {
	MovieID    uint
	JuryID     uint
	JuryName   string
	MovieTitle string
	MovieURL   string
	AppName    string
}

type ReservationConfirmationData struct {
	Name      string
	EventName string
	Location  string
	StartsAt  string
	Seats     int
	Code      string
	QRCodeURL string
	AppName   string
}
