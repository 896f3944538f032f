package mailer

import (
	"log"
	"net/http"
	"os"
	"testing"

	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRenderTemplates(t *testing.T) {
	subject, body, err := Render(JURY_ASSIGNMENT_TEMPLATE, JuryAssignmentData{
		JuryName:   "Ada",
		MovieTitle: "Red <Dust>",
		AppName:    "MarsAI",
	})
	require.NoError(t, err)
	assert.Equal(t, "MarsAI - New film assigned: Red &lt;Dust&gt;", subject)
	assert.Contains(t, body, "Hi Ada")
	assert.NotContains(t, body, "Open the film")

	subject, body, err = Render(RESERVATION_CONFIRMATION_TEMPLATE, ReservationConfirmationData{
		Name:      "Bo",
		EventName: "Closing night",
		Seats:     2,
		Code:      "ABCD234567",
		AppName:   "MarsAI",
	})
	require.NoError(t, err)
	assert.Equal(t, "MarsAI - Your reservation for Closing night", subject)
	assert.Contains(t, body, "ABCD234567")
	assert.Contains(t, body, "2 seat(s)")

	_, _, err = Render("missing.tmpl", nil)
	assert.Error(t, err)
}

func TestDisabledMailerSkipsSend(t *testing.T) {
	m := NewSendgrid("", "", false, zap.NewNop().Sugar())
	status, err := m.Send(JURY_ASSIGNMENT_TEMPLATE, "Ada", "ada@example.com", JuryAssignmentData{JuryName: "Ada", MovieTitle: "X", AppName: "MarsAI"})
	assert.NoError(t, err)
	assert.Equal(t, 0, status)
}

func TestSendMail(t *testing.T) {
	if err := godotenv.Load("../../.env"); err != nil {
		t.Skip("no .env file, skip sending real mail")
	}

	cfg := config.GetConfig()
	to := os.Getenv("MAIL_TEST_TO")
	if cfg.Mail.SEND_GRID.API_KEY == "" || to == "" {
		t.Skip("MAIL_SEND_GRID_API_KEY or MAIL_TEST_TO not set")
	}

	// isProduction = false to ensure that the send mail test always run in sandbox mode which won't send actual email to the user
	mail := NewSendgrid(cfg.Mail.SEND_GRID.API_KEY, cfg.Mail.FROM_EMAIL, false, nil)

	vars := JuryAssignmentData{
		JuryName:   "Example jury inject",
		MovieTitle: "Example movie inject",
		AppName:    "MarsAI",
	}

	status, err := mail.Send(JURY_ASSIGNMENT_TEMPLATE, "toExampleUserName", to, vars)

	switch status {
	case http.StatusUnauthorized:
		t.Errorf("Unauthorized to send mail, check mail api_key and from_email")
	case http.StatusForbidden:
		t.Errorf("Forbidden to send mail, check mail from_email is it the correct email authorized in send grid?")
	}

	// If status == 202, it mean successful
	if status != http.StatusAccepted && status != http.StatusOK {
		log.Printf("send mail error: %v", err)
		t.Errorf("We got status %d, error: %v", status, err)
	}
}
