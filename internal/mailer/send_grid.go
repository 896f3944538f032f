package mailer

import (
	"fmt"
	"time"

	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type SendGridMailer struct {
	fromEmail string
	client    *sendgrid.Client
	isSandBox bool
	logger    *zap.SugaredLogger
	enabled   bool
}

func NewSendgrid(apiKey string, fromEmail string, isProduction bool, logger *zap.SugaredLogger) *SendGridMailer {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("test")
	}

	client := sendgrid.NewSendClient(apiKey)

	return &SendGridMailer{
		fromEmail: fromEmail,
		client:    client,
		// Sandbox mode is only used to validate your request. The email will never be delivered while this feature is enabled!
		isSandBox: !isProduction,
		logger:    logger,
		// Without credentials mails are rendered and logged but not sent
		enabled: apiKey != "" && fromEmail != "",
	}
}

// Data is the struct the template is executed with, for example JuryAssignmentData.
//
//	Check templates/jury_assignment.tmpl to see how we use the entity
//
//	Example usage:
//	status, err := Send(mailer.JURY_ASSIGNMENT_TEMPLATE, user.FirstName, user.Email, vars)
func (m SendGridMailer) Send(templateFile, toUsername, toEmail string, data any) (int, error) {
	subject, body, err := Render(templateFile, data)
	if err != nil {
		m.logger.Errorf("Error occurred during mail template rendering, error: %v", err)
		return -1, err
	}

	if !m.enabled {
		m.logger.Debugf("Mailer disabled, skip sending %q to %s", subject, toEmail)
		return 0, nil
	}

	from := mail.NewEmail(FROM_NAME, m.fromEmail)
	to := mail.NewEmail(toUsername, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", body)

	message.SetMailSettings(&mail.MailSettings{
		SandboxMode: &mail.Setting{
			Enable: &m.isSandBox,
		},
	})

	var retryErr error
	for i := 0; i < MAX_RETRY; i++ {
		response, err := m.client.Send(message)
		if err != nil {
			retryErr = err
			// exponential backoff
			time.Sleep(time.Second * time.Duration(i+1))
			continue
		}

		return response.StatusCode, nil
	}

	m.logger.Errorf("Failed to send email after %d attempt, error: %v", MAX_RETRY, retryErr)

	return -1, fmt.Errorf("failed to send email after %d attempt: %w", MAX_RETRY, retryErr)
}
