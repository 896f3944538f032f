package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/SeakMengs/MarsAI/internal/apperror"
	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/SeakMengs/MarsAI/internal/mailer"
	"github.com/SeakMengs/MarsAI/internal/repository"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type MailConsumerContext struct {
	Config     *config.Config
	Logger     *zap.SugaredLogger
	Repository *repository.Repository
	Mailer     mailer.Client
}

type MailJobPayload struct {
	ToEmail      string          `json:"to_email"`
	ToName       string          `json:"to_name"`
	TemplateFile string          `json:"template_file"`
	Data         json.RawMessage `json:"data"`
	CreatedAt    string          `json:"created_at"`
	Try          int             `json:"try"`
}

func NewMailJobPayload[T any](toName, toEmail, templateFile string, data T) (MailJobPayload, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return MailJobPayload{}, fmt.Errorf("failed to marshal data: %w", err)
	}

	return MailJobPayload{
		ToEmail:      toEmail,
		ToName:       toName,
		TemplateFile: templateFile,
		Data:         dataBytes,
		CreatedAt:    time.Now().Format(time.RFC3339),
	}, nil
}

// QueuedMailer is the mailer.Client of the api when RabbitMQ is configured. The
// mail consumer does the actual sending.
type QueuedMailer struct {
	publisher Publisher
	logger    *zap.SugaredLogger
}

func NewQueuedMailer(publisher Publisher, logger *zap.SugaredLogger) *QueuedMailer {
	return &QueuedMailer{publisher: publisher, logger: logger}
}

func (q QueuedMailer) Send(templateFile, toUsername, toEmail string, data any) (int, error) {
	job, err := NewMailJobPayload(toUsername, toEmail, templateFile, data)
	if err != nil {
		return -1, err
	}

	body, err := json.Marshal(job)
	if err != nil {
		return -1, fmt.Errorf("failed to marshal mail job: %w", err)
	}

	if err := q.publisher.Publish(QueueMail, body); err != nil {
		return -1, fmt.Errorf("failed to publish mail job: %w", err)
	}

	q.logger.Debugf("Queued mail %s for %s", templateFile, toEmail)
	return http.StatusAccepted, nil
}

// MailJobHandler returns whether a failed job is worth retrying.
type MailJobHandler func(ctx context.Context, jobPayload MailJobPayload, app *MailConsumerContext) (bool, error)

func (r *RabbitMQ) ConsumeMailJob(ctx context.Context, handler MailJobHandler, maxWorker int, app *MailConsumerContext) error {
	msgs, err := r.Consume(QueueMail, maxWorker)
	if err != nil {
		return fmt.Errorf("failed to start consuming mail jobs: %w", err)
	}

	for i := range maxWorker {
		go func(workerNumber int) {
			runMailWorker(ctx, r, workerNumber, msgs, handler, app)
		}(i + 1)
	}

	return nil
}

func runMailWorker(ctx context.Context, rabbitMQ *RabbitMQ, workerNumber int, msgs <-chan amqp.Delivery, handler MailJobHandler, app *MailConsumerContext) {
	log := app.Logger.With("worker", workerNumber)

	for {
		select {
		case <-ctx.Done():
			log.Info("Mail worker shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Info("Mail worker message channel closed")
				return
			}
			processMailJob(ctx, rabbitMQ, log, msg, handler, app)
		}
	}
}

func processMailJob(ctx context.Context, rabbitMQ *RabbitMQ, log *zap.SugaredLogger, msg amqp.Delivery, handler MailJobHandler, app *MailConsumerContext) {
	var jobPayload MailJobPayload
	if err := json.Unmarshal(msg.Body, &jobPayload); err != nil {
		log.Errorf("Invalid mail job payload: %v", err)
		_ = rabbitMQ.Nack(msg, false)
		return
	}

	log = log.With("to", jobPayload.ToEmail, "template", jobPayload.TemplateFile, "try", jobPayload.Try)

	shouldRequeue, err := handler(ctx, jobPayload, app)
	if err == nil {
		log.Info("Mail job processed")
		_ = rabbitMQ.Ack(msg)
		return
	}

	if !shouldRequeue || jobPayload.Try >= MAX_QUEUE_RETRY {
		log.Errorw("Dropping mail job", "requeue", shouldRequeue, "error", err)
		_ = rabbitMQ.Nack(msg, false)
		return
	}

	log.Warnf("Mail job failed, requeuing: %v", err)
	requeueMailJob(rabbitMQ, log, msg, jobPayload)
}

// The job is published again with Try+1 instead of a broker requeue so the retry
// count travels with it.
func requeueMailJob(rabbitMQ *RabbitMQ, log *zap.SugaredLogger, msg amqp.Delivery, jobPayload MailJobPayload) {
	jobPayload.Try++
	payloadBytes, err := json.Marshal(jobPayload)
	if err != nil {
		log.Errorf("Failed to marshal mail payload for requeue: %v", err)
		_ = rabbitMQ.Nack(msg, false)
		return
	}

	if err := rabbitMQ.Publish(QueueMail, payloadBytes); err != nil {
		log.Errorf("Failed to requeue mail job: %v", err)
		_ = rabbitMQ.Nack(msg, false)
		return
	}

	_ = rabbitMQ.Ack(msg)
}

// HandleMailJob checks that the mail still makes sense before sending it: the juror
// is still on the panel, the reservation still exists.
func HandleMailJob(ctx context.Context, jobPayload MailJobPayload, app *MailConsumerContext) (bool, error) {
	switch jobPayload.TemplateFile {
	case mailer.JURY_ASSIGNMENT_TEMPLATE:
		var data mailer.JuryAssignmentData
		if err := json.Unmarshal(jobPayload.Data, &data); err != nil {
			return false, fmt.Errorf("failed to unmarshal JuryAssignmentData: %w", err)
		}

		assigned, err := app.Repository.Movie.IsJuryAssigned(ctx, nil, data.MovieID, data.JuryID)
		if err != nil {
			return true, fmt.Errorf("failed to check jury assignment: %w", err)
		}
		if !assigned {
			return false, fmt.Errorf("jury %d is no longer assigned to movie %d", data.JuryID, data.MovieID)
		}

		return sendMail(app, jobPayload, data)
	case mailer.RESERVATION_CONFIRMATION_TEMPLATE:
		var data mailer.ReservationConfirmationData
		if err := json.Unmarshal(jobPayload.Data, &data); err != nil {
			return false, fmt.Errorf("failed to unmarshal ReservationConfirmationData: %w", err)
		}

		if _, err := app.Repository.Reservation.GetByCode(ctx, nil, data.Code); err != nil {
			return apperror.KindOf(err) != apperror.KindNotFound, fmt.Errorf("failed to get reservation %s: %w", data.Code, err)
		}

		return sendMail(app, jobPayload, data)
	default:
		return false, fmt.Errorf("unsupported template: %s", jobPayload.TemplateFile)
	}
}

func sendMail(app *MailConsumerContext, jobPayload MailJobPayload, data any) (bool, error) {
	status, err := app.Mailer.Send(jobPayload.TemplateFile, jobPayload.ToName, jobPayload.ToEmail, data)
	if err != nil {
		return true, fmt.Errorf("failed to send email: %w", err)
	}

	if status >= http.StatusMultipleChoices {
		return true, fmt.Errorf("email sending failed with status: %d", status)
	}

	return false, nil
}
