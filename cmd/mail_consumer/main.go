package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/SeakMengs/MarsAI/internal/auth"
	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/SeakMengs/MarsAI/internal/database"
	"github.com/SeakMengs/MarsAI/internal/env"
	"github.com/SeakMengs/MarsAI/internal/mailer"
	"github.com/SeakMengs/MarsAI/internal/queue"
	"github.com/SeakMengs/MarsAI/internal/repository"
	"github.com/SeakMengs/MarsAI/internal/util"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

const (
	MAX_WORKER = 3
)

func main() {
	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)
	defer logger.Sync()

	if !cfg.RabbitMQ.Enabled() {
		logger.Fatal("RABBITMQ_HOST is not set, nothing to consume")
	}

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Panic(err)
	}
	defer sqlDb.Close()
	logger.Info("Database connected \n")

	mail := mailer.NewSendgrid(cfg.Mail.SEND_GRID.API_KEY, cfg.Mail.FROM_EMAIL, cfg.IsProduction(), logger)
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger, jwtService)
	app := queue.MailConsumerContext{
		Config:     &cfg,
		Repository: repo,
		Logger:     logger,
		Mailer:     mail,
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.GetConnectionString())
	if err != nil {
		logger.Panic("Error connecting to RabbitMQ: ", err)
	}
	defer func() {
		if err := rabbitMQ.Close(); err != nil {
			logger.Errorf("Failed to close RabbitMQ connection: %v", err)
		}
	}()
	logger.Infof("Connected to RabbitMQ at %s:%s", cfg.RabbitMQ.HOST, cfg.RabbitMQ.PORT)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rabbitMQ.ConsumeMailJob(ctx, queue.HandleMailJob, MAX_WORKER, &app); err != nil {
		logger.Panicf("Failed to consume mail job: %v", err)
	}
	logger.Infof("Started consuming mail job with %d workers", MAX_WORKER)

	<-ctx.Done()
	logger.Info("Mail consumer stopped")
}
