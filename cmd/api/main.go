package main

import (
	appcontext "github.com/SeakMengs/MarsAI/internal/app_context"
	"github.com/SeakMengs/MarsAI/internal/auth"
	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/SeakMengs/MarsAI/internal/controller"
	"github.com/SeakMengs/MarsAI/internal/database"
	"github.com/SeakMengs/MarsAI/internal/env"
	filestorage "github.com/SeakMengs/MarsAI/internal/file_storage"
	"github.com/SeakMengs/MarsAI/internal/mailer"
	"github.com/SeakMengs/MarsAI/internal/middleware"
	"github.com/SeakMengs/MarsAI/internal/queue"
	ratelimiter "github.com/SeakMengs/MarsAI/internal/rate_limiter"
	"github.com/SeakMengs/MarsAI/internal/repository"
	"github.com/SeakMengs/MarsAI/internal/route"
	"github.com/SeakMengs/MarsAI/internal/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	defer logger.Sync()
	logger.Debugf("Configuration: %+v \n", cfg)

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

	var storage *filestorage.Storage
	if cfg.Minio.Enabled() {
		storage, err = filestorage.NewStorage(&cfg.Minio, logger)
		if err != nil {
			logger.Error("Error connecting to minio")
			logger.Panic(err)
		}
	} else {
		logger.Warn("Object storage is not configured, asset names are returned as stored")
	}

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidations(v); err != nil {
			logger.Panic(err)
		}
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	var mail mailer.Client = mailer.NewSendgrid(cfg.Mail.SEND_GRID.API_KEY, cfg.Mail.FROM_EMAIL, cfg.IsProduction(), logger)
	if cfg.RabbitMQ.Enabled() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.GetConnectionString())
		if err != nil {
			logger.Panic("Error connecting to RabbitMQ: ", err)
		}
		defer rabbitMQ.Close()
		logger.Info("RabbitMQ connected, mails are sent by the mail consumer \n")
		mail = queue.NewQueuedMailer(rabbitMQ, logger)
	}
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger, jwtService)
	app := appcontext.Application{
		Config:     &cfg,
		Repository: repo,
		Logger:     logger,
		Mailer:     mail,
		JWTService: jwtService,
		Storage:    storage,
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// docs: https://github.com/gin-contrib/cors?tab=readme-ov-file#using-defaultconfig-as-start-point
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept", "X-Request-Id"}
	corsConfig.ExposeHeaders = []string{"X-Request-Id", "Retry-After"}
	r.Use(cors.New(corsConfig))
	r.Use(_middleware.RequestID, _middleware.RequestLogger, _middleware.RateLimiterMiddleware)

	route.Register(r, controller.NewController(&app), _middleware)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panicf("Error running server: %v \n", err)
	}
}
