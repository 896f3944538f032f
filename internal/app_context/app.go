package appcontext

import (
	"github.com/SeakMengs/MarsAI/internal/auth"
	"github.com/SeakMengs/MarsAI/internal/config"
	filestorage "github.com/SeakMengs/MarsAI/internal/file_storage"
	"github.com/SeakMengs/MarsAI/internal/mailer"
	"github.com/SeakMengs/MarsAI/internal/repository"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	// Logger lol....
	Logger *zap.SugaredLogger

	// Repository provides access to data storage operations.
	Repository *repository.Repository

	// Mailer handles email-sending functions.
	Mailer mailer.Client

	// JWTService manages JWT operations for authentication such as generate, verify, refresh token.
	JWTService auth.JWTInterface

	// Storage presigns stored movie assets. Nil when object storage is not configured.
	Storage *filestorage.Storage
}
