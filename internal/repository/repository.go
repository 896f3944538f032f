package repository

import (
	"github.com/SeakMengs/MarsAI/internal/auth"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type baseRepository struct {
	db         *gorm.DB
	logger     *zap.SugaredLogger
	jwtService auth.JWTInterface
}

type Repository struct {
	// DB can be used for transaction. Example usage:
	// tx := r.DB.Begin()
	// defer tx.Commit()
	// Then pass tx to the repository function. and use tx.Rollback() if error occurred
	DB            *gorm.DB
	User          *UserRepository
	JWT           *JWTRepository
	OAuthProvider *OAuthProviderRepository
	Category      *CategoryRepository
	Collaborator  *CollaboratorRepository
	Movie         *MovieRepository
	Assignment    *AssignmentRepository
	Vote          *VoteRepository
	Award         *AwardRepository
	Dashboard     *DashboardRepository
	Event         *EventRepository
	Reservation   *ReservationRepository
}

func newBaseRepository(db *gorm.DB, logger *zap.SugaredLogger, jwtService auth.JWTInterface) *baseRepository {
	return &baseRepository{db: db, logger: logger, jwtService: jwtService}
}

func NewRepository(db *gorm.DB, logger *zap.SugaredLogger, jwtService auth.JWTInterface) *Repository {
	br := newBaseRepository(db, logger, jwtService)
	_userRepo := &UserRepository{baseRepository: br}
	_collaboratorRepo := &CollaboratorRepository{baseRepository: br}
	_assignmentRepo := &AssignmentRepository{baseRepository: br, collaborator: _collaboratorRepo}
	_movieRepo := &MovieRepository{baseRepository: br, assignment: _assignmentRepo}

	return &Repository{
		DB:            db,
		User:          _userRepo,
		JWT:           &JWTRepository{baseRepository: br, user: _userRepo},
		OAuthProvider: &OAuthProviderRepository{baseRepository: br},
		Category:      &CategoryRepository{baseRepository: br},
		Collaborator:  _collaboratorRepo,
		Movie:         _movieRepo,
		Assignment:    _assignmentRepo,
		Vote:          &VoteRepository{baseRepository: br, movie: _movieRepo},
		Award:         &AwardRepository{baseRepository: br},
		Dashboard:     &DashboardRepository{baseRepository: br, movie: _movieRepo},
		Event:         &EventRepository{baseRepository: br},
		Reservation:   &ReservationRepository{baseRepository: br},
	}
}

// Runs fn inside a transaction. When db is already a transaction gorm opens a savepoint.
// Docs: https://gorm.io/docs/transactions.html
func (b baseRepository) withTx(db *gorm.DB, fn func(*gorm.DB) error) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})

	if err != nil {
		b.logger.Debugf("withTx Transaction error: %v", err)
	}

	return err
}

func (b baseRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}

	return b.db
}
