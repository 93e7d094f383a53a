package store

import (
	"context"
	"errors"

	"sportsevents/models"
)

var (
	// ErrNotFound is returned when a lookup or delete matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("unique constraint violation")
)

// GameStore persists the game catalog.
type GameStore interface {
	ListGames(ctx context.Context) ([]models.Game, error)
	GetGame(ctx context.Context, id uint) (*models.Game, error)
	GetGameByName(ctx context.Context, name string) (*models.Game, error)
	CreateGame(ctx context.Context, game *models.Game) error
	SaveGame(ctx context.Context, game *models.Game) error
	DeleteGame(ctx context.Context, id uint) error
}

// RegistrationStore persists the registration ledger. CreateRegistration must
// return ErrDuplicate when the (student, game) pair already exists.
type RegistrationStore interface {
	GetRegistration(ctx context.Context, id uint) (*models.Registration, error)
	FindRegistration(ctx context.Context, studentID, gameID uint) (*models.Registration, error)
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	DeleteRegistration(ctx context.Context, id uint) error

	// ListRegistrationsByStudent joins the current Game, newest first.
	ListRegistrationsByStudent(ctx context.Context, studentID uint) ([]models.Registration, error)
	// ListRegistrations joins the current Student and Game, newest first,
	// restricted to gameID when it is non-nil.
	ListRegistrations(ctx context.Context, gameID *uint) ([]models.Registration, error)
}

// UserStore persists accounts. Callers pass already normalized roll numbers
// and emails.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByRollNumber(ctx context.Context, roll string) (*models.User, error)
}

// Store is the full persistence surface used by the services.
type Store interface {
	GameStore
	RegistrationStore
	UserStore
	Close() error
}
