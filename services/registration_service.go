package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"sportsevents/models"
	"sportsevents/store"
)

// RegistrationService is the registration ledger. It validates eligibility
// against the current catalog row and relies on the (student, game) unique
// index to settle concurrent attempts for the same pair.
type RegistrationService struct {
	games         store.GameStore
	registrations store.RegistrationStore
	publisher     Publisher
	logger        *slog.Logger
	now           func() time.Time
}

func NewRegistrationService(
	games store.GameStore,
	registrations store.RegistrationStore,
	publisher Publisher,
	logger *slog.Logger,
	now func() time.Time,
) *RegistrationService {
	if now == nil {
		now = time.Now
	}
	return &RegistrationService{
		games:         games,
		registrations: registrations,
		publisher:     publisherOrNop(publisher),
		logger:        logger,
		now:           now,
	}
}

type RegisterRequest struct {
	GameID uint `json:"gameId" binding:"required"`
}

// RegistrationFilter narrows ListAll. GameID is applied in the store query,
// Search afterwards over the joined rows.
type RegistrationFilter struct {
	GameID *uint
	Search string
}

// Register creates a registration for studentID. The returned record carries
// the game as it was read for the eligibility check.
func (s *RegistrationService) Register(ctx context.Context, studentID, gameID uint) (*models.Registration, error) {
	if gameID == 0 {
		return nil, models.NewValidationError("gameId", "Game ID is required")
	}

	game, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.ErrGameNotFound
		}
		return nil, fmt.Errorf("load game %d: %w", gameID, err)
	}

	if err := game.AcceptsRegistrations(); err != nil {
		return nil, err
	}

	_, err = s.registrations.FindRegistration(ctx, studentID, gameID)
	switch {
	case err == nil:
		return nil, models.ErrAlreadyRegistered
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("check existing registration: %w", err)
	}

	reg := &models.Registration{
		StudentID:    studentID,
		GameID:       gameID,
		RegisteredAt: s.now(),
	}
	if err := s.registrations.CreateRegistration(ctx, reg); err != nil {
		// A concurrent request for the same pair won the insert.
		if errors.Is(err, store.ErrDuplicate) {
			return nil, models.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	reg.Game = game

	s.publisher.Publish(EventRegistrationCreated, reg)
	s.logger.Info("student registered",
		slog.Uint64("registration_id", uint64(reg.ID)),
		slog.Uint64("student_id", uint64(studentID)),
		slog.Uint64("game_id", uint64(gameID)),
	)
	return reg, nil
}

// Unregister deletes a registration owned by the caller, or any registration
// when the caller is an admin. Deleting the same id twice yields NotFound.
func (s *RegistrationService) Unregister(ctx context.Context, caller *Principal, registrationID uint) error {
	reg, err := s.registrations.GetRegistration(ctx, registrationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ErrRegistrationNotFound
		}
		return fmt.Errorf("load registration %d: %w", registrationID, err)
	}

	if err := Authorize(caller, OpUnregister, reg.StudentID); err != nil {
		return err
	}

	if err := s.registrations.DeleteRegistration(ctx, registrationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ErrRegistrationNotFound
		}
		return fmt.Errorf("delete registration %d: %w", registrationID, err)
	}

	s.publisher.Publish(EventRegistrationDeleted, map[string]uint{
		"id":        reg.ID,
		"studentId": reg.StudentID,
		"gameId":    reg.GameID,
	})
	return nil
}

// ListMine returns the student's registrations joined with the current game
// rows, newest first.
func (s *RegistrationService) ListMine(ctx context.Context, studentID uint) ([]models.Registration, error) {
	regs, err := s.registrations.ListRegistrationsByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list registrations for student %d: %w", studentID, err)
	}
	return regs, nil
}

// ListAll returns every registration joined with student and game, newest
// first. Callers are expected to have passed the admin gate.
func (s *RegistrationService) ListAll(ctx context.Context, filter RegistrationFilter) ([]models.Registration, error) {
	regs, err := s.registrations.ListRegistrations(ctx, filter.GameID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	if filter.Search == "" {
		return regs, nil
	}

	term := strings.ToLower(filter.Search)
	matched := make([]models.Registration, 0, len(regs))
	for _, reg := range regs {
		if matchesSearch(&reg, term) {
			matched = append(matched, reg)
		}
	}
	return matched, nil
}

// matchesSearch ORs a substring test over student name, roll number, email
// and game name. Missing joined rows contribute nothing.
func matchesSearch(reg *models.Registration, term string) bool {
	var fields []string
	if reg.Student != nil {
		fields = append(fields, reg.Student.Name, reg.Student.RollNumber, reg.Student.Email)
	}
	if reg.Game != nil {
		fields = append(fields, reg.Game.Name)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
