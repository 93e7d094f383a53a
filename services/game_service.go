package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"sportsevents/models"
	"sportsevents/store"
)

// GameService manages the game catalog. Writes are last-write-wins: there is
// no version column, so two admins saving the same game both succeed and the
// later save is what remains.
type GameService struct {
	games     store.GameStore
	cache     CatalogCache
	publisher Publisher
	logger    *slog.Logger

	// cacheMu orders cache fills against invalidations. generation counts
	// catalog writes made through this service.
	cacheMu    sync.Mutex
	generation uint64
}

func NewGameService(games store.GameStore, cache CatalogCache, publisher Publisher, logger *slog.Logger) *GameService {
	return &GameService{
		games:     games,
		cache:     cache,
		publisher: publisherOrNop(publisher),
		logger:    logger,
	}
}

type CreateGameRequest struct {
	Name             string          `json:"name" binding:"required"`
	Description      string          `json:"description"`
	RegistrationOpen *bool           `json:"registrationOpen"`
	GameType         models.GameType `json:"gameType" binding:"omitempty,oneof=registrable display-only"`
}

// UpdateGameRequest uses a pointer per field: nil means "leave unchanged",
// so an explicit false for RegistrationOpen still applies.
type UpdateGameRequest struct {
	Name             *string          `json:"name"`
	Description      *string          `json:"description"`
	RegistrationOpen *bool            `json:"registrationOpen"`
	GameType         *models.GameType `json:"gameType" binding:"omitempty,oneof=registrable display-only"`
}

// List returns the catalog ordered by name.
func (s *GameService) List(ctx context.Context) ([]models.Game, error) {
	if s.cache == nil {
		return s.listFromStore(ctx)
	}
	if games, ok := s.cache.GetGames(ctx); ok {
		return games, nil
	}

	s.cacheMu.Lock()
	seen := s.generation
	s.cacheMu.Unlock()

	games, err := s.listFromStore(ctx)
	if err != nil {
		return nil, err
	}

	// A write that committed while the store was being read has already
	// invalidated; filling now would pin the list it replaced.
	s.cacheMu.Lock()
	if s.generation == seen {
		s.cache.SetGames(ctx, games)
	}
	s.cacheMu.Unlock()
	return games, nil
}

func (s *GameService) listFromStore(ctx context.Context) ([]models.Game, error) {
	games, err := s.games.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

func (s *GameService) Get(ctx context.Context, id uint) (*models.Game, error) {
	game, err := s.games.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.ErrGameNotFound
		}
		return nil, fmt.Errorf("get game %d: %w", id, err)
	}
	return game, nil
}

func (s *GameService) Create(ctx context.Context, req *CreateGameRequest) (*models.Game, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, models.NewValidationError("name", "Game name is required")
	}

	gameType := req.GameType
	if gameType == "" {
		gameType = models.GameTypeRegistrable
	}
	if !gameType.Valid() {
		return nil, models.NewValidationError("gameType", "Invalid game type")
	}

	registrationOpen := true
	if req.RegistrationOpen != nil {
		registrationOpen = *req.RegistrationOpen
	}

	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	game := &models.Game{
		Name:             name,
		Description:      req.Description,
		RegistrationOpen: registrationOpen,
		GameType:         gameType,
	}
	if err := s.games.CreateGame(ctx, game); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, models.ErrDuplicateGameName
		}
		return nil, fmt.Errorf("create game: %w", err)
	}

	s.afterWrite(ctx, EventGameCreated, game)
	s.logger.Info("game created", slog.Uint64("game_id", uint64(game.ID)), slog.String("name", game.Name))
	return game, nil
}

// Update applies only the fields present in req.
func (s *GameService) Update(ctx context.Context, id uint, req *UpdateGameRequest) (*models.Game, error) {
	game, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, models.NewValidationError("name", "Game name cannot be empty")
		}
		if name != game.Name {
			if err := s.ensureNameFree(ctx, name, game.ID); err != nil {
				return nil, err
			}
			game.Name = name
		}
	}
	if req.GameType != nil {
		if !req.GameType.Valid() {
			return nil, models.NewValidationError("gameType", "Invalid game type")
		}
		game.GameType = *req.GameType
	}
	if req.Description != nil {
		game.Description = *req.Description
	}
	if req.RegistrationOpen != nil {
		game.RegistrationOpen = *req.RegistrationOpen
	}

	if err := s.games.SaveGame(ctx, game); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			return nil, models.ErrDuplicateGameName
		case errors.Is(err, store.ErrNotFound):
			return nil, models.ErrGameNotFound
		}
		return nil, fmt.Errorf("update game %d: %w", id, err)
	}

	s.afterWrite(ctx, EventGameUpdated, game)
	return game, nil
}

// Delete removes the catalog row only. Registrations referencing the game are
// left in place and surface with a null game.
func (s *GameService) Delete(ctx context.Context, id uint) error {
	if err := s.games.DeleteGame(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.ErrGameNotFound
		}
		return fmt.Errorf("delete game %d: %w", id, err)
	}

	s.afterWrite(ctx, EventGameDeleted, map[string]uint{"id": id})
	s.logger.Info("game deleted", slog.Uint64("game_id", uint64(id)))
	return nil
}

// ensureNameFree is the fast-path duplicate check; the unique index on name is
// still the final guard.
func (s *GameService) ensureNameFree(ctx context.Context, name string, selfID uint) error {
	existing, err := s.games.GetGameByName(ctx, name)
	switch {
	case err == nil:
		if existing.ID != selfID {
			return models.ErrDuplicateGameName
		}
		return nil
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("lookup game name: %w", err)
	}
}

func (s *GameService) afterWrite(ctx context.Context, eventType string, payload interface{}) {
	if s.cache != nil {
		s.cacheMu.Lock()
		s.generation++
		s.cache.Invalidate(ctx)
		s.cacheMu.Unlock()
	}
	s.publisher.Publish(eventType, payload)
}
