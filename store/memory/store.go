package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sportsevents/models"
	"sportsevents/store"
)

type pairKey struct {
	studentID uint
	gameID    uint
}

// Store is an in-memory implementation of store.Store. It enforces the same
// unique indexes as the postgres schema.
type Store struct {
	mu sync.RWMutex

	games      map[uint]models.Game
	gameByName map[string]uint
	nextGameID uint

	registrations map[uint]models.Registration
	regByPair     map[pairKey]uint
	nextRegID     uint

	users      map[uint]models.User
	userByMail map[string]uint
	userByRoll map[string]uint
	nextUserID uint

	now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		games:         make(map[uint]models.Game),
		gameByName:    make(map[string]uint),
		registrations: make(map[uint]models.Registration),
		regByPair:     make(map[pairKey]uint),
		users:         make(map[uint]models.User),
		userByMail:    make(map[string]uint),
		userByRoll:    make(map[string]uint),
		now:           time.Now,
	}
}

func (s *Store) Close() error { return nil }

// Game operations

func (s *Store) ListGames(_ context.Context) ([]models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]models.Game, 0, len(s.games))
	for _, g := range s.games {
		games = append(games, g)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Name < games[j].Name })
	return games, nil
}

func (s *Store) GetGame(_ context.Context, id uint) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &g, nil
}

func (s *Store) GetGameByName(_ context.Context, name string) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.gameByName[name]
	if !ok {
		return nil, store.ErrNotFound
	}
	g := s.games[id]
	return &g, nil
}

func (s *Store) CreateGame(_ context.Context, game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.gameByName[game.Name]; taken {
		return store.ErrDuplicate
	}

	s.nextGameID++
	now := s.now()
	game.ID = s.nextGameID
	game.CreatedAt = now
	game.UpdatedAt = now

	s.games[game.ID] = *game
	s.gameByName[game.Name] = game.ID
	return nil
}

func (s *Store) SaveGame(_ context.Context, game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.games[game.ID]
	if !ok {
		return store.ErrNotFound
	}
	if owner, taken := s.gameByName[game.Name]; taken && owner != game.ID {
		return store.ErrDuplicate
	}

	game.CreatedAt = existing.CreatedAt
	game.UpdatedAt = s.now()

	delete(s.gameByName, existing.Name)
	s.games[game.ID] = *game
	s.gameByName[game.Name] = game.ID
	return nil
}

func (s *Store) DeleteGame(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.games, id)
	delete(s.gameByName, g.Name)
	return nil
}

// Registration operations

func (s *Store) GetRegistration(_ context.Context, id uint) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	reg, ok := s.registrations[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &reg, nil
}

func (s *Store) FindRegistration(_ context.Context, studentID, gameID uint) (*models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.regByPair[pairKey{studentID, gameID}]
	if !ok {
		return nil, store.ErrNotFound
	}
	reg := s.registrations[id]
	return &reg, nil
}

func (s *Store) CreateRegistration(_ context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{reg.StudentID, reg.GameID}
	if _, taken := s.regByPair[key]; taken {
		return store.ErrDuplicate
	}

	s.nextRegID++
	now := s.now()
	reg.ID = s.nextRegID
	reg.CreatedAt = now
	reg.UpdatedAt = now

	stored := *reg
	stored.Student = nil
	stored.Game = nil
	s.registrations[reg.ID] = stored
	s.regByPair[key] = reg.ID
	return nil
}

func (s *Store) DeleteRegistration(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.registrations, id)
	delete(s.regByPair, pairKey{reg.StudentID, reg.GameID})
	return nil
}

func (s *Store) ListRegistrationsByStudent(_ context.Context, studentID uint) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regs := make([]models.Registration, 0)
	for _, reg := range s.registrations {
		if reg.StudentID != studentID {
			continue
		}
		reg.Game = s.gameRef(reg.GameID)
		regs = append(regs, reg)
	}
	sortNewestFirst(regs)
	return regs, nil
}

func (s *Store) ListRegistrations(_ context.Context, gameID *uint) ([]models.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	regs := make([]models.Registration, 0)
	for _, reg := range s.registrations {
		if gameID != nil && reg.GameID != *gameID {
			continue
		}
		reg.Game = s.gameRef(reg.GameID)
		reg.Student = s.userRef(reg.StudentID)
		regs = append(regs, reg)
	}
	sortNewestFirst(regs)
	return regs, nil
}

// gameRef returns a copy of the current game row, or nil when it is gone.
func (s *Store) gameRef(id uint) *models.Game {
	g, ok := s.games[id]
	if !ok {
		return nil
	}
	return &g
}

func (s *Store) userRef(id uint) *models.User {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	return &u
}

func sortNewestFirst(regs []models.Registration) {
	sort.Slice(regs, func(i, j int) bool {
		if !regs[i].RegisteredAt.Equal(regs[j].RegisteredAt) {
			return regs[i].RegisteredAt.After(regs[j].RegisteredAt)
		}
		return regs[i].ID > regs[j].ID
	})
}

// User operations

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.userByMail[user.Email]; taken {
		return store.ErrDuplicate
	}
	if _, taken := s.userByRoll[user.RollNumber]; taken {
		return store.ErrDuplicate
	}

	s.nextUserID++
	now := s.now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = *user
	s.userByMail[user.Email] = user.ID
	s.userByRoll[user.RollNumber] = user.ID
	return nil
}

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByMail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) GetUserByRollNumber(_ context.Context, roll string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByRoll[roll]
	if !ok {
		return nil, store.ErrNotFound
	}
	u := s.users[id]
	return &u, nil
}
