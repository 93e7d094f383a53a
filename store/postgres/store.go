package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"sportsevents/models"
	"sportsevents/store"
)

// uniqueViolation is the SQLSTATE postgres raises for a duplicate key.
const uniqueViolation = "23505"

// Store is the gorm-backed implementation of store.Store.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the tables and their unique indexes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Registration{},
	)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Game operations

func (s *Store) ListGames(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&games).Error; err != nil {
		return nil, translate(err)
	}
	return games, nil
}

func (s *Store) GetGame(ctx context.Context, id uint) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).First(&game, id).Error; err != nil {
		return nil, translate(err)
	}
	return &game, nil
}

func (s *Store) GetGameByName(ctx context.Context, name string) (*models.Game, error) {
	var game models.Game
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&game).Error; err != nil {
		return nil, translate(err)
	}
	return &game, nil
}

func (s *Store) CreateGame(ctx context.Context, game *models.Game) error {
	return translate(s.db.WithContext(ctx).Create(game).Error)
}

// SaveGame writes every column of an existing game. Concurrent saves are
// last-write-wins; saving a game that has since been deleted returns
// ErrNotFound rather than recreating the row.
func (s *Store) SaveGame(ctx context.Context, game *models.Game) error {
	result := s.db.WithContext(ctx).Model(game).Select("*").Omit("created_at").Updates(game)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteGame(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Game{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Registration operations

func (s *Store) GetRegistration(ctx context.Context, id uint) (*models.Registration, error) {
	var reg models.Registration
	if err := s.db.WithContext(ctx).First(&reg, id).Error; err != nil {
		return nil, translate(err)
	}
	return &reg, nil
}

func (s *Store) FindRegistration(ctx context.Context, studentID, gameID uint) (*models.Registration, error) {
	var reg models.Registration
	if err := s.db.WithContext(ctx).
		Where("student_id = ? AND game_id = ?", studentID, gameID).
		First(&reg).Error; err != nil {
		return nil, translate(err)
	}
	return &reg, nil
}

func (s *Store) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	// Omit the associations so gorm never upserts the joined game or student.
	return translate(s.db.WithContext(ctx).Omit("Student", "Game").Create(reg).Error)
}

func (s *Store) DeleteRegistration(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Registration{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListRegistrationsByStudent(ctx context.Context, studentID uint) ([]models.Registration, error) {
	var regs []models.Registration
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Game").
		Order("registered_at DESC, id DESC").
		Find(&regs).Error
	if err != nil {
		return nil, translate(err)
	}
	return regs, nil
}

func (s *Store) ListRegistrations(ctx context.Context, gameID *uint) ([]models.Registration, error) {
	query := s.db.WithContext(ctx).Model(&models.Registration{})
	if gameID != nil {
		query = query.Where("game_id = ?", *gameID)
	}

	var regs []models.Registration
	err := query.
		Preload("Student").
		Preload("Game").
		Order("registered_at DESC, id DESC").
		Find(&regs).Error
	if err != nil {
		return nil, translate(err)
	}
	return regs, nil
}

// User operations

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return translate(s.db.WithContext(ctx).Create(user).Error)
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetUserByRollNumber(ctx context.Context, roll string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("roll_number = ?", roll).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// translate maps driver and gorm errors onto the store sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}

// isUniqueViolation covers both the gorm-translated error and a raw pgconn
// error for sessions opened without TranslateError.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
