package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"sportsevents/models"
	"sportsevents/store"
)

const minPasswordLength = 6

type AuthService struct {
	users     store.UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthService(users store.UserStore, jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// SignupRequest is bound at the HTTP boundary by its binding tags. CreateUser
// re-checks the trimmed values so the CLI path gets the same rules.
type SignupRequest struct {
	Name       string `json:"name" binding:"required"`
	RollNumber string `json:"rollNumber" binding:"required"`
	Course     string `json:"course" binding:"required"`
	Year       string `json:"year" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
}

// Signup creates a student account and returns a token for it.
func (s *AuthService) Signup(ctx context.Context, req *SignupRequest) (*AuthResponse, error) {
	user, err := s.CreateUser(ctx, req, models.RoleStudent)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// CreateUser validates, normalizes and stores a new account with role.
func (s *AuthService) CreateUser(ctx context.Context, req *SignupRequest, role models.Role) (*models.User, error) {
	user := &models.User{
		Name:       strings.TrimSpace(req.Name),
		RollNumber: models.NormalizeRollNumber(req.RollNumber),
		Course:     strings.TrimSpace(req.Course),
		Year:       strings.TrimSpace(req.Year),
		Email:      models.NormalizeEmail(req.Email),
		Role:       role,
	}
	if err := validateSignup(user, req.Password); err != nil {
		return nil, err
	}

	if err := s.ensureIdentityFree(ctx, user.Email, user.RollNumber); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, models.ErrDuplicateUser
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("account created", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", string(role)))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, models.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

// GetUserByRollNumber looks a user up by roll number in any letter case.
func (s *AuthService) GetUserByRollNumber(ctx context.Context, roll string) (*models.User, error) {
	user, err := s.users.GetUserByRollNumber(ctx, models.NormalizeRollNumber(roll))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup roll number: %w", err)
	}
	return user, nil
}

// ParseToken verifies a bearer token and returns the caller it names.
func (s *AuthService) ParseToken(tokenString string) (*Principal, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthenticated
	}
	if claims.UserID == 0 || (claims.Role != models.RoleStudent && claims.Role != models.RoleAdmin) {
		return nil, models.ErrUnauthenticated
	}
	return &Principal{UserID: claims.UserID, Role: claims.Role}, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResponse, error) {
	now := s.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
		UserID: user.ID,
		Role:   user.Role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResponse{Token: signed, User: user}, nil
}

func (s *AuthService) ensureIdentityFree(ctx context.Context, email, roll string) error {
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return models.ErrDuplicateUser
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("lookup email: %w", err)
	}

	if _, err := s.users.GetUserByRollNumber(ctx, roll); err == nil {
		return models.ErrDuplicateUser
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("lookup roll number: %w", err)
	}
	return nil
}

func validateSignup(user *models.User, password string) error {
	switch {
	case user.Name == "":
		return models.NewValidationError("name", "Name is required")
	case user.RollNumber == "":
		return models.NewValidationError("rollNumber", "Roll number is required")
	case user.Course == "":
		return models.NewValidationError("course", "Course is required")
	case user.Year == "":
		return models.NewValidationError("year", "Year is required")
	case user.Email == "" || !strings.Contains(user.Email, "@"):
		return models.NewValidationError("email", "A valid email is required")
	case len(password) < minPasswordLength:
		return models.NewValidationError("password", "Password must be at least 6 characters")
	}
	return nil
}
