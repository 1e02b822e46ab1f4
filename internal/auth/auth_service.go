package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"parkada/internal/auth/password"
	"parkada/internal/models"
)

var (
	// ErrEmailInUse is returned when attempting to register duplicate email.
	ErrEmailInUse = errors.New("auth: email already registered")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// AuthService contains registration/login logic over the demo user
// directory.
type AuthService struct {
	repo      *UserRepository
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService and seeds the demo accounts, all
// sharing the given demo password.
func NewAuthService(repo *UserRepository, hasher password.Hasher, tokenizer *TokenService, demoPassword string, logger *zap.Logger) (*AuthService, error) {
	s := &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}

	hash, err := hasher.Hash(demoPassword)
	if err != nil {
		return nil, err
	}
	for _, user := range demoUsers() {
		user.PasswordHash = hash
		if err := repo.Create(&user); err != nil && !errors.Is(err, ErrEmailInUse) {
			return nil, err
		}
	}
	return s, nil
}

// Signup registers a new user and returns it with a fresh token.
func (s *AuthService) Signup(email, plainPassword, name, userType string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", errors.New("auth: email required")
	}
	if plainPassword == "" {
		return nil, "", errors.New("auth: password required")
	}
	if name == "" {
		return nil, "", errors.New("auth: name required")
	}
	switch userType {
	case models.UserTypeRenter, models.UserTypeRentor, models.UserTypeBoth:
	default:
		userType = models.UserTypeRenter
	}

	if _, err := s.repo.GetByEmail(email); err == nil {
		return nil, "", ErrEmailInUse
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           fmt.Sprintf("user_%d", time.Now().UnixMilli()),
		Email:        email,
		Name:         name,
		Type:         userType,
		JoinDate:     time.Now().UTC().Format("2006-01-02"),
		PasswordHash: hash,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.tokenizer.GenerateToken(user.ID, user.Name, user.Email, user.Type)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user, token, nil
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(email, plainPassword string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plainPassword == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, plainPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user.ID, user.Name, user.Email, user.Type)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}
