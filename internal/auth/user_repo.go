package auth

import (
	"errors"
	"strings"
	"sync"

	"parkada/internal/models"
)

// ErrUserNotFound indicates an unknown email.
var ErrUserNotFound = errors.New("auth: user not found")

// UserRepository is the in-memory demo user directory. There is no durable
// account storage in the demo deployment.
type UserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
	byID    map[string]*models.User
}

// NewUserRepository returns an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byEmail: make(map[string]*models.User),
		byID:    make(map[string]*models.User),
	}
}

// Create stores a new user.
func (r *UserRepository) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, ok := r.byEmail[email]; ok {
		return ErrEmailInUse
	}
	stored := *user
	r.byEmail[email] = &stored
	r.byID[stored.ID] = &stored
	return nil
}

// GetByEmail looks a user up by email, case-insensitively.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByID looks a user up by id.
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// demoUsers are the accounts seeded for the demo deployment.
func demoUsers() []models.User {
	return []models.User{
		{ID: "user1", Email: "john.doe@email.com", Name: "John Doe", Type: models.UserTypeRentor, JoinDate: "2024-01-15"},
		{ID: "user2", Email: "maria.santos@email.com", Name: "Maria Santos", Type: models.UserTypeRentor, JoinDate: "2024-02-01"},
		{ID: "user3", Email: "carlos.reyes@email.com", Name: "Carlos Reyes", Type: models.UserTypeBoth, JoinDate: "2024-01-20"},
		{ID: "user4", Email: "ana.cruz@email.com", Name: "Ana Cruz", Type: models.UserTypeRenter, JoinDate: "2024-02-10"},
	}
}
