// Package auth manages user accounts: credential checks, account CRUD, and
// the edit-window policy on entry modification.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akshathkarthikn/footfall-tracker/internal/models"
	"github.com/akshathkarthikn/footfall-tracker/internal/security"
	"github.com/akshathkarthikn/footfall-tracker/internal/settings"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for a bad username/password pair and
// for inactive accounts, without distinguishing the two.
var ErrInvalidCredentials = errors.New("auth: invalid credentials")

// Service manages accounts and session policy.
type Service struct {
	db       *gorm.DB
	settings *settings.Store
}

// NewService constructs an auth service.
func NewService(db *gorm.DB, store *settings.Store) *Service {
	return &Service{db: db, settings: store}
}

// Authenticate verifies a username/password pair against active accounts
// and touches last_login on success. Unknown users, wrong passwords, and
// inactive accounts all come back as ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	var user models.User
	errFind := s.db.WithContext(ctx).Where("username = ? AND active = ?", username, true).First(&user).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth: find user: %w", errFind)
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if errUpdate := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).
		Update("last_login", now).Error; errUpdate != nil {
		return nil, fmt.Errorf("auth: touch last login: %w", errUpdate)
	}
	user.LastLogin = &now
	return &user, nil
}

// GetUser returns the user with the given ID, or nil when absent.
func (s *Service) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	errFind := s.db.WithContext(ctx).First(&user, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("auth: get user: %w", errFind)
	}
	return &user, nil
}

// ListUsers returns all accounts ordered by username.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if errFind := s.db.WithContext(ctx).Order("username ASC").Find(&users).Error; errFind != nil {
		return nil, fmt.Errorf("auth: list users: %w", errFind)
	}
	return users, nil
}

// CreateUser creates an account with a bcrypt-hashed password. The username
// must not already exist.
func (s *Service) CreateUser(ctx context.Context, username, password, role, fullName string) (*models.User, error) {
	if role != models.RoleEntry && role != models.RoleAdmin {
		return nil, fmt.Errorf("auth: unknown role %q", role)
	}

	var count int64
	if errCount := s.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).
		Count(&count).Error; errCount != nil {
		return nil, fmt.Errorf("auth: check username: %w", errCount)
	}
	if count > 0 {
		return nil, fmt.Errorf("auth: username %q already exists", username)
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return nil, errHash
	}
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FullName:     fullName,
		Active:       true,
	}
	if errCreate := s.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		return nil, fmt.Errorf("auth: create user: %w", errCreate)
	}
	return &user, nil
}

// ChangePassword replaces a user's password hash.
func (s *Service) ChangePassword(ctx context.Context, userID uint64, newPassword string) error {
	hash, errHash := security.HashPassword(newPassword)
	if errHash != nil {
		return errHash
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("password_hash", hash)
	if res.Error != nil {
		return fmt.Errorf("auth: change password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("auth: user %d not found", userID)
	}
	return nil
}

// SetActive enables or disables an account.
func (s *Service) SetActive(ctx context.Context, userID uint64, active bool) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("auth: set active: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("auth: user %d not found", userID)
	}
	return nil
}

// CanEditEntry reports whether a user may modify an existing entry. Admins
// always may; entry users only within the configured edit window after the
// entry was last written.
func (s *Service) CanEditEntry(ctx context.Context, user *models.User, enteredAt time.Time) (bool, error) {
	if user.IsAdmin() {
		return true, nil
	}
	window, err := s.settings.EditWindow(ctx)
	if err != nil {
		return false, err
	}
	return time.Since(enteredAt) <= window, nil
}
