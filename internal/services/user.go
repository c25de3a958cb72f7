package services

import (
	"context"
	"errors"
	"strings"

	"github.com/teamkasa/teamkasa/internal/models"
	"github.com/teamkasa/teamkasa/internal/utils"
	"github.com/teamkasa/teamkasa/pkg/response"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"surname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register creates a new user with a bcrypt-hashed password.
// A duplicate email yields a conflict; the plaintext password is never stored.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, response.NewServerError("failed to check email: " + err.Error())
	}
	if count > 0 {
		return nil, response.NewConflict("email already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, response.NewServerError("failed to hash password: " + err.Error())
	}

	user := models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// Backstop for the unique index when a concurrent register slips
		// past the count check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("email already registered")
		}
		return nil, response.NewServerError("failed to create user: " + err.Error())
	}

	return &user, nil
}

// Login authenticates by email and password. A missing user and a wrong
// password produce the same error so callers cannot tell which one failed.
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid email or password")
		}
		return nil, response.NewServerError("failed to look up user: " + err.Error())
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, response.NewUnauthorized("invalid email or password")
	}

	return &user, nil
}

// GetByID returns a single user.
func (s *UserService) GetByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, response.NewServerError("failed to load user: " + err.Error())
	}
	return &user, nil
}

// UpdateProfile replaces name, surname, email and password. The password is
// re-hashed unconditionally; there is no leave-unchanged path.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) (*models.User, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, response.NewServerError("failed to hash password: " + err.Error())
	}

	updates := map[string]interface{}{
		"name":          req.Name,
		"surname":       req.Surname,
		"email":         strings.ToLower(strings.TrimSpace(req.Email)),
		"password_hash": hash,
	}

	return s.applyUpdate(ctx, userID, updates)
}

// UpdateDarkmode flips the display preference.
func (s *UserService) UpdateDarkmode(ctx context.Context, userID string, darkmode bool) (*models.User, error) {
	return s.applyUpdate(ctx, userID, map[string]interface{}{"darkmode": darkmode})
}

// UpdateLanguage sets the preferred language code.
func (s *UserService) UpdateLanguage(ctx context.Context, userID, language string) (*models.User, error) {
	return s.applyUpdate(ctx, userID, map[string]interface{}{"language": language})
}

// UpdateLastTeam remembers the team the user last worked in.
func (s *UserService) UpdateLastTeam(ctx context.Context, userID, teamID string) (*models.User, error) {
	return s.applyUpdate(ctx, userID, map[string]interface{}{"last_team_id": teamID})
}

func (s *UserService) applyUpdate(ctx context.Context, userID string, updates map[string]interface{}) (*models.User, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return nil, response.NewServerError("failed to update user: " + result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return nil, response.NewNotFound("user not found")
	}

	return s.GetByID(ctx, userID)
}

// Delete removes a user. Memberships, invitations and ledger rows the user
// appears in go by cascade. Deleting a missing user reports not found
// instead of succeeding silently.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	result := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", userID)
	if result.Error != nil {
		return response.NewServerError("failed to delete user: " + result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("user not found")
	}
	return nil
}

// ListIDs returns every registered user id. Consumed by the headcount job.
func (s *UserService) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.User{}).Pluck("id", &ids).Error; err != nil {
		return nil, response.NewServerError("failed to list users: " + err.Error())
	}
	return ids, nil
}
