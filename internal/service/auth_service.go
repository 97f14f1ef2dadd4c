package service

import (
	"context"
	"errors"

	"go-warehouse-inventory/internal/model"
	"go-warehouse-inventory/internal/repository"
	"go-warehouse-inventory/pkg/jwt"
	"go-warehouse-inventory/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type UserResponse struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

type LoginResponse struct {
	Token      string       `json:"token"`
	User       UserResponse `json:"user"`
	Privileges []string     `json:"privileges"` // Flat privileges array for easy checking
}

type TokenValidationResponse struct {
	User       UserResponse `json:"user"`
	Privileges []string     `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		log:      logger.OrNop(log).Named("auth"),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		s.log.Info("login failed", zap.String("email", user.Email))
		return nil, ErrInvalidCredentials
	}

	// 4. Single session: rotate the token version
	version := uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, version); err != nil {
		return nil, errors.New("failed to update session")
	}

	// 5. Generate JWT token with TokenVersion
	privileges := user.Privileges()
	token, err := jwt.GenerateToken(user.ID, user.Email, user.FullName, user.Role, privileges, version)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	s.log.Info("user logged in", zap.String("email", user.Email), zap.String("role", user.Role))
	return &LoginResponse{
		Token:      token,
		User:       toUserResponse(user),
		Privileges: privileges,
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	// 1. Validate JWT token
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	// 2. Find user by ID from token claims
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	// 3. Check if user is still active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 4. Strict session check
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	return &TokenValidationResponse{
		User:       toUserResponse(user),
		Privileges: user.Privileges(),
	}, nil
}

// EnsureAdmin creates the ADMIN account on first start. An existing account
// is left untouched.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		return err
	}
	if err := s.userRepo.Create(admin); err != nil {
		return err
	}
	s.log.Info("admin account created", zap.String("email", admin.Email))
	return nil
}
