package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pfes/joborder-api/internal/auth"
	"github.com/pfes/joborder-api/internal/domain"
	"github.com/pfes/joborder-api/internal/mapper"
	"github.com/pfes/joborder-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService signs users in and manages accounts
type AuthService struct {
	userRepo   *repository.UserRepository
	tokens     *auth.TokenManager
	audit      *AuditLogService
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

// NewAuthService creates a new auth service; audit may be nil
func NewAuthService(
	userRepo *repository.UserRepository,
	tokens *auth.TokenManager,
	audit *AuditLogService,
	logger *zap.Logger,
	bcryptCost int,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		audit:      audit,
		logger:     logger,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Info("failed sign-in attempt", zap.String("email", user.Email))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	userCtx := &auth.UserContext{
		UserID:   user.ID,
		Name:     user.Name,
		Email:    user.Email,
		UserType: user.UserType,
	}
	token, expiresAt, err := s.tokens.Issue(userCtx)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn("failed to record last login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	if s.audit != nil {
		_ = s.audit.Log(auth.WithUserContext(ctx, userCtx), LogEntry{
			Action:     domain.AuditActionLogin,
			EntityType: EntityUser,
			EntityKey:  user.Email,
		})
	}
	s.logger.Info("user signed in", zap.String("user_id", user.ID.String()), zap.String("user_type", user.UserType))

	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
		User:      mapper.ToUserDTO(user),
	}, nil
}

// Me returns the signed-in user's account
func (s *AuthService) Me(ctx context.Context) (*domain.UserDTO, error) {
	userCtx, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// CreateUser adds an account with a bcrypt-hashed password
func (s *AuthService) CreateUser(ctx context.Context, name, email, password, role string) (*domain.UserDTO, error) {
	fields := map[string]string{}
	if strings.TrimSpace(name) == "" {
		fields["name"] = "Name is required"
	}
	if !strings.Contains(email, "@") {
		fields["email"] = "Email is invalid"
	}
	if len(password) < 8 {
		fields["password"] = "Password must be at least 8 characters"
	}
	switch role {
	case domain.RoleAdmin, domain.RoleSales, domain.RoleOperations:
	default:
		fields["userType"] = "User type must be admin, sales or operations"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		UserType:     role,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ValidationError{Fields: map[string]string{"email": "A user with that email already exists"}}
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", zap.String("user_id", user.ID.String()), zap.String("user_type", role))
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// ListUsers returns every account
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.UserDTO, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos, nil
}

// SetUserActive enables or disables an account by email
func (s *AuthService) SetUserActive(ctx context.Context, email string, active bool) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	return s.userRepo.SetActive(ctx, user.ID, active)
}
