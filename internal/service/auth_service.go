package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reparto-app/reparto-sales-service/internal/auth"
	"github.com/reparto-app/reparto-sales-service/internal/errs"
	"github.com/reparto-app/reparto-sales-service/internal/logging"
	"github.com/reparto-app/reparto-sales-service/internal/models"
	"github.com/reparto-app/reparto-sales-service/internal/repository"
)

// AuthService authenticates operators and issues session tokens.
type AuthService struct {
	operators  repository.OperatorRepository
	jwtManager *auth.JWTManager
	logger     *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(operators repository.OperatorRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		operators:  operators,
		jwtManager: jwtManager,
		logger:     logging.Component("auth-service"),
	}
}

// Register creates a new operator account with a bcrypt-hashed password. New
// accounts are active regular users right away.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.Operator, error) {
	if err := ValidateRegisterRequest(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	operator := &models.Operator{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Email:     req.Email,
		Role:      models.RoleUser,
		Active:    true,
		CreatedAt: time.Now(),
	}

	if err := s.operators.Create(ctx, operator, hash); err != nil {
		return nil, err
	}

	s.logger.Info("operator registered", "operator_id", operator.ID, "email", operator.Email)
	return operator, nil
}

// Login verifies the credentials and returns a signed session token. Unknown
// emails and wrong passwords both map to ErrInvalidCredentials so the
// response does not reveal which one failed.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if err := ValidateLoginRequest(req); err != nil {
		return nil, err
	}

	operator, hash, err := s.operators.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		s.logger.Warn("failed login attempt", "email", req.Email)
		return nil, err
	}

	token, err := s.jwtManager.Generate(operator)
	if err != nil {
		return nil, err
	}

	s.logger.Info("operator logged in", "operator_id", operator.ID)
	return &models.LoginResponse{Token: token, Operator: *operator}, nil
}
