package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sm8ta/customer_microservice/internal/core/domain"
	"github.com/sm8ta/customer_microservice/internal/core/ports"
)

type AuthService struct {
	userRepo     ports.UserRepository
	tokenService ports.TokenService
	logger       ports.LoggerPort
}

func NewAuthService(
	userRepo ports.UserRepository,
	tokenService ports.TokenService,
	logger ports.LoggerPort,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		logger:       logger,
	}
}

var _ ports.AuthService = (*AuthService)(nil)

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", domain.ErrMissingCredentials
	}

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Info("Login for unknown user", map[string]interface{}{
				"username": username,
			})
			return "", domain.ErrInvalidCredentials
		}
		s.logger.Error("Failed to get user by username", map[string]interface{}{
			"username": username,
			"error":    err.Error(),
		})
		return "", err
	}

	if !user.CheckPassword(password) {
		s.logger.Info("Invalid password attempt", map[string]interface{}{
			"username": username,
		})
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokenService.CreateToken(user)
	if err != nil {
		s.logger.Error("Failed to create token", map[string]interface{}{
			"error":   err.Error(),
			"user_id": user.ID,
		})
		return "", err
	}

	return token, nil
}

// EnsureUser creates the credential record if username is not taken yet.
// An existing user keeps its current password.
func (s *AuthService) EnsureUser(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || password == "" {
		return domain.ErrMissingCredentials
	}

	_, err := s.userRepo.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}

	user := &domain.User{Username: username}
	if err := user.SetPassword(password); err != nil {
		return err
	}

	if _, err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return err
	}

	s.logger.Info("Bootstrap user created", map[string]interface{}{
		"username": username,
	})
	return nil
}
