package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"learn-ease-backend/internal/config"
	"learn-ease-backend/models"
	"learn-ease-backend/utils"
)

type UserService struct {
	users UserRepo
	cfg   *config.Config
}

func NewUserService(users UserRepo, cfg *config.Config) *UserService {
	return &UserService{users: users, cfg: cfg}
}

func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	hash, err := utils.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Firstname:      strings.TrimSpace(req.Firstname),
		Lastname:       strings.TrimSpace(req.Lastname),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:   hash,
		Age:            req.Age,
		UniversityName: strings.TrimSpace(req.UniversityName),
		CreatedAt:      time.Now().UTC(),
	}

	id, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

// Login verifies credentials and issues a signed access token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	ttl := s.cfg.TokenTTL()
	expiresAt := time.Now().Add(ttl)
	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, s.cfg.JWTSecret, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user.Info(),
	}, nil
}
