// internal/service/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"ezwallet-service/internal/domain/user"
	xerrors "ezwallet-service/internal/pkg/errors"
	"ezwallet-service/internal/pkg/ratelimit"
	"ezwallet-service/internal/pkg/token"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var (
	ErrAlreadyRegistered   = xerrors.BadRequest("you are already registered")
	ErrNotRegistered       = xerrors.BadRequest("please you need to register")
	ErrBadCredentials      = xerrors.BadRequest("wrong credentials")
	ErrMissingRefreshToken = xerrors.BadRequest("refresh token not found")
	ErrUserNotFound        = xerrors.BadRequest("User not found")
	ErrTooManyAttempts     = xerrors.BadRequest("too many login attempts, please try again in 15 minutes")
)

// UserRepo is the slice of user persistence the auth flows need.
type UserRepo interface {
	Create(ctx context.Context, u *user.User) error
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByRefreshToken(ctx context.Context, refreshToken string) (*user.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error
	ClearRefreshToken(ctx context.Context, userID string) error
}

type Service struct {
	users   UserRepo
	codec   *token.Codec
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

func NewService(users UserRepo, codec *token.Codec, limiter *ratelimit.Limiter, logger *zap.Logger) *Service {
	return &Service{
		users:   users,
		codec:   codec,
		limiter: limiter,
		logger:  logger,
	}
}

// Register creates a regular account.
func (s *Service) Register(ctx context.Context, req *user.RegisterRequest) (string, error) {
	if err := s.createUser(ctx, req, user.RoleRegular); err != nil {
		return "", err
	}
	return "User added successfully", nil
}

// RegisterAdmin creates an administrator account.
func (s *Service) RegisterAdmin(ctx context.Context, req *user.RegisterRequest) (string, error) {
	if err := s.createUser(ctx, req, user.RoleAdmin); err != nil {
		return "", err
	}
	return "Admin added successfully", nil
}

func (s *Service) createUser(ctx context.Context, req *user.RegisterRequest, role user.Role) error {
	existing, err := s.users.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil && !errors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return ErrAlreadyRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:           ulid.Make().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("username", u.Username),
		zap.String("role", string(role)),
	)
	return nil
}

// Login checks credentials and mints a fresh token pair, persisting the
// refresh token as the account's single session slot.
func (s *Service) Login(ctx context.Context, req *user.LoginRequest) (*user.LoginResponse, error) {
	if s.limiter != nil {
		allowed, _, err := s.limiter.CheckLoginAttempt(ctx, req.IPAddress, req.Email)
		if err != nil {
			s.logger.Error("rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return nil, ErrTooManyAttempts
		}
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, ErrNotRegistered
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrBadCredentials
	}

	claims := token.Claims{
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		UserID:   u.ID,
	}
	accessToken, err := s.codec.MintAccess(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to mint access token: %w", err)
	}
	refreshToken, err := s.codec.MintRefresh(claims)
	if err != nil {
		return nil, fmt.Errorf("failed to mint refresh token: %w", err)
	}

	// Overwrites any earlier session: one refresh slot per account.
	if err := s.users.UpdateRefreshToken(ctx, u.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.ResetLoginAttempts(ctx, req.IPAddress, req.Email); err != nil {
			s.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
	}

	s.logger.Info("user logged in", zap.String("username", u.Username))
	return &user.LoginResponse{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout clears the session slot of whichever account holds the presented
// refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return ErrMissingRefreshToken
	}

	u, err := s.users.FindByRefreshToken(ctx, refreshToken)
	if errors.Is(err, xerrors.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find user by refresh token: %w", err)
	}

	if err := s.users.ClearRefreshToken(ctx, u.ID); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	s.logger.Info("user logged out", zap.String("username", u.Username))
	return nil
}
