package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"

	"github.com/wordplaylabs/wordquest/internal/auth/jwt"
	"github.com/wordplaylabs/wordquest/internal/db/repository"
)

type userStore interface {
	Create(ctx context.Context, params repository.CreateUserParams) (repository.UserRow, error)
	GetByEmail(ctx context.Context, email string) (repository.UserRow, error)
	GetByID(ctx context.Context, userID uuid.UUID) (repository.UserRow, error)
	UpdateLastLogin(ctx context.Context, userID uuid.UUID) error
}

// Service handles authentication and account management.
type Service struct {
	users    userStore
	tokenMgr *jwt.Manager
	logger   zerolog.Logger
}

// ServiceOptions configures the auth service.
type ServiceOptions struct {
	TokenConfig jwt.TokenConfig
}

// NewService creates an authentication service.
func NewService(users userStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	return &Service{
		users:    users,
		tokenMgr: jwt.NewManager(opts.TokenConfig),
		logger:   logger,
	}
}

// Register creates a new registered account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, *TokenPair, error) {
	if req.Email == "" {
		return nil, nil, fmt.Errorf("email required")
	}

	if existing, err := s.users.GetByEmail(ctx, req.Email); err == nil && existing.UserID != uuid.Nil {
		return nil, nil, fmt.Errorf("email already registered")
	}

	passwordHash, err := HashPassword(req.Password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	pgEmail := pgtype.Text{String: req.Email, Valid: true}
	pgHash := pgtype.Text{String: passwordHash, Valid: true}

	row, err := s.users.Create(ctx, repository.CreateUserParams{
		Email:        pgEmail,
		PasswordHash: pgHash,
		DisplayName:  req.DisplayName,
		UserType:     UserTypeRegistered,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	user := toUser(row)
	tokens, err := s.generateTokenPair(*user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user registered")
	return user, tokens, nil
}

// Login authenticates a user with email/password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, *TokenPair, error) {
	row, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	if !row.PasswordHash.Valid {
		return nil, nil, fmt.Errorf("invalid credentials")
	}
	if err := VerifyPassword(row.PasswordHash.String, req.Password); err != nil {
		return nil, nil, fmt.Errorf("invalid credentials")
	}

	user := toUser(row)
	_ = s.users.UpdateLastLogin(ctx, user.ID)

	tokens, err := s.generateTokenPair(*user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("user logged in")
	return user, tokens, nil
}

// CreateGuest creates an ephemeral guest account so kids can play without email.
func (s *Service) CreateGuest(ctx context.Context, req GuestRequest) (*User, *TokenPair, error) {
	displayName := req.DisplayName
	if displayName == "" {
		displayName = "Explorer"
	}

	row, err := s.users.Create(ctx, repository.CreateUserParams{
		DisplayName: displayName,
		UserType:    UserTypeGuest,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create guest: %w", err)
	}

	user := toUser(row)
	tokens, err := s.generateTokenPair(*user)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID.String()).Msg("guest created")
	return user, tokens, nil
}

// RefreshToken generates a new token pair from a refresh token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokenMgr.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	row, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}

	return s.generateTokenPair(*toUser(row))
}

// GetUser fetches the account behind validated claims.
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	row, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user not found")
	}
	return toUser(row), nil
}

// ValidateToken validates an access token and returns user claims.
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenMgr.ValidateAccessToken(tokenString)
}

func (s *Service) generateTokenPair(user User) (*TokenPair, error) {
	jwtUser := jwt.User{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsGuest:     user.IsGuest,
	}

	accessToken, err := s.tokenMgr.GenerateAccessToken(jwtUser)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokenMgr.GenerateRefreshToken(jwtUser)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokenMgr.AccessTTL().Seconds()),
	}, nil
}

func toUser(row repository.UserRow) *User {
	user := &User{
		ID:          row.UserID,
		DisplayName: row.DisplayName,
		UserType:    row.UserType,
		IsGuest:     row.UserType == UserTypeGuest,
	}
	if row.Email.Valid {
		email := row.Email.String
		user.Email = &email
	}
	return user
}
