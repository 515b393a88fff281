package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/oakmere/storefront/internal/auth"
	"github.com/oakmere/storefront/internal/domain"
	"github.com/oakmere/storefront/internal/event"
	"github.com/oakmere/storefront/internal/repository"
	apperrors "github.com/oakmere/storefront/pkg/errors"
)

// bcryptCost is the cost factor for bcrypt password hashing.
const bcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// AuthService implements account registration, login, and profile logic.
// An Account (credentials) and a User profile row are deliberately not
// created transactionally: the account is authoritative, and a profile
// insert failure downgrades to a warning so registration still succeeds.
type AuthService struct {
	accountRepo repository.AccountRepository
	userRepo    repository.UserRepository
	tokenRepo   repository.RefreshTokenRepository
	jwtManager  *auth.JWTManager
	publisher   event.Publisher
	logger      *slog.Logger
}

// NewAuthService creates the auth and profile service.
func NewAuthService(
	accountRepo repository.AccountRepository,
	userRepo repository.UserRepository,
	tokenRepo repository.RefreshTokenRepository,
	jwtManager *auth.JWTManager,
	publisher event.Publisher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		jwtManager:  jwtManager,
		publisher:   publisher,
		logger:      logger,
	}
}

// RegisterInput holds the parameters for registering a new account.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// RegisterResult carries the outcome of a registration. ProfileWarning is
// set when the account was created but the profile row was not.
type RegisterResult struct {
	Account        *domain.Account
	User           *domain.User
	Tokens         *domain.TokenPair
	ProfileWarning string
}

// LoginInput holds the parameters for login.
type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput holds the parameters for updating a profile. Nil
// fields are left unchanged.
type UpdateProfileInput struct {
	Name      *string
	Phone     *string
	Address   *string
	AvatarURL *string
}

// Register creates an account and its profile row, returning tokens. A
// profile insert failure is logged and reported as a warning; the
// registration itself still succeeds.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:           uuid.New().String(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		DisplayName:  input.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	result := &RegisterResult{Account: account}

	// The profile row is best-effort: the account already exists and the
	// user can sign in, so a failure here must not fail the registration.
	user := &domain.User{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.DisplayName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "profile creation failed after registration",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		result.ProfileWarning = "account created, but profile setup is incomplete"
	} else {
		result.User = user
		if err := s.publisher.PublishUserRegistered(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish user.registered event",
				slog.String("user_id", user.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	tokens, err := s.generateTokenPair(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}
	result.Tokens = tokens

	s.logger.InfoContext(ctx, "account registered",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return result, nil
}

// Login verifies credentials and returns the profile (nil when the row is
// missing; profile absence never blocks login) and a token pair.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*domain.Account, *domain.User, *domain.TokenPair, error) {
	if input.Email == "" {
		return nil, nil, nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, nil, nil, apperrors.InvalidInput("password is required")
	}

	account, err := s.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, nil, nil, apperrors.Unauthorized("invalid email or password")
	}

	user, err := s.userRepo.GetByID(ctx, account.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "profile missing at login",
			slog.String("account_id", account.ID),
			slog.String("error", err.Error()),
		)
		user = nil
	}

	tokens, err := s.generateTokenPair(ctx, account)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("account_id", account.ID),
		slog.String("email", account.Email),
	)

	return account, user, tokens, nil
}

// RefreshToken validates a refresh token and rotates the pair.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, apperrors.InvalidInput("refresh token is required")
	}

	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired refresh token")
	}

	tokenHash := hashToken(refreshToken)
	storedToken, err := s.tokenRepo.GetByHash(ctx, tokenHash)
	if err != nil {
		return nil, apperrors.Unauthorized("refresh token not found")
	}

	if storedToken.RevokedAt != nil {
		return nil, apperrors.Unauthorized("refresh token has been revoked")
	}

	if time.Now().UTC().After(storedToken.ExpiresAt) {
		return nil, apperrors.Unauthorized("refresh token has expired")
	}

	if err := s.tokenRepo.Revoke(ctx, tokenHash); err != nil {
		s.logger.ErrorContext(ctx, "failed to revoke old refresh token",
			slog.String("account_id", claims.UserID),
			slog.String("error", err.Error()),
		)
	}

	account, err := s.accountRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("get account for token refresh: %w", err)
	}

	tokens, err := s.generateTokenPair(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("generate tokens: %w", err)
	}

	return tokens, nil
}

// Logout revokes the given refresh token. Revoking an unknown token is
// reported as unauthorized so clients notice stale sessions.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return apperrors.InvalidInput("refresh token is required")
	}

	if err := s.tokenRepo.Revoke(ctx, hashToken(refreshToken)); err != nil {
		return apperrors.Unauthorized("refresh token not found")
	}

	return nil
}

// ValidateAccessToken exposes token validation for the HTTP auth middleware.
func (s *AuthService) ValidateAccessToken(token string) (*auth.Claims, error) {
	return s.jwtManager.ValidateAccessToken(token)
}

// GetProfile returns the profile row for the given account.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// CreateProfile inserts the profile row for an authenticated account. When
// the row already exists the repository's conflict error surfaces as 409,
// which lets clients treat a concurrent or repeated create as benign.
func (s *AuthService) CreateProfile(ctx context.Context, userID, email, name string) (*domain.User, error) {
	if name == "" {
		name = email
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:        userID,
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return user, nil
}

// UpdateProfile applies the non-nil fields and returns the updated profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("name must not be empty")
		}
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = input.Phone
	}
	if input.Address != nil {
		user.Address = input.Address
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishUserUpdated(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.updated event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	return user, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, account *domain.Account) (*domain.TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(account.ID, account.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(account.ID)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.jwtManager.RefreshExpiry())
	if err := s.tokenRepo.Create(ctx, account.ID, hashToken(refreshToken), expiresAt); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// hashToken returns the SHA-256 hex digest of the given token string.
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// validatePassword checks minimum complexity requirements.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
