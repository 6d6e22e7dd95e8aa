package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"princip-gym/internal/adapters/cache"
	"princip-gym/internal/adapters/persistence/models"
	"princip-gym/internal/adapters/persistence/repositories"
	"princip-gym/internal/config"
	"princip-gym/internal/core/domain"
	"princip-gym/internal/pkg/jwt"
	"princip-gym/internal/pkg/password"
	"princip-gym/internal/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo         repositories.UserRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	denylist         cache.Store
	notifier         Notifier
	cfg              *config.Config
	log              *zap.Logger
	now              Clock
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	denylist cache.Store,
	notifier Notifier,
	cfg *config.Config,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		denylist:         denylist,
		notifier:         notifier,
		cfg:              cfg,
		log:              log,
		now:              utcNow,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email,max=191"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name" validate:"omitempty,max=80"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	Membership   *MembershipStatus    `json:"membership"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// NormalizeEmail trims and lower-cases an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a member account with an empty, inactive membership and
// sends the verification email. Mail failures do not fail registration.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	if input != nil {
		input.Email = NormalizeEmail(input.Email)
		input.Name = strings.TrimSpace(input.Name)
	}
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	user := &models.User{
		Email:             input.Email,
		Name:              input.Name,
		PasswordHash:      hashedPassword,
		Role:              string(domain.RoleUser),
		VerificationToken: &token,
		Membership:        &models.Membership{},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.notifier.SendVerification(ctx, user, token); err != nil {
		s.log.Warn("verification email failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("email", user.Email))
	return user.ToResponse(), nil
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	if input != nil {
		input.Email = NormalizeEmail(input.Email)
	}
	if err := validator.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID))
	return result, nil
}

// RefreshToken rotates the refresh token and issues a new access token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		// a rotated token came back: treat every session of this user as compromised
		if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, storedToken.UserID); err != nil {
			s.log.Error("revoke sessions after token reuse", zap.String("user_id", storedToken.UserID), zap.Error(err))
		}
		return nil, domain.ErrTokenRevoked
	}
	if storedToken.IsExpired(s.now()) {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	return s.issue(ctx, user)
}

// Logout revokes the refresh token and denies the access token for its remaining lifetime
func (s *AuthService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	if refreshToken != "" {
		if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
			return err
		}
	}

	if accessToken != "" {
		if claims, err := jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret); err == nil {
			if err := s.denylist.Deny(ctx, accessToken, jwt.RemainingTTL(claims)); err != nil {
				s.log.Warn("access token denylist write failed", zap.Error(err))
			}
		}
	}
	return nil
}

// LogoutAll revokes all refresh tokens of the caller
func (s *AuthService) LogoutAll(ctx context.Context, caller domain.Identity) error {
	if err := s.refreshTokenRepo.RevokeAllByUserID(ctx, caller.UserID); err != nil {
		return err
	}
	s.log.Info("all sessions revoked", zap.String("user_id", caller.UserID))
	return nil
}

// VerifyEmail consumes a verification token
func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrTokenInvalid
	}

	user, err := s.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}

	user.EmailVerified = true
	user.VerificationToken = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return err
	}

	s.log.Info("email verified", zap.String("user_id", user.ID))
	return nil
}

// Authenticate turns an access token into the caller identity.
// A denylist outage is logged and does not lock members out.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*domain.Identity, error) {
	claims, err := jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	denied, err := s.denylist.IsDenied(ctx, accessToken)
	if err != nil {
		s.log.Warn("access token denylist unavailable", zap.Error(err))
	} else if denied {
		return nil, domain.ErrTokenRevoked
	}

	return &domain.Identity{UserID: claims.UserID, Email: claims.Email, Role: domain.Role(claims.Role)}, nil
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*AuthResponse, error) {
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}
	if err := s.storeRefreshToken(ctx, user.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		Membership:   NewMembershipStatus(user.Membership.ToDomain(), s.now()),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		uuid.NewString(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token hash in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, userID string, refreshToken string) error {
	token := &models.RefreshToken{
		UserID:    userID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays).UTC(),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
