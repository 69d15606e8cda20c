package services

import (
	"context"
	"strings"
	"time"

	"itms-api/config"
	"itms-api/internal/auth"
	"itms-api/internal/models"
	"itms-api/pkg/errors"
	"itms-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// userStore and refreshTokenStore are the repository slices the auth flow
// uses. Tests plug in in-memory implementations.
type userStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	IncrementFailedLoginAttempts(ctx context.Context, userID uuid.UUID) error
	UpdateLoginInfo(ctx context.Context, userID uuid.UUID, ipAddress string) error
	GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]*models.Permission, error)
}

type refreshTokenStore interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	UpdateLastUsed(ctx context.Context, tokenID uuid.UUID) error
	Revoke(ctx context.Context, tokenID uuid.UUID, revokedBy uuid.UUID, reason string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, revokedBy uuid.UUID) error
}

type AuthService struct {
	userRepo     userStore
	tokenRepo    refreshTokenStore
	tokenService *auth.TokenService
	config       *config.Config
}

func NewAuthService(
	userRepo userStore,
	tokenRepo refreshTokenStore,
	tokenService *auth.TokenService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		tokenService: tokenService,
		config:       cfg,
	}
}

// checkStatus rejects suspended, pending and otherwise inactive accounts.
func checkStatus(user *models.User) error {
	switch user.Status {
	case "active":
		return nil
	case "suspended":
		return errors.NewError("ACCOUNT_SUSPENDED", "Your account has been suspended. Please contact your administrator.", 403)
	case "pending":
		return errors.NewError("ACCOUNT_PENDING", "Your account is pending approval. Please contact your administrator.", 403)
	default:
		return errors.NewError("ACCOUNT_INACTIVE", "Your account is not active. Please contact your administrator.", 403)
	}
}

func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest, ipAddress, userAgent string) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same response for unknown email and bad password to prevent
		// user enumeration.
		log.Debug().Str("email", req.Email).Msg("login failed, user lookup")
		return nil, errors.ErrUnauthorized
	}

	// Lockout is checked before the password so a locked account cannot be
	// brute-forced while locked.
	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, errors.NewError("ACCOUNT_LOCKED", "Account is locked due to failed login attempts", 423)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Debug().Str("email", req.Email).Msg("login failed, password mismatch")
		_ = s.userRepo.IncrementFailedLoginAttempts(ctx, user.ID)
		return nil, errors.ErrUnauthorized
	}

	if err := checkStatus(user); err != nil {
		log.Debug().Str("email", req.Email).Str("status", user.Status).Msg("login rejected by account status")
		return nil, err
	}

	_ = s.userRepo.UpdateLoginInfo(ctx, user.ID, ipAddress)

	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to generate access token", errors.ErrInternalServer.Status)
	}

	refreshToken, err := s.tokenService.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to generate refresh token", errors.ErrInternalServer.Status)
	}

	// Only the hash of the refresh token is stored.
	tokenHash := utils.HashToken(refreshToken)
	refreshTokenModel := &models.RefreshToken{
		ID:         uuid.New(),
		UserID:     user.ID,
		TokenHash:  tokenHash,
		DeviceInfo: map[string]interface{}{"user_agent": userAgent},
		IPAddress:  &ipAddress,
		UserAgent:  &userAgent,
		ExpiresAt:  time.Now().Add(time.Duration(s.config.JWT.RefreshTokenTTL) * 24 * time.Hour),
	}

	if err := s.tokenRepo.Create(ctx, refreshTokenModel); err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to store refresh token", errors.ErrInternalServer.Status)
	}

	user.PasswordHash = ""

	permissions, err := s.userRepo.GetUserPermissions(ctx, user.ID)
	if err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("failed to load user permissions")
		permissions = []*models.Permission{}
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.config.JWT.AccessTokenTTL * 60, // seconds
		User:         user,
		Permissions:  convertPermissions(permissions),
	}, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string, ipAddress string) (*models.LoginResponse, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, errors.NewError("INVALID_TOKEN", "Refresh token is required", 401)
	}

	claims, err := s.tokenService.ValidateToken(refreshToken)
	if err != nil {
		return nil, errors.NewError("INVALID_TOKEN", "Invalid refresh token", 401)
	}

	tokenHash := utils.HashToken(refreshToken)
	storedToken, err := s.tokenRepo.GetByHash(ctx, tokenHash)
	if err != nil {
		return nil, errors.NewError("TOKEN_NOT_FOUND", "Refresh token not found or has been revoked", 401)
	}

	if storedToken.ExpiresAt.Before(time.Now()) {
		return nil, errors.NewError("TOKEN_EXPIRED", "Refresh token has expired. Please login again", 401)
	}

	if storedToken.RevokedAt != nil {
		return nil, errors.NewError("TOKEN_REVOKED", "Refresh token has been revoked", 401)
	}

	if storedToken.UserID != claims.UserID {
		return nil, errors.NewError("TOKEN_MISMATCH", "Refresh token does not match user", 401)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.NewError("USER_NOT_FOUND", "User associated with token not found", 401)
	}

	if err := checkStatus(user); err != nil {
		return nil, err
	}

	_ = s.tokenRepo.UpdateLastUsed(ctx, storedToken.ID)

	accessToken, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to generate access token", errors.ErrInternalServer.Status)
	}

	user.PasswordHash = ""

	permissions, err := s.userRepo.GetUserPermissions(ctx, user.ID)
	if err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("failed to load user permissions")
		permissions = []*models.Permission{}
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken, // refresh token is reused until it expires
		TokenType:    "Bearer",
		ExpiresIn:    s.config.JWT.AccessTokenTTL * 60,
		User:         user,
		Permissions:  convertPermissions(permissions),
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string, userID uuid.UUID) error {
	if refreshToken != "" {
		tokenHash := utils.HashToken(refreshToken)
		storedToken, err := s.tokenRepo.GetByHash(ctx, tokenHash)
		if err == nil {
			_ = s.tokenRepo.Revoke(ctx, storedToken.ID, userID, "User logged out")
		}
	} else {
		// Revoke all tokens for user
		_ = s.tokenRepo.RevokeAllForUser(ctx, userID, userID)
	}
	return nil
}

// convertPermissions converts []*models.Permission to []models.Permission
func convertPermissions(perms []*models.Permission) []models.Permission {
	result := make([]models.Permission, len(perms))
	for i, p := range perms {
		result[i] = *p
	}
	return result
}
