package services

import (
	"context"
	"testing"
	"time"

	"itms-api/config"
	"itms-api/internal/auth"
	"itms-api/internal/models"
	"itms-api/pkg/errors"
	"itms-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	store := &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
	for _, user := range users {
		store.users[user.ID] = user
	}
	return store
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, errors.ErrNotFound
}

// IncrementFailedLoginAttempts mirrors the repository: the account locks for
// 30 minutes once the counter reaches 5.
func (f *fakeUserStore) IncrementFailedLoginAttempts(_ context.Context, userID uuid.UUID) error {
	user := f.users[userID]
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= 5 {
		lockedUntil := time.Now().Add(30 * time.Minute)
		user.LockedUntil = &lockedUntil
	}
	return nil
}

func (f *fakeUserStore) UpdateLoginInfo(_ context.Context, userID uuid.UUID, ipAddress string) error {
	user := f.users[userID]
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginIP = &ipAddress
	return nil
}

func (f *fakeUserStore) GetUserPermissions(_ context.Context, _ uuid.UUID) ([]*models.Permission, error) {
	return []*models.Permission{}, nil
}

type fakeTokenStore struct {
	tokens map[string]*models.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*models.RefreshToken)}
}

func (f *fakeTokenStore) Create(_ context.Context, token *models.RefreshToken) error {
	f.tokens[token.TokenHash] = token
	return nil
}

func (f *fakeTokenStore) GetByHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	if token, ok := f.tokens[tokenHash]; ok {
		return token, nil
	}
	return nil, errors.ErrNotFound
}

func (f *fakeTokenStore) UpdateLastUsed(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeTokenStore) Revoke(_ context.Context, tokenID uuid.UUID, _ uuid.UUID, _ string) error {
	now := time.Now()
	for _, token := range f.tokens {
		if token.ID == tokenID {
			token.RevokedAt = &now
		}
	}
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(_ context.Context, userID uuid.UUID, _ uuid.UUID) error {
	now := time.Now()
	for _, token := range f.tokens {
		if token.UserID == userID {
			token.RevokedAt = &now
		}
	}
	return nil
}

func authTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  15,
			RefreshTokenTTL: 7,
		},
	}
}

func activeUser(t *testing.T, password string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	orgID := uuid.New()
	return &models.User{
		ID:           uuid.New(),
		OrgID:        &orgID,
		Email:        "user@example.com",
		PasswordHash: hash,
		Status:       "active",
	}
}

func newAuthTestService(users *fakeUserStore) (*AuthService, *fakeTokenStore) {
	cfg := authTestConfig()
	tokens := newFakeTokenStore()
	return NewAuthService(users, tokens, auth.NewTokenService(cfg), cfg), tokens
}

func loginReq(password string) *models.LoginRequest {
	return &models.LoginRequest{Email: "user@example.com", Password: password}
}

func asAppError(t *testing.T, err error) *errors.AppError {
	t.Helper()
	appErr, ok := err.(*errors.AppError)
	require.True(t, ok, "expected *errors.AppError, got %T", err)
	return appErr
}

func TestLoginLocksAfterFiveFailures(t *testing.T) {
	user := activeUser(t, "correct-horse")
	users := newFakeUserStore(user)
	svc, _ := newAuthTestService(users)

	for i := 0; i < 4; i++ {
		_, err := svc.Login(context.Background(), loginReq("wrong"), "127.0.0.1", "test")
		require.Error(t, err)
		assert.Equal(t, 401, asAppError(t, err).Status, "attempt %d", i+1)
		assert.Nil(t, user.LockedUntil, "attempt %d", i+1)
	}

	// The fifth failure locks the account.
	_, err := svc.Login(context.Background(), loginReq("wrong"), "127.0.0.1", "test")
	require.Error(t, err)
	assert.Equal(t, 5, user.FailedLoginAttempts)
	require.NotNil(t, user.LockedUntil)
	assert.True(t, user.LockedUntil.After(time.Now()))
}

func TestLoginRejectsLockedAccount(t *testing.T) {
	user := activeUser(t, "correct-horse")
	lockedUntil := time.Now().Add(10 * time.Minute)
	user.LockedUntil = &lockedUntil
	user.FailedLoginAttempts = 5
	svc, _ := newAuthTestService(newFakeUserStore(user))

	// Even the right password is rejected while the lock holds, and the
	// counter does not move.
	_, err := svc.Login(context.Background(), loginReq("correct-horse"), "127.0.0.1", "test")
	require.Error(t, err)
	appErr := asAppError(t, err)
	assert.Equal(t, 423, appErr.Status)
	assert.Equal(t, "ACCOUNT_LOCKED", appErr.Code)
	assert.Equal(t, 5, user.FailedLoginAttempts)
}

func TestLoginSucceedsAfterLockExpires(t *testing.T) {
	user := activeUser(t, "correct-horse")
	lockedUntil := time.Now().Add(-time.Minute)
	user.LockedUntil = &lockedUntil
	user.FailedLoginAttempts = 5
	svc, tokens := newAuthTestService(newFakeUserStore(user))

	resp, err := svc.Login(context.Background(), loginReq("correct-horse"), "127.0.0.1", "test")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	// A successful login resets the lockout counters and stores the token.
	assert.Equal(t, 0, user.FailedLoginAttempts)
	assert.Nil(t, user.LockedUntil)
	assert.Len(t, tokens.tokens, 1)
}

func TestLoginUnknownEmailAndBadPasswordLookAlike(t *testing.T) {
	user := activeUser(t, "correct-horse")
	svc, _ := newAuthTestService(newFakeUserStore(user))

	_, badPassErr := svc.Login(context.Background(), loginReq("wrong"), "127.0.0.1", "test")
	_, unknownErr := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "wrong",
	}, "127.0.0.1", "test")

	require.Error(t, badPassErr)
	require.Error(t, unknownErr)
	assert.Equal(t, asAppError(t, badPassErr).Code, asAppError(t, unknownErr).Code)
	assert.Equal(t, asAppError(t, badPassErr).Status, asAppError(t, unknownErr).Status)
}

func TestRefreshTokenReusedUntilExpiry(t *testing.T) {
	user := activeUser(t, "correct-horse")
	svc, _ := newAuthTestService(newFakeUserStore(user))

	resp, err := svc.Login(context.Background(), loginReq("correct-horse"), "127.0.0.1", "test")
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), resp.RefreshToken, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, resp.RefreshToken, refreshed.RefreshToken)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshTokenRejectedAfterLogout(t *testing.T) {
	user := activeUser(t, "correct-horse")
	svc, _ := newAuthTestService(newFakeUserStore(user))

	resp, err := svc.Login(context.Background(), loginReq("correct-horse"), "127.0.0.1", "test")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.RefreshToken, user.ID))

	_, err = svc.RefreshToken(context.Background(), resp.RefreshToken, "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, 401, asAppError(t, err).Status)
}
