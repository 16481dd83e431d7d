package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockAdminRepo struct {
	admin *Admin
}

func (m *mockAdminRepo) GetAdminByEmail(_ context.Context, email string) (*Admin, error) {
	if m.admin != nil && m.admin.Email == email {
		return m.admin, nil
	}
	return nil, ErrAdminNotFound
}

func setupService(t *testing.T, password string) (*Service, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockAdminRepo{admin: &Admin{
		ID:       "admin-1",
		Email:    "owner@example.com",
		Name:     "יעקב",
		Password: string(hash),
	}}
	return NewService(repo, NewRedisSessionStore(client)), mr
}

func TestLogin_Success(t *testing.T) {
	sut, _ := setupService(t, "s3cret")

	token, admin, err := sut.Login(context.Background(), "owner@example.com", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "admin-1", admin.ID)

	resolved, err := sut.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", resolved.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	sut, _ := setupService(t, "s3cret")

	_, _, err := sut.Login(context.Background(), "owner@example.com", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	sut, _ := setupService(t, "s3cret")

	_, _, err := sut.Login(context.Background(), "ghost@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidate_EmptyAndBogusTokens(t *testing.T) {
	sut, _ := setupService(t, "s3cret")

	_, err := sut.Validate(context.Background(), "")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = sut.Validate(context.Background(), "not-a-real-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	sut, _ := setupService(t, "s3cret")
	ctx := context.Background()

	token, _, err := sut.Login(ctx, "owner@example.com", "s3cret")
	require.NoError(t, err)

	require.NoError(t, sut.Logout(ctx, token))
	_, err = sut.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSession_ExpiresWithTTL(t *testing.T) {
	sut, mr := setupService(t, "s3cret")
	ctx := context.Background()

	token, _, err := sut.Login(ctx, "owner@example.com", "s3cret")
	require.NoError(t, err)

	mr.FastForward(25 * time.Hour)
	_, err = sut.Validate(ctx, token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
