package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notely/notely/internal/auth"
	"github.com/notely/notely/internal/noteerr"
)

func newAuthService() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewAuthService(users, []byte("test-secret"), time.Hour), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	u, err := svc.Register(ctx, "Alice", "Alice@Example.com", "pw123456", "Alice A")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NotEmpty(t, u.ID)

	token, logged, err := svc.Login(ctx, "alice", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	userID, err := auth.UserIDFromToken(token, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
}

func TestRegisterMissingFields(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Register(context.Background(), "alice", "", "pw", "Alice")
	assert.ErrorIs(t, err, noteerr.ErrInvalidArgument)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@example.com", "pw123456", "Alice")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@example.com", "pw123456", "Alice Two")
	assert.ErrorIs(t, err, noteerr.ErrInvalidArgument)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@example.com", "pw123456", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, noteerr.ErrUnauthenticated)
}

// Unknown user and wrong password come back as the same kind.
func TestLoginUnknownUser(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.Login(context.Background(), "ghost", "pw")
	assert.ErrorIs(t, err, noteerr.ErrUnauthenticated)
}
