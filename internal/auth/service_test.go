package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tuiter-labs/tuiter/internal/models"
	"github.com/tuiter-labs/tuiter/internal/session"
	"github.com/tuiter-labs/tuiter/internal/token"
)

// fakeUserDao keeps users in memory, keyed by username. Reads and writes
// copy the record so callers mutating a returned user do not touch the
// stored one, matching how a real store behaves.
type fakeUserDao struct {
	byUsername map[string]models.User
}

func newFakeUserDao() *fakeUserDao {
	return &fakeUserDao{byUsername: map[string]models.User{}}
}

func (f *fakeUserDao) FindAllUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	for _, u := range f.byUsername {
		u.Password = models.MaskedPassword
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUserDao) FindUserByID(ctx context.Context, uid string) (*models.User, error) {
	for _, u := range f.byUsername {
		if u.ID.Hex() == uid {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeUserDao) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, nil
	}
	out := u
	return &out, nil
}

func (f *fakeUserDao) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	f.byUsername[user.Username] = *user
	return user, nil
}

func (f *fakeUserDao) UpdateUser(ctx context.Context, uid string, fields map[string]any) (*models.Ack, error) {
	return &models.Ack{Acknowledged: true}, nil
}

func (f *fakeUserDao) DeleteUser(ctx context.Context, uid string) (*models.Ack, error) {
	return &models.Ack{Acknowledged: true}, nil
}

func setupService(t *testing.T) *Service {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	sessions := session.NewStore(rdb, time.Hour)
	tokens := token.NewManager("test-secret", time.Hour)
	return NewService(newFakeUserDao(), sessions, tokens)
}

func TestRegisterThenLogin(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	created, tok, err := svc.Register(ctx, &models.User{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	// Echoed user carries neither plaintext nor hash.
	assert.Empty(t, created.Password)

	user, _, err := svc.Login(ctx, "alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, models.MaskedPassword, user.Password)
	assert.NotEqual(t, "hunter22", user.Password)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &models.User{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, &models.User{Username: "alice", Password: "different"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin_Failures(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, &models.User{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})

	t.Run("unknown user yields the same error", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, ErrBadCredentials)
	})
}

func TestProfileAndLogout(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, tok, err := svc.Register(ctx, &models.User{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)

	user, err := svc.Profile(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	require.NoError(t, svc.Logout(ctx, tok))

	// The token still parses, but the session record is gone.
	_, err = svc.Profile(ctx, tok)
	assert.ErrorIs(t, err, ErrNoSession)

	// Logout twice is fine.
	require.NoError(t, svc.Logout(ctx, tok))
}

func TestProfile_NoToken(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Profile(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrNoSession)
}
