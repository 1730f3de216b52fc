package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuiter-labs/tuiter/internal/daos"
	"github.com/tuiter-labs/tuiter/internal/models"
	"github.com/tuiter-labs/tuiter/internal/session"
	"github.com/tuiter-labs/tuiter/internal/token"
	"github.com/tuiter-labs/tuiter/internal/utils"
)

var (
	// ErrUsernameTaken signals a registration conflict.
	ErrUsernameTaken = errors.New("username already exists")
	// ErrBadCredentials covers both unknown user and wrong password, so a
	// caller cannot enumerate usernames from login failures.
	ErrBadCredentials = errors.New("username or password incorrect")
	// ErrNoSession signals that no active session backs the request.
	ErrNoSession = errors.New("no active session")
)

// Service 认证服务
//
// The session moves between two states: anonymous and
// authenticated(user). Register and Login transition to authenticated,
// Logout back to anonymous, Profile reads without side effects.
type Service struct {
	users    daos.UserDao
	sessions *session.Store
	tokens   *token.Manager
}

// NewService 创建认证服务实例
func NewService(users daos.UserDao, sessions *session.Store, tokens *token.Manager) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
	}
}

// Register creates a user and an active session for it. The uniqueness
// check and the insert are two separate store round trips; concurrent
// registrations of the same username can race past the check.
func (s *Service) Register(ctx context.Context, user *models.User) (*models.User, string, error) {
	existing, err := s.users.FindUserByUsername(ctx, user.Username)
	if err != nil {
		return nil, "", fmt.Errorf("looking up username %s: %w", user.Username, err)
	}
	if existing != nil {
		return nil, "", ErrUsernameTaken
	}

	hash, err := utils.HashPassword(user.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}
	user.Password = hash
	user.Joined = time.Now().UTC()

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	// The hash never echoes back after registration.
	created.Password = ""

	tok, err := s.startSession(ctx, created)
	if err != nil {
		return nil, "", err
	}
	return created, tok, nil
}

// Login verifies the candidate password against the stored hash. An
// absent user and a wrong password yield the same error.
func (s *Service) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("looking up username %s: %w", username, err)
	}
	if user == nil {
		return nil, "", ErrBadCredentials
	}

	if !utils.CheckPassword(user.Password, password) {
		return nil, "", ErrBadCredentials
	}
	user.Password = models.MaskedPassword

	tok, err := s.startSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, tok, nil
}

// Profile returns the session's active user, or ErrNoSession.
func (s *Service) Profile(ctx context.Context, tok string) (*models.User, error) {
	claims, err := s.tokens.Parse(tok)
	if err != nil {
		return nil, ErrNoSession
	}

	user, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}
	if user == nil {
		return nil, ErrNoSession
	}
	return user, nil
}

// Logout destroys the session behind the token. Unparseable tokens and
// already-destroyed sessions are treated as success: logout is
// idempotent.
func (s *Service) Logout(ctx context.Context, tok string) error {
	claims, err := s.tokens.Parse(tok)
	if err != nil {
		return nil
	}
	return s.sessions.Destroy(ctx, claims.ID)
}

func (s *Service) startSession(ctx context.Context, user *models.User) (string, error) {
	sid := uuid.New().String()
	if err := s.sessions.Set(ctx, sid, user); err != nil {
		return "", fmt.Errorf("marking session active: %w", err)
	}

	tok, err := s.tokens.Sign(sid, user.ID.Hex())
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}
	return tok, nil
}
