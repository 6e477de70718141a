package auth

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/loanwise/internal/database"
	"github.com/jon4hz/loanwise/internal/session"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrDuplicateUsername is returned by Register when the username is taken.
	ErrDuplicateUsername = database.ErrDuplicateUsername
	// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrMissingCredentials is returned when username or password is empty.
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrUnauthenticated is returned when a request carries no valid session.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Service registers and authenticates users and manages their sessions.
type Service struct {
	db         database.DB
	sessions   session.Store
	bcryptCost int
}

// New creates an auth service. A cost of 0 uses bcrypt.DefaultCost.
func New(db database.DB, sessions session.Store, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		db:         db,
		sessions:   sessions,
		bcryptCost: bcryptCost,
	}
}

// Register hashes the password and stores a new user.
func (s *Service) Register(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword(prehash(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.db.CreateUser(ctx, username, string(hash)); err != nil {
		return err
	}

	log.Info("registered new user", "username", username)
	return nil
}

// Login verifies the credentials and opens a session for the user.
// It returns the session token the client has to present on later requests.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.db.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), prehash(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := session.NewToken()
	if err := s.sessions.Set(ctx, token, user.Username); err != nil {
		return "", err
	}

	log.Debug("user logged in", "username", user.Username)
	return token, nil
}

// Logout ends the session. Logging out twice is fine.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Clear(ctx, token)
}

// RequireSession resolves a session token to the session it belongs to.
func (s *Service) RequireSession(ctx context.Context, token string) (*session.Info, error) {
	info, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return info, nil
}

// prehash maps passwords of any length to 44 bytes, bcrypt only accepts up to 72.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
