package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jon4hz/loanwise/internal/database"
)

var _ database.DB = (*MockDB)(nil)

// MockDB is a mock implementation of database.DB for testing.
type MockDB struct {
	mu sync.RWMutex

	users      map[string]*database.User
	nextUserID uint

	// Error simulation
	EnsureSchemaError      error
	CreateUserError        error
	GetUserByUsernameError error
	GetAllUsersError       error
	CountUsersError        error
}

// NewMockDB creates a new MockDB instance.
func NewMockDB() *MockDB {
	return &MockDB{
		users:      make(map[string]*database.User),
		nextUserID: 1,
	}
}

// Reset clears all data and errors from the mock database.
func (m *MockDB) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.users = make(map[string]*database.User)
	m.nextUserID = 1

	m.EnsureSchemaError = nil
	m.CreateUserError = nil
	m.GetUserByUsernameError = nil
	m.GetAllUsersError = nil
	m.CountUsersError = nil
}

func (m *MockDB) EnsureSchema(ctx context.Context) error {
	return m.EnsureSchemaError
}

func (m *MockDB) CreateUser(ctx context.Context, username, passwordHash string) (*database.User, error) {
	if m.CreateUserError != nil {
		return nil, m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[username]; ok {
		return nil, database.ErrDuplicateUsername
	}

	user := &database.User{
		ID:        m.nextUserID,
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}
	m.nextUserID++
	m.users[username] = user

	return user, nil
}

func (m *MockDB) GetUserByUsername(ctx context.Context, username string) (*database.User, error) {
	if m.GetUserByUsernameError != nil {
		return nil, m.GetUserByUsernameError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[username]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (m *MockDB) GetAllUsers(ctx context.Context) ([]database.User, error) {
	if m.GetAllUsersError != nil {
		return nil, m.GetAllUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]database.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *MockDB) CountUsers(ctx context.Context) (int64, error) {
	if m.CountUsersError != nil {
		return 0, m.CountUsersError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.users)), nil
}

func (m *MockDB) Close() error {
	return nil
}
