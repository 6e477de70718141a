package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ClientTestSuite struct {
	suite.Suite
	client *Client
	path   string
	ctx    context.Context
}

func (s *ClientTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "nested", "loanwise.db")

	client, err := New(s.path)
	s.Require().NoError(err)
	s.client = client
}

func (s *ClientTestSuite) TearDownTest() {
	s.NoError(s.client.Close())
}

func (s *ClientTestSuite) TestEnsureSchemaIsIdempotent() {
	s.NoError(s.client.EnsureSchema(s.ctx))
	s.NoError(s.client.EnsureSchema(s.ctx))

	// reopening an existing database must not fail either
	other, err := New(s.path)
	s.Require().NoError(err)
	s.NoError(other.Close())
}

func (s *ClientTestSuite) TestCreateAndGetUser() {
	created, err := s.client.CreateUser(s.ctx, "alice", "hash")
	s.Require().NoError(err)
	s.NotZero(created.ID)

	got, err := s.client.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal("alice", got.Username)
	s.Equal("hash", got.Password)
}

func (s *ClientTestSuite) TestGetUnknownUser() {
	_, err := s.client.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *ClientTestSuite) TestDuplicateUsername() {
	_, err := s.client.CreateUser(s.ctx, "alice", "first")
	s.Require().NoError(err)

	_, err = s.client.CreateUser(s.ctx, "alice", "second")
	s.ErrorIs(err, ErrDuplicateUsername)

	count, err := s.client.CountUsers(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, count)

	// the first registration wins, nothing of the second one is written
	got, err := s.client.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("first", got.Password)
}

func (s *ClientTestSuite) TestConcurrentRegistrationsOfSameUsername() {
	const workers = 8

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.client.CreateUser(s.ctx, "racer", "hash")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrDuplicateUsername):
				duplicates++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	count, err := s.client.CountUsers(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *ClientTestSuite) TestGetAllUsers() {
	for _, name := range []string{"alice", "bob", "carol"} {
		_, err := s.client.CreateUser(s.ctx, name, "hash")
		s.Require().NoError(err)
	}

	users, err := s.client.GetAllUsers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal("alice", users[0].Username)
	s.Equal("carol", users[2].Username)
}

func (s *ClientTestSuite) TestStoreErrorAfterClose() {
	s.Require().NoError(s.client.Close())

	_, err := s.client.GetUserByUsername(s.ctx, "alice")
	var storeErr *StoreError
	s.ErrorAs(err, &storeErr)
	s.Equal("get user", storeErr.Op)

	// reopen so TearDownTest can close cleanly
	client, err := New(s.path)
	s.Require().NoError(err)
	s.client = client
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := &StoreError{Op: "create user", Err: cause}

	assert.Equal(t, "store: create user: disk full", err.Error())
	require.ErrorIs(t, err, cause)
}
