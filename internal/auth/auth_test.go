package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jon4hz/loanwise/internal/cache"
	"github.com/jon4hz/loanwise/internal/database"
	dbmock "github.com/jon4hz/loanwise/internal/database/mock"
	"github.com/jon4hz/loanwise/internal/session"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type ServiceTestSuite struct {
	suite.Suite
	db      *dbmock.MockDB
	service *Service
	ctx     context.Context
}

func (s *ServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = dbmock.NewMockDB()
	s.service = New(s.db, session.NewCacheStore(cache.NewMemory(), time.Hour), bcrypt.MinCost)
}

func (s *ServiceTestSuite) TestRegisterHashesPassword() {
	s.Require().NoError(s.service.Register(s.ctx, "alice", "secret"))

	user, err := s.db.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEqual("secret", user.Password)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(user.Password), prehash("secret")))
}

func (s *ServiceTestSuite) TestLongPassword() {
	password := strings.Repeat("p", 80)
	s.Require().NoError(s.service.Register(s.ctx, "alice", password))

	token, err := s.service.Login(s.ctx, "alice", password)
	s.Require().NoError(err)
	s.NotEmpty(token)

	// only differs after byte 72, which plain bcrypt would ignore
	_, err = s.service.Login(s.ctx, "alice", strings.Repeat("p", 79)+"q")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestRegisterDuplicate() {
	s.Require().NoError(s.service.Register(s.ctx, "alice", "secret"))

	err := s.service.Register(s.ctx, "alice", "other")
	s.ErrorIs(err, ErrDuplicateUsername)

	count, err := s.db.CountUsers(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, count)
}

func (s *ServiceTestSuite) TestRegisterTrimsUsername() {
	s.Require().NoError(s.service.Register(s.ctx, "  alice ", "secret"))

	_, err := s.db.GetUserByUsername(s.ctx, "alice")
	s.NoError(err)
}

func (s *ServiceTestSuite) TestRegisterMissingCredentials() {
	s.ErrorIs(s.service.Register(s.ctx, "", "secret"), ErrMissingCredentials)
	s.ErrorIs(s.service.Register(s.ctx, "   ", "secret"), ErrMissingCredentials)
	s.ErrorIs(s.service.Register(s.ctx, "alice", ""), ErrMissingCredentials)
}

func (s *ServiceTestSuite) TestRegisterStoreError() {
	s.db.CreateUserError = &database.StoreError{Op: "create user", Err: errors.New("disk full")}

	err := s.service.Register(s.ctx, "alice", "secret")
	var storeErr *database.StoreError
	s.ErrorAs(err, &storeErr)
}

func (s *ServiceTestSuite) TestLoginSucceedsOnlyWithRegisteredPassword() {
	s.Require().NoError(s.service.Register(s.ctx, "alice", "secret"))

	token, err := s.service.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	s.NotEmpty(token)

	for _, password := range []string{"Secret", "secret ", "", "wrong"} {
		_, err := s.service.Login(s.ctx, "alice", password)
		s.ErrorIs(err, ErrInvalidCredentials, "password %q", password)
	}
}

func (s *ServiceTestSuite) TestLoginUnknownUser() {
	_, err := s.service.Login(s.ctx, "bob", "secret")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceTestSuite) TestLoginStoreError() {
	s.db.GetUserByUsernameError = &database.StoreError{Op: "get user", Err: errors.New("connection refused")}

	_, err := s.service.Login(s.ctx, "alice", "secret")
	s.NotErrorIs(err, ErrInvalidCredentials)
	var storeErr *database.StoreError
	s.ErrorAs(err, &storeErr)
}

func (s *ServiceTestSuite) TestSessionLifecycle() {
	s.Require().NoError(s.service.Register(s.ctx, "alice", "secret"))
	token, err := s.service.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	info, err := s.service.RequireSession(s.ctx, token)
	s.Require().NoError(err)
	s.Equal("alice", info.Username)

	s.Require().NoError(s.service.Logout(s.ctx, token))
	_, err = s.service.RequireSession(s.ctx, token)
	s.ErrorIs(err, ErrUnauthenticated)

	// logging out again is a no-op
	s.NoError(s.service.Logout(s.ctx, token))
}

func (s *ServiceTestSuite) TestRequireSessionWithoutToken() {
	_, err := s.service.RequireSession(s.ctx, "")
	s.ErrorIs(err, ErrUnauthenticated)

	_, err = s.service.RequireSession(s.ctx, "not-a-token")
	s.ErrorIs(err, ErrUnauthenticated)
}

func (s *ServiceTestSuite) TestEachLoginGetsOwnSession() {
	s.Require().NoError(s.service.Register(s.ctx, "alice", "secret"))

	first, err := s.service.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	second, err := s.service.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	s.NotEqual(first, second)

	s.Require().NoError(s.service.Logout(s.ctx, first))
	_, err = s.service.RequireSession(s.ctx, second)
	s.NoError(err)
}

func TestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ServiceTestSuite))
}
