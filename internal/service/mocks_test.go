package service_test

import (
	"context"
	"database/sql"
	"time"

	"club-admin-server/internal/model"
	"club-admin-server/internal/security"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// ===== MOCKS =====

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, exec sqlx.ExtContext, user *model.User) error {
	args := m.Called(ctx, exec, user)
	return args.Error(0)
}

func (m *MockUserRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	exec, _ := args.Get(0).(sqlx.ExtContext)
	rollback, _ := args.Get(1).(func() error)
	commit, _ := args.Get(2).(func() error)
	return exec, rollback, commit, args.Error(3)
}

// fakeTx : exec транзакции для моков, считает commit и rollback
type fakeTx struct {
	commits   int
	rollbacks int
}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return &sqlx.Row{}
}
func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return "", nil, nil
}
func (f *fakeTx) DriverName() string         { return "fake" }
func (f *fakeTx) Rebind(query string) string { return query }

// expectTx : BeginTX мока возвращает fakeTx. Rollback после commit не считается
func expectTx(users *MockUserRepository) *fakeTx {
	tx := &fakeTx{}
	users.On("BeginTX", mock.Anything).Return(tx,
		func() error {
			if tx.commits == 0 {
				tx.rollbacks++
			}
			return nil
		},
		func() error {
			tx.commits++
			return nil
		},
		nil)
	return tx
}

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) SetRefreshToken(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockSessionRepository) GetRefreshToken(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockSessionRepository) HasKeyRefreshToken(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionRepository) DeleteRefreshToken(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockSessionRepository) SetBlackList(ctx context.Context, token, identityTag string, ttl time.Duration) error {
	args := m.Called(ctx, token, identityTag, ttl)
	return args.Error(0)
}

func (m *MockSessionRepository) HasKeyBlackList(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) CreateTokens(userID int64, username string, role model.Role) (*model.TokensPair, error) {
	args := m.Called(userID, username, role)
	if t, ok := args.Get(0).(*model.TokensPair); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) ParseRefreshToken(tokenStr string) (*security.Claims, error) {
	args := m.Called(tokenStr)
	if c, ok := args.Get(0).(*security.Claims); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) GetExpiration(tokenStr string) (int64, error) {
	args := m.Called(tokenStr)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockJWTService) ResolveToken(header string) (string, error) {
	args := m.Called(header)
	return args.String(0), args.Error(1)
}

type MockPasswordEncoder struct {
	mock.Mock
}

func (m *MockPasswordEncoder) Hash(rawPassword string) (string, error) {
	args := m.Called(rawPassword)
	return args.String(0), args.Error(1)
}

func (m *MockPasswordEncoder) Matches(rawPassword, hash string) bool {
	args := m.Called(rawPassword, hash)
	return args.Bool(0)
}

func (m *MockPasswordEncoder) MatchesDummy(rawPassword string) {
	m.Called(rawPassword)
}

type MockSessionInvalidator struct {
	mock.Mock
}

func (m *MockSessionInvalidator) InvalidateAccessToken(ctx context.Context, username, authorizationHeader string) error {
	args := m.Called(ctx, username, authorizationHeader)
	return args.Error(0)
}

// ===== FIXTURES =====

func testUser(id int64, username string, role model.Role) *model.User {
	return model.NewUser(username, "hash-"+username, role, "Kim "+username, "010-0000-0000").WithID(id)
}

func testTokens(suffix string) *model.TokensPair {
	return &model.TokensPair{AccessToken: "access-" + suffix, RefreshToken: "refresh-" + suffix}
}
