package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"momo-insights/pkg"
	"momo-insights/pkg/models"
)

type stubUserRepo struct {
	users     map[string]models.User
	createErr error
	findErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]models.User)}
}

func (s *stubUserRepo) Create(_ context.Context, user models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.users[user.Username]; ok {
		return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	}
	s.users[user.Username] = user
	return nil
}

func (s *stubUserRepo) FindByUsername(_ context.Context, username string) (models.User, error) {
	if s.findErr != nil {
		return models.User{}, s.findErr
	}
	user, ok := s.users[username]
	if !ok {
		return models.User{}, pgx.ErrNoRows
	}
	return user, nil
}

func errorCode(t *testing.T, err error) pkg.ErrorCode {
	t.Helper()
	var appErr pkg.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

func TestRegister_StoresBcryptHash(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(zap.NewNop(), nil, repo)

	err := svc.Register(context.Background(), "trace-1", "alice", "s3cret-passw0rd")
	require.NoError(t, err)

	stored := repo.users["alice"]
	assert.NotEqual(t, "s3cret-passw0rd", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-passw0rd")))
	assert.NotEqual(t, stored.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(zap.NewNop(), nil, repo)

	require.NoError(t, svc.Register(context.Background(), "trace-1", "alice", "s3cret-passw0rd"))

	err := svc.Register(context.Background(), "trace-2", "alice", "another-passw0rd")
	require.Error(t, err)
	assert.Equal(t, pkg.ErrInvalidInputCode.Code, errorCode(t, err).Code)
	assert.Equal(t, pkg.ErrUsernameTaken.Error(), pkg.UserMessage(err))
}

func TestRegister_TrimsUsername(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(zap.NewNop(), nil, repo)

	require.NoError(t, svc.Register(context.Background(), "trace-1", "  alice  ", "s3cret-passw0rd"))
	_, ok := repo.users["alice"]
	assert.True(t, ok)
}

func TestLogin_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(zap.NewNop(), nil, repo)
	require.NoError(t, svc.Register(context.Background(), "trace-1", "alice", "s3cret-passw0rd"))

	user, err := svc.Login(context.Background(), "trace-2", "alice", "s3cret-passw0rd")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, repo.users["alice"].ID, user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(zap.NewNop(), nil, repo)
	require.NoError(t, svc.Register(context.Background(), "trace-1", "alice", "s3cret-passw0rd"))

	_, err := svc.Login(context.Background(), "trace-2", "alice", "wrong-passw0rd")
	require.Error(t, err)
	assert.Equal(t, pkg.ErrAuthCode.Code, errorCode(t, err).Code)
}

func TestLogin_UnknownUserLooksLikeWrongPassword(t *testing.T) {
	svc := NewAuthService(zap.NewNop(), nil, newStubUserRepo())

	_, err := svc.Login(context.Background(), "trace-1", "nobody", "whatever1")
	require.Error(t, err)
	assert.Equal(t, pkg.ErrAuthCode.Code, errorCode(t, err).Code)
	assert.Equal(t, pkg.ErrInvalidCredential.Error(), pkg.UserMessage(err))
}

func TestRegister_PaddedUsernameTooShortAfterTrim(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewAuthService(zap.NewNop(), nil, repo)

	err := svc.Register(context.Background(), "trace-1", "  ab  ", "s3cret-passw0rd")
	require.Error(t, err)
	assert.Equal(t, pkg.ErrInvalidInputCode.Code, errorCode(t, err).Code)
	assert.Empty(t, repo.users)
}

func TestLogin_RepoFailureIsNotBadCredentials(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("dial tcp 10.0.0.5:5432: connection refused")
	svc := NewAuthService(zap.NewNop(), nil, repo)

	_, err := svc.Login(context.Background(), "trace-1", "alice", "s3cret-passw0rd")
	require.Error(t, err)

	code := errorCode(t, err)
	assert.Equal(t, pkg.ErrSQLUnknownCode.Code, code.Code)
	assert.Equal(t, http.StatusInternalServerError, code.Status)
}

func TestLogin_RateLimited(t *testing.T) {
	repo := newStubUserRepo()
	limiter := pkg.NewLoginLimiter(nil, 1, 2, time.Minute, zap.NewNop())
	svc := NewAuthService(zap.NewNop(), limiter, repo)
	require.NoError(t, svc.Register(context.Background(), "trace-1", "alice", "s3cret-passw0rd"))

	// Burst of two attempts passes, the third is throttled.
	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), "trace-2", "alice", "wrong-passw0rd")
		assert.Equal(t, pkg.ErrAuthCode.Code, errorCode(t, err).Code)
	}
	_, err := svc.Login(context.Background(), "trace-3", "alice", "s3cret-passw0rd")
	require.Error(t, err)
	assert.Equal(t, pkg.ErrTooManyAttemptsCode.Code, errorCode(t, err).Code)
}
