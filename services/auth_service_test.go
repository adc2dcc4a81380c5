package services

import (
	"log/slog"
	"testing"
	"time"

	"justus/auth"
	"justus/domain/chat"
	"justus/errors"
	"justus/mocks"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var cheapArgon2 = auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func newAuthService(t *testing.T, maxUsers int) (*AuthService, *mocks.MockIUserRepository, *auth.TokenIssuer) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIUserRepository(ctrl)
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := NewAuthService(logs.GetLoggerFromLevel(slog.LevelDebug), repo, auth.NewPasswordHasher(cheapArgon2), issuer, maxUsers)
	return svc, repo, issuer
}

func TestAuthService_Register(t *testing.T) {
	t.Run("should register successfully when input is valid", func(t *testing.T) {
		req := require.New(t)
		svc, repo, issuer := newAuthService(t, 2)

		repo.EXPECT().CountUsers().Return(0, nil)
		repo.EXPECT().CreateUser(gomock.Any(), 2).
			DoAndReturn(func(u chat.User, _ int) (chat.User, error) {
				// The repository only ever sees the hash
				req.NotEqual("pw", u.PasswordHash)
				req.Equal("alice", u.DisplayName)
				return u, nil
			})

		session, err := svc.Register(auth.RegisterRequest{Username: " alice ", Password: "pw"})

		req.NoError(err)
		req.Equal("alice", session.User.Username)
		claims, err := issuer.ValidateToken(session.Token)
		req.NoError(err)
		req.Equal(session.User.ID, claims.UserID)
	})

	t.Run("should fail when a field is missing", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newAuthService(t, 2)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(auth.RegisterRequest{Username: "alice"})
		req.ErrorIs(err, errors.ErrValidation)
	})

	t.Run("should close registration once the cap is reached", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newAuthService(t, 2)
		repo.EXPECT().CountUsers().Return(2, nil)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.Register(auth.RegisterRequest{Username: "carol", Password: "pw"})

		req.ErrorIs(err, errors.ErrRegistrationClosed)
		req.Equal("Registration closed: only two users allowed", errors.PublicMessage(err))
	})

	t.Run("should report the cap when a concurrent registration won", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newAuthService(t, 2)
		repo.EXPECT().CountUsers().Return(1, nil)
		repo.EXPECT().CreateUser(gomock.Any(), 2).Return(chat.User{}, errors.ErrRegistrationClosed)

		_, err := svc.Register(auth.RegisterRequest{Username: "carol", Password: "pw"})
		req.Equal("Registration closed: only two users allowed", errors.PublicMessage(err))
	})

	t.Run("should fail when the username is taken", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newAuthService(t, 2)
		repo.EXPECT().CountUsers().Return(1, nil)
		repo.EXPECT().CreateUser(gomock.Any(), 2).Return(chat.User{}, errors.ErrUserAlreadyExists)

		_, err := svc.Register(auth.RegisterRequest{Username: "alice", Password: "pw"})
		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	hash, err := auth.NewPasswordHasher(cheapArgon2).Hash("Secret123456!")
	require.NoError(t, err)
	stored := chat.User{ID: "uuid-123", Username: "alice", DisplayName: "Alice", PasswordHash: hash}

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newAuthService(t, 2)
		repo.EXPECT().GetUserByUsername("alice").Return(stored, nil)

		session, err := svc.Login(auth.LoginRequest{Username: "alice", Password: "Secret123456!"})

		req.NoError(err)
		req.Equal(stored.Profile(), session.User)
		req.NotEmpty(session.Token)
	})

	t.Run("should not tell a wrong password from an unknown user", func(t *testing.T) {
		req := require.New(t)
		svc, repo, _ := newAuthService(t, 2)
		repo.EXPECT().GetUserByUsername("alice").Return(stored, nil)
		repo.EXPECT().GetUserByUsername("ghost").Return(chat.User{}, errors.ErrNotFound)

		_, wrongPassword := svc.Login(auth.LoginRequest{Username: "alice", Password: "nope"})
		_, unknownUser := svc.Login(auth.LoginRequest{Username: "ghost", Password: "nope"})

		req.ErrorIs(wrongPassword, errors.ErrInvalidCredentials)
		req.ErrorIs(unknownUser, errors.ErrInvalidCredentials)
	})
}

func TestAuthService_ListUsers(t *testing.T) {
	req := require.New(t)
	svc, repo, _ := newAuthService(t, 2)
	repo.EXPECT().ListUsers().Return([]chat.User{
		{ID: "1", Username: "alice", DisplayName: "Alice", PasswordHash: "secret"},
	}, nil)

	profiles, err := svc.ListUsers()
	req.NoError(err)
	req.Equal([]chat.Profile{{ID: "1", Username: "alice", DisplayName: "Alice"}}, profiles)
}
