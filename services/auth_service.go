//go:generate go run go.uber.org/mock/mockgen -source=auth_service.go -destination=../mocks/mock_auth_service.go -package=mocks
package services

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"justus/auth"
	"justus/domain/chat"
	"justus/errors"
	"justus/infrastructure/storage"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IAuthService interface {
	Register(req auth.RegisterRequest) (chat.Session, error)
	Login(req auth.LoginRequest) (chat.Session, error)
	ListUsers() ([]chat.Profile, error)
	TokenDuration() time.Duration
}

type AuthService struct {
	log      *slog.Logger
	users    storage.IUserRepository
	hasher   auth.PasswordHasher
	issuer   *auth.TokenIssuer
	maxUsers int
	now      func() time.Time
}

func NewAuthService(
	log *slog.Logger,
	users storage.IUserRepository,
	hasher auth.PasswordHasher,
	issuer *auth.TokenIssuer,
	maxUsers int,
) *AuthService {
	return &AuthService{
		log:      log,
		users:    users,
		hasher:   hasher,
		issuer:   issuer,
		maxUsers: maxUsers,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) TokenDuration() time.Duration {
	return s.issuer.Duration()
}

func (s *AuthService) Register(req auth.RegisterRequest) (chat.Session, error) {
	req = req.Normalize()

	// 1. Validate before any expensive cryptographic operation
	if err := auth.ValidateRegister(req); err != nil {
		return chat.Session{}, err
	}

	// 2. Cheap precheck, the store enforces the cap again atomically
	count, err := s.users.CountUsers()
	if err != nil {
		return chat.Session{}, err
	}
	if s.maxUsers > 0 && count >= s.maxUsers {
		return chat.Session{}, s.registrationClosed()
	}

	// 3. Hash in the service so the repository never sees plain passwords
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return chat.Session{}, fmt.Errorf("hashing failed: %w", err)
	}

	user, err := s.users.CreateUser(chat.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}, s.maxUsers)
	switch {
	case stderrors.Is(err, errors.ErrRegistrationClosed):
		return chat.Session{}, s.registrationClosed()
	case err != nil:
		return chat.Session{}, err
	}

	s.log.Info("User registered", "user_id", user.ID, "username", user.Username)
	return s.session(user)
}

func (s *AuthService) Login(req auth.LoginRequest) (chat.Session, error) {
	req = req.Normalize()
	if err := auth.ValidateLogin(req); err != nil {
		return chat.Session{}, err
	}

	// Generic error to prevent username enumeration
	user, err := s.users.GetUserByUsername(req.Username)
	if err != nil {
		if !stderrors.Is(err, errors.ErrNotFound) {
			s.log.Error("Unable to load user", "username", req.Username, "error", err)
		}
		return chat.Session{}, errors.ErrInvalidCredentials
	}
	match, err := s.hasher.Compare(req.Password, user.PasswordHash)
	if err != nil || !match {
		return chat.Session{}, errors.ErrInvalidCredentials
	}
	return s.session(user)
}

func (s *AuthService) ListUsers() ([]chat.Profile, error) {
	users, err := s.users.ListUsers()
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u chat.User, _ int) chat.Profile {
		return u.Profile()
	}), nil
}

func (s *AuthService) session(user chat.User) (chat.Session, error) {
	token, err := s.issuer.GenerateToken(user.ID, user.Username)
	if err != nil {
		s.log.Error("Unable to issue token", "user_id", user.ID, "error", err)
		return chat.Session{}, errors.ErrTokenGeneration
	}
	return chat.Session{Token: token, User: user.Profile()}, nil
}

func (s *AuthService) registrationClosed() error {
	return fmt.Errorf("%w: only %s users allowed", errors.ErrRegistrationClosed, numberWord(s.maxUsers))
}

var numberWords = []string{"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine", "ten"}

func numberWord(n int) string {
	if n >= 0 && n < len(numberWords) {
		return numberWords[n]
	}
	return strconv.Itoa(n)
}
