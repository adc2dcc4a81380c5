//go:generate go run go.uber.org/mock/mockgen -source=user_repository.go -destination=../../mocks/mock_user_repository.go -package=mocks
package storage

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"sort"

	"justus/domain/chat"
	"justus/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IUserRepository interface {
	CreateUser(user chat.User, maxUsers int) (chat.User, error)
	GetUserByID(id string) (chat.User, error)
	GetUserByUsername(username string) (chat.User, error)
	GetUsersByIDs(ids []string) (map[string]chat.User, error)
	ListUsers() ([]chat.User, error)
	CountUsers() (int, error)
}

type UserRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewUserRepository(db *badger.DB, log *slog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

// CreateUser persists a new account. The username uniqueness check, the
// registration cap and the counter increment share one transaction so that
// concurrent registrations can never exceed maxUsers. maxUsers <= 0 disables
// the cap.
func (u *UserRepository) CreateUser(user chat.User, maxUsers int) (chat.User, error) {
	err := update(u.db, func(txn *badger.Txn) error {
		_, err := txn.Get(userNameKey(user.Username))
		if err == nil {
			return errors.ErrUserAlreadyExists
		}
		if !stderrors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		count, err := getCounter(txn, []byte(userCountKey))
		if err != nil {
			return err
		}
		if maxUsers > 0 && count >= uint64(maxUsers) {
			return errors.ErrRegistrationClosed
		}
		if err = setJSON(txn, userKey(user.ID), user); err != nil {
			return err
		}
		if err = txn.Set(userNameKey(user.Username), []byte(user.ID)); err != nil {
			return err
		}
		return setCounter(txn, []byte(userCountKey), count+1)
	})
	if err != nil {
		return chat.User{}, err
	}
	u.log.Debug("User created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (u *UserRepository) GetUserByID(id string) (chat.User, error) {
	var user chat.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		user, err = getJSON[chat.User](txn, userKey(id))
		return err
	})
	return user, err
}

func (u *UserRepository) GetUserByUsername(username string) (chat.User, error) {
	var user chat.User
	err := u.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, userNameKey(username))
		if err != nil {
			return err
		}
		user, err = getJSON[chat.User](txn, userKey(id))
		return err
	})
	return user, err
}

// GetUsersByIDs resolves every distinct ID inside a single read transaction.
// Unknown IDs are simply absent from the result.
func (u *UserRepository) GetUsersByIDs(ids []string) (map[string]chat.User, error) {
	users := make(map[string]chat.User, len(ids))
	err := u.db.View(func(txn *badger.Txn) error {
		for _, id := range lo.Uniq(ids) {
			user, err := getJSON[chat.User](txn, userKey(id))
			if stderrors.Is(err, errors.ErrNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("user %s: %w", id, err)
			}
			users[id] = user
		}
		return nil
	})
	return users, err
}

// ListUsers returns accounts in registration order.
func (u *UserRepository) ListUsers() ([]chat.User, error) {
	var users []chat.User
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		users, err = scanValues[chat.User](txn, []byte(userIDPrefix))
		return err
	})
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, err
}

func (u *UserRepository) CountUsers() (int, error) {
	var count uint64
	err := u.db.View(func(txn *badger.Txn) error {
		var err error
		count, err = getCounter(txn, []byte(userCountKey))
		return err
	})
	return int(count), err
}
