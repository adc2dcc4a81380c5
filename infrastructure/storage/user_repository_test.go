package storage

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"justus/domain/chat"
	"justus/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newUser(username string, at time.Time) chat.User {
	return chat.User{ID: uuid.NewString(), Username: username, DisplayName: username, PasswordHash: "hash", CreatedAt: at}
}

func TestUserRepository_CreateAndLookup(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t), testLogger())
	now := time.Now().UTC()

	alice, err := repo.CreateUser(newUser("alice", now), 2)
	req.NoError(err)

	byName, err := repo.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal(alice, byName)

	byID, err := repo.GetUserByID(alice.ID)
	req.NoError(err)
	req.Equal(alice, byID)

	_, err = repo.GetUserByUsername("bob")
	req.ErrorIs(err, errors.ErrNotFound)
}

func TestUserRepository_RejectsDuplicateAndEnforcesCap(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t), testLogger())
	now := time.Now().UTC()

	_, err := repo.CreateUser(newUser("alice", now), 2)
	req.NoError(err)

	_, err = repo.CreateUser(newUser("alice", now), 2)
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	_, err = repo.CreateUser(newUser("bob", now.Add(time.Second)), 2)
	req.NoError(err)

	_, err = repo.CreateUser(newUser("carol", now.Add(2*time.Second)), 2)
	req.ErrorIs(err, errors.ErrRegistrationClosed)

	count, err := repo.CountUsers()
	req.NoError(err)
	req.Equal(2, count)

	users, err := repo.ListUsers()
	req.NoError(err)
	req.Len(users, 2)
	req.Equal("alice", users[0].Username)
	req.Equal("bob", users[1].Username)
}

func TestUserRepository_ConcurrentRegistrationsNeverExceedCap(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t), testLogger())

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.CreateUser(newUser(fmt.Sprintf("user-%d", i), time.Now().UTC()), 2)
		}()
	}
	wg.Wait()

	count, err := repo.CountUsers()
	req.NoError(err)
	req.LessOrEqual(count, 2)
	users, err := repo.ListUsers()
	req.NoError(err)
	req.Len(users, count)
}

func TestUserRepository_GetUsersByIDs(t *testing.T) {
	req := require.New(t)
	repo := NewUserRepository(openTestDB(t), testLogger())
	now := time.Now().UTC()
	alice, err := repo.CreateUser(newUser("alice", now), 0)
	req.NoError(err)
	bob, err := repo.CreateUser(newUser("bob", now), 0)
	req.NoError(err)

	users, err := repo.GetUsersByIDs([]string{alice.ID, bob.ID, alice.ID, "ghost"})
	req.NoError(err)
	req.Len(users, 2)
	req.Equal("alice", users[alice.ID].Username)
	req.Equal("bob", users[bob.ID].Username)
}
