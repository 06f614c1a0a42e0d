package auth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/habitstack/stickerdb/internal/kvstore"
	"github.com/habitstack/stickerdb/internal/migration"
	"github.com/habitstack/stickerdb/internal/models"
)

const remoteID = "0d5a3c2e-9f1b-4c3a-8e7d-6b5a4c3d2e1f"

type fakeMigrator struct {
	calls  atomic.Int32
	block  chan struct{} // non-nil blocks until closed
	result migration.Result
}

func (f *fakeMigrator) MigrateGuestData(_ context.Context, _ string) migration.Result {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	return f.result
}

type fakeDirectory struct {
	users map[string]*models.User
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: make(map[string]*models.User)}
}

func (f *fakeDirectory) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeDirectory) CreateUser(_ context.Context, id, name, email string) (*models.User, error) {
	user := &models.User{ID: id, Name: name, Email: email}
	f.users[id] = user
	return user, nil
}

func okValidator(user *SessionUser) SessionValidator {
	return func(cookie string, roles []string) (*SessionUser, error) {
		if cookie == "good" {
			return user, nil
		}
		return nil, errors.New("session is not valid")
	}
}

func TestLocalFallbackSignUpLoginLogout(t *testing.T) {
	kv := kvstore.NewMemory()
	users := NewLocalUsers(kv)
	c := NewCoordinator(false, users, nil, nil, nil)

	assert.Equal(t, StateGuest, c.State())

	user, err := c.SignUp(SignUpInput{Name: "Kai", Email: "kai@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticatedLocal, c.State())
	assert.Equal(t, user.ID, c.User().ID)

	c.Logout()
	assert.Equal(t, StateGuest, c.State())
	assert.Nil(t, c.User())

	_, err = c.Login(LoginInput{Email: "kai@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, StateAuthenticatedLocal, c.State())
}

func TestLocalSessionRestoredAcrossRestart(t *testing.T) {
	kv := kvstore.NewMemory()
	users := NewLocalUsers(kv)
	c := NewCoordinator(false, users, nil, nil, nil)

	_, err := c.SignUp(SignUpInput{Name: "Kai", Email: "kai@example.com", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// A fresh coordinator over the same medium restores the session.
	restarted := NewCoordinator(false, NewLocalUsers(kv), nil, nil, nil)
	assert.Equal(t, StateAuthenticatedLocal, restarted.State())
	require.NotNil(t, restarted.User())
	assert.Equal(t, "kai@example.com", restarted.User().Email)
}

func TestLocalFlowsRejectedWhenRemoteConfigured(t *testing.T) {
	c := NewCoordinator(true, nil, &fakeMigrator{}, newFakeDirectory(), okValidator(nil))

	_, err := c.SignUp(SignUpInput{Name: "Kai", Email: "kai@example.com", Password: "hunter2hunter2"})
	assert.Error(t, err)

	_, err = c.Login(LoginInput{Email: "kai@example.com", Password: "hunter2hunter2"})
	assert.Error(t, err)
}

func TestResumeRemoteSession(t *testing.T) {
	sessionUser := &SessionUser{ID: remoteID, Name: "Kai", Email: "kai@example.com"}
	migrator := &fakeMigrator{result: migration.Result{Success: true, MigratedStickers: 3}}
	directory := newFakeDirectory()
	c := NewCoordinator(true, nil, migrator, directory, okValidator(sessionUser))

	user, err := c.ResumeRemoteSession(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, remoteID, user.ID)
	assert.Equal(t, StateAuthenticatedRemote, c.State())

	// The account row is created on first login.
	assert.NotNil(t, directory.users[remoteID])

	require.Eventually(t, func() bool {
		return c.Migration().Completed
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 3, c.Migration().Migrated)
	assert.Empty(t, c.Migration().Error)
}

func TestMigrationTriggersOncePerSession(t *testing.T) {
	sessionUser := &SessionUser{ID: remoteID, Email: "kai@example.com"}
	migrator := &fakeMigrator{result: migration.Result{Success: true}}
	c := NewCoordinator(true, nil, migrator, newFakeDirectory(), okValidator(sessionUser))

	for i := 0; i < 3; i++ {
		_, err := c.ResumeRemoteSession(context.Background(), "good")
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		return c.Migration().Completed
	}, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, migrator.calls.Load(), "repeated session resumes must not re-run migration")
}

func TestLogoutReArmsMigration(t *testing.T) {
	sessionUser := &SessionUser{ID: remoteID, Email: "kai@example.com"}
	migrator := &fakeMigrator{result: migration.Result{Success: true}}
	c := NewCoordinator(true, nil, migrator, newFakeDirectory(), okValidator(sessionUser))

	_, err := c.ResumeRemoteSession(context.Background(), "good")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return c.Migration().Completed
	}, time.Second, 10*time.Millisecond)

	c.Logout()
	assert.Equal(t, StateGuest, c.State())

	_, err = c.ResumeRemoteSession(context.Background(), "good")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return migrator.calls.Load() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestMigrationTimeoutIsNonFatal(t *testing.T) {
	sessionUser := &SessionUser{ID: remoteID, Email: "kai@example.com"}
	migrator := &fakeMigrator{block: make(chan struct{})}
	defer close(migrator.block)

	c := NewCoordinator(true, nil, migrator, newFakeDirectory(), okValidator(sessionUser))
	c.timeout = 50 * time.Millisecond

	_, err := c.ResumeRemoteSession(context.Background(), "good")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return c.Migration().Completed
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "migration timed out", c.Migration().Error)

	// The session itself stays valid.
	assert.Equal(t, StateAuthenticatedRemote, c.State())
}

func TestResumeRemoteSessionBadCookie(t *testing.T) {
	c := NewCoordinator(true, nil, &fakeMigrator{}, newFakeDirectory(), okValidator(&SessionUser{ID: remoteID}))

	_, err := c.ResumeRemoteSession(context.Background(), "bad")
	assert.Error(t, err)
	assert.Equal(t, StateGuest, c.State())
	assert.Nil(t, c.User())
}

func TestResumeRemoteSessionNotConfigured(t *testing.T) {
	c := NewCoordinator(false, NewLocalUsers(kvstore.NewMemory()), nil, nil, nil)

	_, err := c.ResumeRemoteSession(context.Background(), "good")
	assert.Error(t, err)
}
