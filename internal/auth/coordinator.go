// Package auth tracks identity and session state across the remote auth
// provider and the local fallback scheme, and owns the one-time migration
// trigger on entry into a remote-authenticated session.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/habitstack/stickerdb/internal/migration"
	"github.com/habitstack/stickerdb/internal/models"
)

// State is the coordinator's session state.
type State string

const (
	StateGuest              State = "guest"
	StateAuthenticating     State = "authenticating"
	StateAuthenticatedRemote State = "authenticated-remote"
	StateAuthenticatedLocal  State = "authenticated-local-fallback"
)

// SessionUser is the authenticated identity visible to the rest of the app.
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// MigrationStatus reports the session's migration attempt, if any.
type MigrationStatus struct {
	InProgress bool   `json:"inProgress"`
	Completed  bool   `json:"completed"`
	Error      string `json:"error,omitempty"`
	Migrated   int    `json:"migratedStickers"`
}

// Migrator transfers local data to the remote store.
type Migrator interface {
	MigrateGuestData(ctx context.Context, remoteUserID string) migration.Result
}

// UserDirectory is the remote store surface used to ensure an account row
// exists for an authenticated identity.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUser(ctx context.Context, id, name, email string) (*models.User, error)
}

// SessionValidator checks a remote session cookie and returns its user.
type SessionValidator func(cookie string, roles []string) (*SessionUser, error)

// MigrationTimeout bounds how long a session waits on the migration outcome.
// A slower migration keeps running but its result is discarded.
const MigrationTimeout = 10 * time.Second

// Coordinator owns session state for the process lifetime.
type Coordinator struct {
	remoteConfigured bool
	users            *LocalUsers
	migrator         Migrator
	directory        UserDirectory
	validateSession  SessionValidator
	timeout          time.Duration

	mu        sync.Mutex
	state     State
	user      *SessionUser
	migration MigrationStatus
	// migrationDone guards the one-shot trigger so repeated session-state
	// notifications cannot re-run the migration within one session.
	migrationDone bool
}

// NewCoordinator creates the coordinator. When remoteConfigured is false the
// coordinator operates permanently in local fallback and never migrates.
func NewCoordinator(remoteConfigured bool, users *LocalUsers, migrator Migrator, directory UserDirectory, validate SessionValidator) *Coordinator {
	c := &Coordinator{
		remoteConfigured: remoteConfigured,
		users:            users,
		migrator:         migrator,
		directory:        directory,
		validateSession:  validate,
		timeout:          MigrationTimeout,
		state:            StateGuest,
	}

	// Restore a persisted local fallback session across restarts.
	if !remoteConfigured && users != nil {
		if stored := users.loadAuthState(); stored != nil && stored.IsAuthenticated && stored.User != nil {
			c.state = StateAuthenticatedLocal
			c.user = stored.User
		}
	}

	return c
}

// State returns the current session state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// User returns the authenticated identity, or nil for a guest session.
func (c *Coordinator) User() *SessionUser {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Migration returns the session's migration status.
func (c *Coordinator) Migration() MigrationStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.migration
}

// RemoteConfigured reports whether the remote auth provider is available.
func (c *Coordinator) RemoteConfigured() bool {
	return c.remoteConfigured
}

// SignUp creates a local fallback account and signs it in. It fails when the
// remote provider is configured, because account creation then belongs to the
// provider's own hosted flow.
func (c *Coordinator) SignUp(input SignUpInput) (*SessionUser, error) {
	if c.remoteConfigured {
		return nil, fmt.Errorf("sign up is handled by the auth provider")
	}

	c.setState(StateAuthenticating, nil)
	user, err := c.users.SignUp(input)
	if err != nil {
		c.setState(StateGuest, nil)
		return nil, err
	}

	c.setState(StateAuthenticatedLocal, user)
	c.users.saveAuthState(storedAuthState{IsAuthenticated: true, User: user})
	return user, nil
}

// Login authenticates a local fallback account.
func (c *Coordinator) Login(input LoginInput) (*SessionUser, error) {
	if c.remoteConfigured {
		return nil, fmt.Errorf("login is handled by the auth provider")
	}

	c.setState(StateAuthenticating, nil)
	user, err := c.users.Login(input)
	if err != nil {
		c.setState(StateGuest, nil)
		return nil, err
	}

	c.setState(StateAuthenticatedLocal, user)
	c.users.saveAuthState(storedAuthState{IsAuthenticated: true, User: user})
	return user, nil
}

// ResumeRemoteSession validates a provider session cookie, ensures the
// account row exists, and enters the remote-authenticated state. The first
// entry per session triggers the guest data migration; its outcome never
// blocks or invalidates the session.
func (c *Coordinator) ResumeRemoteSession(ctx context.Context, cookie string) (*SessionUser, error) {
	if !c.remoteConfigured {
		return nil, fmt.Errorf("remote auth provider not configured")
	}

	c.setState(StateAuthenticating, nil)

	user, err := c.validateSession(cookie, []string{"user"})
	if err != nil {
		c.setState(StateGuest, nil)
		return nil, err
	}

	if err := c.ensureProfile(ctx, user); err != nil {
		c.setState(StateGuest, nil)
		return nil, err
	}

	c.mu.Lock()
	c.state = StateAuthenticatedRemote
	c.user = user
	trigger := !c.migrationDone
	if trigger {
		c.migrationDone = true
		c.migration = MigrationStatus{InProgress: true}
	}
	c.mu.Unlock()

	if trigger {
		go c.runMigration(user.ID)
	}

	return user, nil
}

// Logout ends the session and re-arms the migration trigger for the next one.
func (c *Coordinator) Logout() {
	c.mu.Lock()
	c.state = StateGuest
	c.user = nil
	c.migrationDone = false
	c.migration = MigrationStatus{}
	c.mu.Unlock()

	if !c.remoteConfigured && c.users != nil {
		c.users.saveAuthState(storedAuthState{})
	}
}

// ensureProfile creates the remote account row on first login.
func (c *Coordinator) ensureProfile(ctx context.Context, user *SessionUser) error {
	existing, err := c.directory.GetUserByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	_, err = c.directory.CreateUser(ctx, user.ID, user.Name, user.Email)
	return err
}

// runMigration executes the guest data migration with a bounded wait. On
// timeout the migration may still finish in the background, but its result is
// discarded and recorded as a failed, non-fatal attempt.
func (c *Coordinator) runMigration(remoteUserID string) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	done := make(chan migration.Result, 1)
	go func() {
		done <- c.migrator.MigrateGuestData(ctx, remoteUserID)
	}()

	var status MigrationStatus
	select {
	case res := <-done:
		status = MigrationStatus{Completed: true, Migrated: res.MigratedStickers, Error: res.Error}
		if !res.Success {
			log.Warn().Str("user_id", remoteUserID).Str("error", res.Error).
				Msg("guest data migration failed, session remains valid")
		}
	case <-ctx.Done():
		status = MigrationStatus{Completed: true, Error: "migration timed out"}
		log.Warn().Str("user_id", remoteUserID).Msg("guest data migration timed out, session remains valid")
	}

	c.mu.Lock()
	c.migration = status
	c.mu.Unlock()
}

func (c *Coordinator) setState(state State, user *SessionUser) {
	c.mu.Lock()
	c.state = state
	c.user = user
	c.mu.Unlock()
}
