package auth

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/habitstack/stickerdb/internal/kvstore"
	"github.com/habitstack/stickerdb/pkg/hash"
)

const (
	usersKey     = "users"
	authStateKey = "auth-state"
)

// SignUpInput is the payload for account creation.
type SignUpInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput is the payload for authentication.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// localUser is one stored fallback account. IDs are numeric tokens, which is
// what distinguishes fallback identities from durable remote ones.
type localUser struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// storedAuthState is the persisted session snapshot.
type storedAuthState struct {
	IsAuthenticated bool         `json:"isAuthenticated"`
	User            *SessionUser `json:"user"`
}

// LocalUsers manages fallback accounts in the local key-value medium, used
// when no remote auth provider is configured.
type LocalUsers struct {
	kv       kvstore.Store
	validate *validator.Validate
	newID    func() string
}

// NewLocalUsers creates the fallback user directory.
func NewLocalUsers(kv kvstore.Store) *LocalUsers {
	return &LocalUsers{
		kv:       kv,
		validate: validator.New(),
		newID: func() string {
			return strconv.FormatInt(time.Now().UnixMilli(), 10)
		},
	}
}

// SignUp validates the input, creates the account, and returns the new user.
func (l *LocalUsers) SignUp(input SignUpInput) (*SessionUser, error) {
	if err := l.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid sign up input: %w", err)
	}

	users := l.loadUsers()
	for _, u := range users {
		if u.Email == input.Email {
			return nil, fmt.Errorf("email already registered")
		}
	}

	hashed, err := hash.Password(input.Password)
	if err != nil {
		return nil, err
	}

	user := localUser{
		ID:           l.newID(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashed,
	}
	users = append(users, user)
	if err := l.saveUsers(users); err != nil {
		return nil, err
	}

	return &SessionUser{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

// Login checks credentials against the stored accounts.
func (l *LocalUsers) Login(input LoginInput) (*SessionUser, error) {
	if err := l.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid login input: %w", err)
	}

	for _, u := range l.loadUsers() {
		if u.Email != input.Email {
			continue
		}
		if err := hash.Compare(u.PasswordHash, input.Password); err != nil {
			break
		}
		return &SessionUser{ID: u.ID, Name: u.Name, Email: u.Email}, nil
	}

	return nil, fmt.Errorf("email or password is incorrect")
}

// loadUsers reads the account list; read failures degrade to an empty list.
func (l *LocalUsers) loadUsers() []localUser {
	raw, found, err := l.kv.Get(usersKey)
	if err != nil {
		log.Error().Err(err).Msg("failed to load local users")
		return nil
	}
	if !found {
		return nil
	}
	var users []localUser
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		log.Error().Err(err).Msg("failed to parse local users")
		return nil
	}
	return users
}

func (l *LocalUsers) saveUsers(users []localUser) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return l.kv.Set(usersKey, string(raw))
}

// saveAuthState persists the current session snapshot; failures are logged
// because local storage is best-effort.
func (l *LocalUsers) saveAuthState(state storedAuthState) {
	raw, err := json.Marshal(state)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode auth state")
		return
	}
	if err := l.kv.Set(authStateKey, string(raw)); err != nil {
		log.Error().Err(err).Msg("failed to save auth state")
	}
}

// loadAuthState restores the last persisted session snapshot, if any.
func (l *LocalUsers) loadAuthState() *storedAuthState {
	raw, found, err := l.kv.Get(authStateKey)
	if err != nil {
		log.Error().Err(err).Msg("failed to load auth state")
		return nil
	}
	if !found {
		return nil
	}
	var state storedAuthState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Error().Err(err).Msg("failed to parse auth state")
		return nil
	}
	return &state
}
