package auth

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/authorizerdev/authorizer-go"
	"github.com/rs/zerolog/log"

	"github.com/habitstack/stickerdb/internal/config"
	"github.com/habitstack/stickerdb/internal/utils"
)

var (
	authClient *authorizer.AuthorizerClient
	authOnce   sync.Once
)

// IsAuthorizerInitialized returns true if the Authorizer client is initialized
func IsAuthorizerInitialized() bool {
	return authClient != nil
}

// InitAuthorizer initializes the Authorizer client. The client is a
// lazily-initialized single-assignment binding: the first successful call
// wins and later calls are no-ops.
func InitAuthorizer(cfg *config.Config, requestProtocol, requestHost string) error {
	var initErr error

	authOnce.Do(func() {
		if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
			initErr = fmt.Errorf("authorizer ping failed: %w", err)
			return
		}

		redirectURL := fmt.Sprintf("%s://%s", requestProtocol, requestHost)
		log.Info().Str("authorizer_url", cfg.AuthzURL).Str("redirect_url", redirectURL).
			Msg("initializing authorizer client")

		var err error
		authClient, err = authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
		if err != nil {
			initErr = fmt.Errorf("failed to create authorizer client: %w", err)
			return
		}
	})

	return initErr
}

// ValidateSession validates a session cookie for the given roles and returns
// the authenticated user.
func ValidateSession(cookie string, roles []string) (*SessionUser, error) {
	if authClient == nil {
		return nil, fmt.Errorf("authorizer client not initialized")
	}

	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := authClient.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}

	if res == nil || !res.IsValid {
		return nil, fmt.Errorf("session is not valid")
	}

	return sessionUserFromProvider(res.User)
}

// sessionUserFromProvider converts the provider's user object into the
// coordinator's session user via its JSON form, so SDK field renames cannot
// break compilation of the essential path.
func sessionUserFromProvider(user interface{}) (*SessionUser, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("invalid user data format: %w", err)
	}

	var decoded struct {
		ID         string  `json:"id"`
		Email      string  `json:"email"`
		GivenName  *string `json:"given_name"`
		Nickname   *string `json:"nickname"`
		FamilyName *string `json:"family_name"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("invalid user data format: %w", err)
	}
	if decoded.ID == "" {
		return nil, fmt.Errorf("user ID not found")
	}

	name := ""
	if decoded.GivenName != nil {
		name = *decoded.GivenName
	}
	if name == "" && decoded.Nickname != nil {
		name = *decoded.Nickname
	}

	return &SessionUser{ID: decoded.ID, Name: name, Email: decoded.Email}, nil
}
