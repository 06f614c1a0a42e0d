package domain

import (
	"fmt"
	"strconv"
)

// Owner identifies who a piece of sticker data belongs to: the shared guest
// pseudo-identity, or a specific user.
type Owner struct {
	// UserID is empty for the guest owner. Local fallback users carry
	// numeric tokens; remote accounts carry opaque non-numeric tokens.
	UserID string
}

// Guest is the shared unauthenticated owner.
var Guest = Owner{}

// UserOwner returns the owner for the given user id.
func UserOwner(id string) Owner {
	return Owner{UserID: id}
}

// IsGuest reports whether o is the guest owner.
func (o Owner) IsGuest() bool {
	return o.UserID == ""
}

// IsDurable reports whether o is a durable remote identity. Local fallback
// identities are purely numeric tokens; remote identities are not.
func (o Owner) IsDurable() bool {
	if o.UserID == "" {
		return false
	}
	if _, err := strconv.ParseUint(o.UserID, 10, 64); err == nil {
		return false
	}
	return true
}

// Prefix is the namespace used in local storage keys for this owner.
func (o Owner) Prefix() string {
	if o.IsGuest() {
		return "guest"
	}
	return fmt.Sprintf("user-%s", o.UserID)
}

func (o Owner) String() string {
	return o.Prefix()
}
