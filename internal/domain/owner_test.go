package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOwnerGuest(t *testing.T) {
	assert.True(t, Guest.IsGuest())
	assert.False(t, Guest.IsDurable())
	assert.Equal(t, "guest", Guest.Prefix())
}

func TestOwnerDurable(t *testing.T) {
	// Local fallback accounts carry millisecond timestamps as IDs.
	local := UserOwner("1767225600000")
	assert.False(t, local.IsGuest())
	assert.False(t, local.IsDurable())
	assert.Equal(t, "user-1767225600000", local.Prefix())

	remote := UserOwner("0d5a3c2e-9f1b-4c3a-8e7d-6b5a4c3d2e1f")
	assert.True(t, remote.IsDurable())
	assert.Equal(t, "user-0d5a3c2e-9f1b-4c3a-8e7d-6b5a4c3d2e1f", remote.Prefix())
}
