// Package kvstore provides the string-keyed key-value medium that backs all
// local persistence: sticker grids, labels, fallback users, and session state.
package kvstore

// Store is a durable string-keyed key-value store. Values are JSON documents.
type Store interface {
	// Get returns the value for key, with found=false when the key is absent.
	Get(key string) (value string, found bool, err error)
	// Set writes the value for key, creating or replacing it.
	Set(key, value string) error
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(key string) error
	// Keys returns all keys beginning with prefix, in unspecified order.
	Keys(prefix string) ([]string, error)
}
