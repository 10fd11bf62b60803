package storage

import "cliphist/pkg/types"

// Bridge persists the clipboard history between runs. Load runs once at
// startup and Save once at shutdown; neither is ever called while the store
// is under concurrent access, so implementations need no locking.
type Bridge interface {
	// Load returns the persisted history, most recent first. Any read or
	// parse failure yields an empty history; startup never fails on it.
	Load() []types.Entry

	// Save writes the full history in its current order, best effort: it
	// attempts to create the data directory and silently gives up (after
	// logging) if the directory or file cannot be written.
	Save(entries []types.Entry)
}
