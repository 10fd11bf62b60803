package types

import "time"

// Entry is one captured clipboard text value. Entries are immutable;
// re-capturing the same text produces a fresh Entry with a new timestamp.
type Entry struct {
	Text       string
	CapturedAt time.Time
}

// Snippet is a piece of text saved out of the history for keeps.
type Snippet struct {
	ID        string
	Content   string
	CreatedAt time.Time
}
