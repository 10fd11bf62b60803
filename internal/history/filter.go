package history

import (
	"strings"
	"time"

	"cliphist/pkg/types"
)

// Filter decides whether an observed clipboard value becomes a new capture.
// It remembers the last accepted candidate so an unchanged clipboard
// re-delivered by the host produces no duplicate. That state is deliberately
// independent of the store: removing an entry from the history does not make
// the same clipboard text acceptable again.
type Filter struct {
	lastAccepted string
	now          func() time.Time
}

// NewFilter creates a filter that has accepted nothing yet.
func NewFilter() *Filter {
	return &Filter{now: time.Now}
}

// Observe returns the capture for candidate and true if it should enter the
// history. Empty and whitespace-only values are rejected (images and other
// non-text content read as empty), as is a candidate identical to the last
// accepted one. The filter itself never touches the store; the caller inserts
// the returned entry.
func (f *Filter) Observe(candidate string) (types.Entry, bool) {
	if strings.TrimSpace(candidate) == "" || candidate == f.lastAccepted {
		return types.Entry{}, false
	}
	f.lastAccepted = candidate
	return types.Entry{Text: candidate, CapturedAt: f.now()}, true
}
