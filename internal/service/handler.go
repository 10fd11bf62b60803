package service

import "cliphist/pkg/types"

// ChangeHandler is implemented by components that need to be notified of
// accepted clipboard captures.
type ChangeHandler interface {
	HandleCapture(entry types.Entry)
}
