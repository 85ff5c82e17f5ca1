package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for placement operations.
var (
	// ErrNoCapacity is returned when a rack has no free unit range of the
	// required size.
	ErrNoCapacity = errors.New("no free capacity in rack")

	// ErrNoShelfSlot is returned when a shelf has no room left.
	ErrNoShelfSlot = errors.New("no free shelf slot")

	// ErrIncompatible is returned when a device does not match a shelf's size class.
	ErrIncompatible = errors.New("device not compatible with shelf type")

	// ErrRequiresShelf is returned when a 3U or 4U device is placed directly on a rack unit.
	ErrRequiresShelf = errors.New("device size requires a shelf")

	// ErrShelfInShelf is returned when a shelf is dropped into another shelf.
	ErrShelfInShelf = errors.New("shelves cannot be nested")

	ErrSlotOutOfRange = errors.New("shelf slot out of range")
	ErrSlotOccupied   = errors.New("shelf slot occupied")
	ErrNotShelf       = errors.New("element is not a shelf")

	// ErrNoTarget is returned when a point is outside every rack and shelf.
	// Callers ignore it silently.
	ErrNoTarget = errors.New("no rack or shelf at point")
)

// RejectedError reports a recoverable placement failure. Message is meant
// for the user; Reason is one of the sentinel errors above.
type RejectedError struct {
	Reason  error
	Message string
}

// Reject wraps reason with a user-facing message.
func Reject(reason error, format string, args ...any) error {
	return &RejectedError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return e.Reason.Error()
	}
	return e.Message
}

// Unwrap returns the sentinel reason.
func (e *RejectedError) Unwrap() error { return e.Reason }

// IsRejected reports whether err is a RejectedError.
func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}
