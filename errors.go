package assent

import (
	"errors"

	"github.com/viant/assent/policy"
)

// Programmer-error signals. They are returned before any state changes and
// can be matched with errors.Is.
var (
	// ErrInvalidKey indicates that a waiter key failed the key policy.
	ErrInvalidKey = policy.ErrInvalidKey

	// ErrInvalidCallback indicates a nil waiter or request callback.
	ErrInvalidCallback = errors.New("invalid callback")

	// ErrAlreadyPending is returned when a request is submitted while another
	// one still awaits consent.
	ErrAlreadyPending = errors.New("request already pending")
)
