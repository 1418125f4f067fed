package messaging

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrStore        = errors.New("store failure")

	ErrNotRecipient    = fmt.Errorf("%w: only the receiver can mark a message as read", ErrUnauthorized)
	ErrSelfMessage     = fmt.Errorf("%w: cannot send a message to yourself", ErrValidation)
	ErrMessageNotFound = fmt.Errorf("message %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
)

// storeFailure wraps err as ErrStore unless it already belongs to the taxonomy.
func storeFailure(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) || errors.Is(err, ErrUnauthorized) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
