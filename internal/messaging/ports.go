//go:generate go run go.uber.org/mock/mockgen -source=ports.go -destination=../mocks/mock_ports.go -package=mocks
package messaging

import (
	"context"

	"careerhub/server/internal/models"
)

// MessageStore is the durable, append-only log of direct messages.
// Implementations must return each message from exactly one of
// FindBySender and FindByReceiver for a given user.
type MessageStore interface {
	Append(ctx context.Context, message models.Message) (models.Message, error)
	FindBySender(ctx context.Context, userID string) ([]models.Message, error)
	FindByReceiver(ctx context.Context, userID string) ([]models.Message, error)
	// Get returns ErrMessageNotFound when no message has this id.
	Get(ctx context.Context, messageID string) (models.Message, error)
	// MarkRead flips read to true on every listed message in one atomic step
	// and returns how many of them were unread before the call.
	MarkRead(ctx context.Context, messageIDs []string) (int, error)
}

// IdentityResolver looks up users owned by the account service.
type IdentityResolver interface {
	// GetProfile returns nil and no error when the user does not exist.
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
}
