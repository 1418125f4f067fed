// Package messaging implements direct messages between two users and the
// conversation views derived from them on read.
package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"careerhub/server/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// SendCommand carries the caller-supplied part of a new message
type SendCommand struct {
	ReceiverID string  `json:"receiverId" validate:"required"`
	Content    string  `json:"content" validate:"required_without=FileURL,max=5000"`
	FileURL    *string `json:"fileUrl,omitempty" validate:"omitempty,uri"`
}

type Service struct {
	store MessageStore
	users IdentityResolver
	log   *slog.Logger
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now as the source of message timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store MessageStore, users IdentityResolver, log *slog.Logger, opts ...Option) *Service {
	s := &Service{store: store, users: users, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send appends a new unread message from callerID to cmd.ReceiverID.
func (s *Service) Send(ctx context.Context, callerID string, cmd SendCommand) (models.Message, error) {
	if callerID == "" {
		return models.Message{}, ErrUnauthorized
	}
	if cmd.FileURL != nil && *cmd.FileURL == "" {
		cmd.FileURL = nil
	}
	if err := validate.Struct(cmd); err != nil {
		return models.Message{}, fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if cmd.ReceiverID == callerID {
		return models.Message{}, ErrSelfMessage
	}

	sender, err := s.users.GetProfile(ctx, callerID)
	if err != nil {
		return models.Message{}, storeFailure("resolve sender", err)
	}
	if sender == nil {
		return models.Message{}, ErrUnauthorized
	}
	if err := s.requireUser(ctx, cmd.ReceiverID); err != nil {
		return models.Message{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.Message{}, fmt.Errorf("%w: generate message id: %w", ErrStore, err)
	}
	message, err := s.store.Append(ctx, models.Message{
		ID:         id.String(),
		SenderID:   callerID,
		ReceiverID: cmd.ReceiverID,
		Content:    cmd.Content,
		FileURL:    cmd.FileURL,
		Read:       false,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return models.Message{}, storeFailure("append message", err)
	}
	s.log.Debug("Message sent", "id", message.ID, "sender", message.SenderID, "receiver", message.ReceiverID)
	return message, nil
}

// requireUser fails with ErrUserNotFound when userID does not resolve.
func (s *Service) requireUser(ctx context.Context, userID string) error {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return storeFailure("resolve user", err)
	}
	if profile == nil {
		return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	return nil
}

// involving returns every message the user sent or received, each exactly once.
func (s *Service) involving(ctx context.Context, userID string) ([]models.Message, error) {
	sent, err := s.store.FindBySender(ctx, userID)
	if err != nil {
		return nil, storeFailure("find by sender", err)
	}
	received, err := s.store.FindByReceiver(ctx, userID)
	if err != nil {
		return nil, storeFailure("find by receiver", err)
	}
	return dedupe(append(sent, received...)), nil
}
