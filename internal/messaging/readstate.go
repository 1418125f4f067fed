package messaging

import (
	"context"
	"fmt"

	"careerhub/server/internal/models"

	"github.com/samber/lo"
)

// MarkMessageRead acknowledges a single message. Only its receiver may do so,
// and marking an already read message again is a no-op.
func (s *Service) MarkMessageRead(ctx context.Context, callerID, messageID string) (string, error) {
	if callerID == "" {
		return "", ErrUnauthorized
	}
	if messageID == "" {
		return "", fmt.Errorf("%w: message id is required", ErrValidation)
	}
	message, err := s.store.Get(ctx, messageID)
	if err != nil {
		return "", storeFailure("get message", err)
	}
	if message.ReceiverID != callerID {
		return "", ErrNotRecipient
	}
	if message.Read {
		return message.ID, nil
	}
	if _, err := s.store.MarkRead(ctx, []string{message.ID}); err != nil {
		return "", storeFailure("mark read", err)
	}
	s.log.Debug("Message marked as read", "id", message.ID, "receiver", callerID)
	return message.ID, nil
}

// MarkConversationRead acknowledges every unread message counterpartID sent
// to callerID and returns how many messages this call transitioned.
func (s *Service) MarkConversationRead(ctx context.Context, callerID, counterpartID string) (int, error) {
	if callerID == "" {
		return 0, ErrUnauthorized
	}
	if counterpartID == "" {
		return 0, fmt.Errorf("%w: counterpart is required", ErrValidation)
	}
	received, err := s.store.FindByReceiver(ctx, callerID)
	if err != nil {
		return 0, storeFailure("find by receiver", err)
	}
	unread := lo.FilterMap(received, func(m models.Message, _ int) (string, bool) {
		return m.ID, m.SenderID == counterpartID && m.ReceiverID == callerID && !m.Read
	})
	if len(unread) == 0 {
		return 0, nil
	}
	count, err := s.store.MarkRead(ctx, unread)
	if err != nil {
		return 0, storeFailure("mark read", err)
	}
	s.log.Debug("Conversation marked as read", "receiver", callerID, "sender", counterpartID, "count", count)
	return count, nil
}
