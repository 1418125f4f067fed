package messaging

import (
	"context"
	"fmt"
	"slices"

	"careerhub/server/internal/models"

	"github.com/samber/lo"
)

// ListMessages returns the messages exchanged between callerID and
// counterpartID, oldest first. A non-nil limit keeps only the newest limit
// messages, still oldest first. Reading a thread never marks it read.
func (s *Service) ListMessages(ctx context.Context, callerID, counterpartID string, limit *int) ([]models.Message, error) {
	if callerID == "" {
		return nil, ErrUnauthorized
	}
	if counterpartID == "" {
		return nil, fmt.Errorf("%w: counterpart is required", ErrValidation)
	}
	if limit != nil && *limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative, got %d", ErrValidation, *limit)
	}
	if err := s.requireUser(ctx, counterpartID); err != nil {
		return nil, err
	}

	sent, err := s.store.FindBySender(ctx, callerID)
	if err != nil {
		return nil, storeFailure("find by sender", err)
	}
	received, err := s.store.FindBySender(ctx, counterpartID)
	if err != nil {
		return nil, storeFailure("find by sender", err)
	}

	thread := lo.Filter(dedupe(append(sent, received...)), func(m models.Message, _ int) bool {
		return m.Involves(callerID, counterpartID)
	})
	slices.SortFunc(thread, compareChronological)
	return tail(thread, limit), nil
}

func compareChronological(a, b models.Message) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	default:
		return 0
	}
}

// tail keeps the last limit messages of an ordered thread.
func tail(thread []models.Message, limit *int) []models.Message {
	if limit == nil || len(thread) <= *limit {
		return thread
	}
	return thread[len(thread)-*limit:]
}
