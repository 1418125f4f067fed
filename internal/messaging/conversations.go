package messaging

import (
	"context"
	"slices"
	"strings"

	"careerhub/server/internal/models"

	"github.com/samber/lo"
)

// conversation is the unresolved summary of one counterpart group.
type conversation struct {
	key         models.ConversationKey
	counterpart string
	latest      models.Message
	unread      int
}

// summarize turns the flat message set of userID into one conversation per
// counterpart, most recently active first. It is pure and does no lookups.
func summarize(userID string, messages []models.Message) []conversation {
	groups := lo.GroupBy(messages, func(m models.Message) models.ConversationKey {
		return models.NewConversationKey(m.SenderID, m.ReceiverID)
	})

	conversations := make([]conversation, 0, len(groups))
	for key, group := range groups {
		conversations = append(conversations, conversation{
			key:         key,
			counterpart: key.Other(userID),
			latest: lo.MaxBy(group, func(a, b models.Message) bool {
				return b.Before(a)
			}),
			unread: lo.CountBy(group, func(m models.Message) bool {
				return m.ReceiverID == userID && !m.Read
			}),
		})
	}

	slices.SortFunc(conversations, func(a, b conversation) int {
		if c := b.latest.CreatedAt.Compare(a.latest.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.counterpart, b.counterpart)
	})
	return conversations
}

// ListConversations returns one summary per counterpart userID has exchanged
// messages with. Counterparts that no longer resolve are left out.
func (s *Service) ListConversations(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	messages, err := s.involving(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0)
	for _, c := range summarize(userID, messages) {
		profile, err := s.users.GetProfile(ctx, c.counterpart)
		if err != nil {
			return nil, storeFailure("resolve counterpart", err)
		}
		if profile == nil {
			// TODO: surface orphaned conversations as a placeholder entry once the UI can render one.
			s.log.Debug("Skipping conversation with unknown counterpart", "user", userID, "counterpart", c.counterpart)
			continue
		}
		summaries = append(summaries, models.ConversationSummary{
			CounterpartID:        c.counterpart,
			Counterpart:          *profile,
			LatestMessageID:      c.latest.ID,
			LatestMessageContent: c.latest.Content,
			LatestMessageTime:    c.latest.CreatedAt,
			UnreadCount:          c.unread,
		})
	}
	return summaries, nil
}

// UnreadTotal counts every unread message addressed to userID.
func (s *Service) UnreadTotal(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, ErrUnauthorized
	}
	received, err := s.store.FindByReceiver(ctx, userID)
	if err != nil {
		return 0, storeFailure("find by receiver", err)
	}
	return lo.CountBy(received, func(m models.Message) bool { return !m.Read }), nil
}

func dedupe(messages []models.Message) []models.Message {
	return lo.UniqBy(messages, func(m models.Message) string { return m.ID })
}
