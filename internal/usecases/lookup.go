package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"verifybot/internal/domain"
)

const msgInvalidUser = "Invalid User"

// LookupUseCase reports the message count of one member.
type LookupUseCase struct {
	store CounterStore
}

func NewLookupUseCase(store CounterStore) *LookupUseCase {
	return &LookupUseCase{store: store}
}

// Execute looks up target, a user mention or raw id; an empty target means
// the author. Role mentions are rejected.
func (uc *LookupUseCase) Execute(ctx context.Context, guildID, channelID, authorID, target string, replier Replier) error {
	userID := authorID
	if target != "" {
		if strings.Contains(target, "&") {
			return replier.Reply(ctx, channelID, msgInvalidUser)
		}
		userID = mentionID(target)
	}

	n, err := uc.store.Read(ctx, guildID, userID)
	if err != nil {
		return errors.Join(fmt.Errorf("read message count: %w", err), replier.Reply(ctx, channelID, msgInternalError))
	}

	return replier.ReplyEmbed(ctx, channelID, domain.Embed{
		Title:       "Message lookup",
		Description: fmt.Sprintf("<@!%s> currently has %d messages.", userID, n),
	})
}

// mentionID strips <@!id> or <@id> down to id.
func mentionID(s string) string {
	s = strings.TrimPrefix(s, "<@!")
	s = strings.TrimPrefix(s, "<@")
	return strings.TrimSuffix(s, ">")
}
