package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"verifybot/internal/domain"
)

// LeaderboardSize is the number of places shown.
const LeaderboardSize = 10

const msgNoMessages = "There are currently no messages stored for this Server."

// LeaderboardUseCase ranks the members of a server by message count.
type LeaderboardUseCase struct {
	store CounterStore
}

func NewLeaderboardUseCase(store CounterStore) *LeaderboardUseCase {
	return &LeaderboardUseCase{store: store}
}

// Top returns up to limit entries, highest count first. Ties are ordered by
// user id so the result is stable.
func (uc *LeaderboardUseCase) Top(ctx context.Context, guildID string, limit int) ([]domain.LeaderboardEntry, error) {
	counts, err := uc.store.ReadAll(ctx, guildID)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.LeaderboardEntry, 0, len(counts))
	for userID, n := range counts {
		entries = append(entries, domain.LeaderboardEntry{UserID: userID, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Place = i + 1
	}
	return entries, nil
}

// Execute answers the leaderboard command in channelID.
func (uc *LeaderboardUseCase) Execute(ctx context.Context, guildID, channelID string, replier Replier) error {
	entries, err := uc.Top(ctx, guildID, LeaderboardSize)
	if err != nil {
		return errors.Join(fmt.Errorf("read leaderboard: %w", err), replier.Reply(ctx, channelID, msgInternalError))
	}
	if len(entries) == 0 {
		return replier.Reply(ctx, channelID, msgNoMessages)
	}

	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "<@!%s> has %d messages and is Place %d\n", e.UserID, e.Count, e.Place)
	}
	return replier.ReplyEmbed(ctx, channelID, domain.Embed{
		Title:       "Current message leaderboard",
		Description: sb.String(),
	})
}
