package usecases

import (
	"context"

	"verifybot/internal/domain"
)

// AccountResolver turns a claimed username into a canonical account.
// Errors wrap domain.ErrLookupFailed or domain.ErrAccountNotFound.
type AccountResolver interface {
	Resolve(ctx context.Context, username string) (domain.ResolvedAccount, error)
}

// ProfileFetcher reads the authorization attributes of an account.
// Errors wrap domain.ErrProfileService.
type ProfileFetcher interface {
	Fetch(ctx context.Context, account domain.ResolvedAccount) (domain.ProfileAttributes, error)
}

// MemberGateway reads and mutates a guild member on the chat platform.
type MemberGateway interface {
	Member(ctx context.Context, guildID, userID string) (domain.MemberState, error)
	GuildRoles(ctx context.Context, guildID string) ([]domain.Role, error)
	GrantRole(ctx context.Context, guildID, userID, roleID string) error
	RevokeRole(ctx context.Context, guildID, userID, roleID string) error
	SetNickname(ctx context.Context, guildID, userID, nick string) error
}

// Replier sends messages back to the channel a command came from.
type Replier interface {
	Reply(ctx context.Context, channelID, text string) error
	ReplyEmbed(ctx context.Context, channelID string, embed domain.Embed) error
}

// CounterStore persists per-guild message counts.
type CounterStore interface {
	Increment(ctx context.Context, guildID, userID string) error
	Read(ctx context.Context, guildID, userID string) (int64, error)
	ReadAll(ctx context.Context, guildID string) (map[string]int64, error)
}

// GuildConfigStore persists per-server settings. ok is false when the
// server never set a Minecraft guild.
type GuildConfigStore interface {
	MinecraftGuild(ctx context.Context, guildID string) (name string, ok bool, err error)
	SetMinecraftGuild(ctx context.Context, guildID, name string) error
}
