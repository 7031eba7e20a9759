package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	msgNeedManageGuild = "You need the \"Manage Guild\" Permission to use this command"
	msgGuildSaved      = "Successfully set the new Guild name."
	msgSetGuildFailed  = "An Error occured while executing this command."
)

// SetGuildUseCase stores the Minecraft guild whose members get the guild
// member role on this server.
type SetGuildUseCase struct {
	store GuildConfigStore
}

func NewSetGuildUseCase(store GuildConfigStore) *SetGuildUseCase {
	return &SetGuildUseCase{store: store}
}

// SetGuildUsage is the reply when no name was given.
func SetGuildUsage(command string) string {
	return fmt.Sprintf("Invalid usage: %s [name]", command)
}

// Execute saves name for guildID. canManage must reflect the author's
// Manage Server permission.
func (uc *SetGuildUseCase) Execute(ctx context.Context, guildID, channelID, name string, canManage bool, replier Replier) error {
	if !canManage {
		return replier.Reply(ctx, channelID, msgNeedManageGuild)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return replier.Reply(ctx, channelID, msgSetGuildFailed)
	}
	if err := uc.store.SetMinecraftGuild(ctx, guildID, name); err != nil {
		return errors.Join(fmt.Errorf("save minecraft guild: %w", err), replier.Reply(ctx, channelID, msgSetGuildFailed))
	}
	return replier.Reply(ctx, channelID, msgGuildSaved)
}
