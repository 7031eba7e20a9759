package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"

	"verifybot/internal/domain"
)

const embedColor = 0x00C8FF

// Gateway implements usecases.MemberGateway and usecases.Replier on a
// discordgo session.
type Gateway struct {
	session *discordgo.Session
}

func NewGateway(s *discordgo.Session) *Gateway {
	return &Gateway{session: s}
}

func (g *Gateway) Member(ctx context.Context, guildID, userID string) (domain.MemberState, error) {
	m, err := g.session.GuildMember(guildID, userID, discordgo.WithContext(ctx))
	if err != nil {
		return domain.MemberState{}, err
	}
	return domain.MemberState{
		GuildID: guildID,
		UserID:  userID,
		Nick:    m.Nick,
		RoleIDs: append([]string(nil), m.Roles...),
	}, nil
}

// GuildRoles reads the role directory from the state cache and falls back to
// the REST API.
func (g *Gateway) GuildRoles(ctx context.Context, guildID string) ([]domain.Role, error) {
	var roles []*discordgo.Role
	if guild, err := g.session.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
		roles = guild.Roles
	} else {
		roles, err = g.session.GuildRoles(guildID, discordgo.WithContext(ctx))
		if err != nil {
			return nil, err
		}
	}

	out := make([]domain.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, domain.Role{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (g *Gateway) GrantRole(ctx context.Context, guildID, userID, roleID string) error {
	return g.session.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (g *Gateway) RevokeRole(ctx context.Context, guildID, userID, roleID string) error {
	return g.session.GuildMemberRoleRemove(guildID, userID, roleID, discordgo.WithContext(ctx))
}

func (g *Gateway) SetNickname(ctx context.Context, guildID, userID, nick string) error {
	return g.session.GuildMemberNickname(guildID, userID, nick, discordgo.WithContext(ctx))
}

func (g *Gateway) Reply(ctx context.Context, channelID, text string) error {
	_, err := g.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	return err
}

func (g *Gateway) ReplyEmbed(ctx context.Context, channelID string, embed domain.Embed) error {
	_, err := g.session.ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embedColor,
	}, discordgo.WithContext(ctx))
	return err
}

// CanManageServer reports whether userID holds Manage Server or
// Administrator in channelID. Lookup failures count as no permission.
func (g *Gateway) CanManageServer(ctx context.Context, guildID, channelID, userID string) bool {
	perms, err := g.session.UserChannelPermissions(userID, channelID, discordgo.WithContext(ctx))
	if err != nil {
		return false
	}
	return perms&(discordgo.PermissionManageServer|discordgo.PermissionAdministrator) != 0
}
