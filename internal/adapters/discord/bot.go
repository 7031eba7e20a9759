// Package discord connects the use cases to the Discord gateway.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"verifybot/internal/domain"
	"verifybot/internal/usecases"
	"verifybot/pkg/log"
)

// NewSession creates an unopened session with the intents the bot needs.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent
	s.StateEnabled = true
	return s, nil
}

// Bot manages the gateway connection and event handlers.
type Bot struct {
	session    *discordgo.Session
	dispatcher *Dispatcher
	joinRole   *usecases.JoinRoleUseCase
	timeout    time.Duration
}

func NewBot(s *discordgo.Session, dispatcher *Dispatcher, joinRole *usecases.JoinRoleUseCase, timeout time.Duration) *Bot {
	b := &Bot{
		session:    s,
		dispatcher: dispatcher,
		joinRole:   joinRole,
		timeout:    timeout,
	}
	s.AddHandler(b.onReady)
	s.AddHandler(b.onMessageCreate)
	s.AddHandler(b.onGuildMemberAdd)
	return b
}

// Start opens the gateway connection.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord gateway: %w", err)
	}
	return nil
}

// Stop closes the gateway and waits for running verifications to reply.
func (b *Bot) Stop() error {
	err := b.session.Close()
	b.dispatcher.Close()
	return err
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	log.InfoCtx(context.Background(), "connected to discord", "user", r.User.Username, "guilds", len(r.Guilds))
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}
	b.dispatcher.Dispatch(Message{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		Author: domain.Requester{
			UserID:        m.Author.ID,
			Username:      m.Author.Username,
			Discriminator: m.Author.Discriminator,
		},
		AuthorBot: m.Author.Bot,
	})
}

func (b *Bot) onGuildMemberAdd(_ *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if b.joinRole == nil || m.Member == nil || m.User == nil || m.User.Bot {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	ctx = log.WithFields(ctx, "guild_id", m.GuildID, "user_id", m.User.ID)

	if err := b.joinRole.Execute(ctx, m.GuildID, m.User.ID); err != nil {
		log.WarnCtx(ctx, "join role not granted", "error", err)
	}
}
