package discord

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"verifybot/internal/domain"
	"verifybot/internal/usecases"
	"verifybot/pkg/log"
)

const (
	cmdVerify      = "verify"
	cmdMessages    = "messages"
	cmdLeaderboard = "leaderboard"
	cmdSetGuild    = "setguild"
	cmdHelp        = "help"
)

// Message is the platform-neutral view of an inbound chat message.
type Message struct {
	ID        string
	GuildID   string
	ChannelID string
	Content   string
	Author    domain.Requester
	AuthorBot bool
}

// PermissionFunc reports whether a user may change server settings.
type PermissionFunc func(ctx context.Context, guildID, channelID, userID string) bool

// Dispatcher routes prefix commands to use cases and counts messages.
type Dispatcher struct {
	prefix      string
	replier     usecases.Replier
	verify      *usecases.VerifyAccountUseCase
	lookup      *usecases.LookupUseCase
	leaderboard *usecases.LeaderboardUseCase
	setGuild    *usecases.SetGuildUseCase
	counter     *usecases.MessageCounter
	canManage   PermissionFunc
	timeout     time.Duration
	newID       func() string

	mu     sync.Mutex
	closed bool
	runs   sync.WaitGroup
}

// DispatcherConfig wires a Dispatcher. Nil use cases disable their command.
type DispatcherConfig struct {
	Prefix      string
	Replier     usecases.Replier
	Verify      *usecases.VerifyAccountUseCase
	Lookup      *usecases.LookupUseCase
	Leaderboard *usecases.LeaderboardUseCase
	SetGuild    *usecases.SetGuildUseCase
	Counter     *usecases.MessageCounter
	CanManage   PermissionFunc
	// Timeout bounds the short commands; verification runs are bounded by
	// their per-call deadlines instead.
	Timeout time.Duration
}

func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.CanManage == nil {
		cfg.CanManage = func(context.Context, string, string, string) bool { return false }
	}
	return &Dispatcher{
		prefix:      cfg.Prefix,
		replier:     cfg.Replier,
		verify:      cfg.Verify,
		lookup:      cfg.Lookup,
		leaderboard: cfg.Leaderboard,
		setGuild:    cfg.SetGuild,
		counter:     cfg.Counter,
		canManage:   cfg.CanManage,
		timeout:     cfg.Timeout,
		newID:       uuid.NewString,
	}
}

// Dispatch handles one message. Verification runs on its own goroutine; the
// other commands finish before Dispatch returns.
func (d *Dispatcher) Dispatch(msg Message) {
	if msg.AuthorBot || msg.GuildID == "" {
		return
	}
	if d.counter != nil {
		d.counter.Record(msg.GuildID, msg.Author.UserID)
	}

	name, ok := commandName(d.prefix, msg.Content)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	ctx = log.WithFields(ctx, "command", name, "guild_id", msg.GuildID, "user_id", msg.Author.UserID)

	var err error
	switch name {
	case cmdVerify:
		if d.verify == nil {
			return
		}
		username, ok := verifyArgument(msg.Content)
		if !ok {
			err = d.replier.Reply(ctx, msg.ChannelID, usecases.VerifyUsage(d.prefix))
			break
		}
		d.startVerification(msg, username)
	case cmdMessages:
		if d.lookup == nil {
			return
		}
		err = d.lookup.Execute(ctx, msg.GuildID, msg.ChannelID, msg.Author.UserID, lookupTarget(msg.Content), d.replier)
	case cmdLeaderboard:
		if d.leaderboard == nil {
			return
		}
		err = d.leaderboard.Execute(ctx, msg.GuildID, msg.ChannelID, d.replier)
	case cmdSetGuild:
		if d.setGuild == nil {
			return
		}
		err = d.handleSetGuild(ctx, msg)
	case cmdHelp:
		err = d.replier.ReplyEmbed(ctx, msg.ChannelID, helpEmbed(d.prefix))
	default:
		return
	}
	if err != nil {
		log.ErrorCtx(ctx, "command failed", "error", err)
	}
}

func (d *Dispatcher) startVerification(msg Message, username string) {
	req := domain.VerificationRequest{
		ID:        d.newID(),
		Username:  username,
		Requester: msg.Author,
		GuildID:   msg.GuildID,
		ChannelID: msg.ChannelID,
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		log.DebugCtx(context.Background(), "verification dropped after close", "request_id", req.ID, "username", username)
		return
	}
	d.runs.Add(1)
	go func() {
		defer d.runs.Done()
		d.verify.Execute(context.Background(), req)
	}()
}

func (d *Dispatcher) handleSetGuild(ctx context.Context, msg Message) error {
	canManage := d.canManage(ctx, msg.GuildID, msg.ChannelID, msg.Author.UserID)
	if !canManage {
		return d.setGuild.Execute(ctx, msg.GuildID, msg.ChannelID, "", false, d.replier)
	}
	parts := strings.SplitN(msg.Content, " ", 2)
	if len(parts) != 2 {
		return d.replier.Reply(ctx, msg.ChannelID, usecases.SetGuildUsage(d.prefix+cmdSetGuild))
	}
	return d.setGuild.Execute(ctx, msg.GuildID, msg.ChannelID, parts[1], true, d.replier)
}

// Wait blocks until every started verification has replied. It must not
// race with Dispatch; shutdown uses Close.
func (d *Dispatcher) Wait() {
	d.runs.Wait()
}

// Close stops new verifications from starting and waits for the running ones.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.runs.Wait()
}

// commandName returns the command word of content, without the prefix.
func commandName(prefix, content string) (string, bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", false
	}
	rest := content[len(prefix):]
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", false
	}
	return strings.ToLower(rest), true
}

// verifyArgument requires exactly one space-separated argument. The argument
// is passed on unvalidated; length checks belong to the use case.
func verifyArgument(content string) (string, bool) {
	parts := strings.Split(content, " ")
	if len(parts) != 2 {
		return "", false
	}
	return parts[1], true
}

func lookupTarget(content string) string {
	fields := strings.Fields(content)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

func helpEmbed(prefix string) domain.Embed {
	var sb strings.Builder
	sb.WriteString("`" + prefix + "verify <Username>` links your Minecraft account and gives you your rank roles\n")
	sb.WriteString("`" + prefix + "messages [@user]` shows how many messages someone sent\n")
	sb.WriteString("`" + prefix + "leaderboard` shows the most active members\n")
	sb.WriteString("`" + prefix + "setguild <name>` sets the Minecraft guild of this server (Manage Server)\n")
	return domain.Embed{Title: "Commands", Description: sb.String()}
}
