package usecases

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"verifybot/internal/domain"
	"verifybot/pkg/log"
)

// VerifySettings are the configured role names and fallback group.
type VerifySettings struct {
	VerifiedRole          string
	GuildMemberRole       string
	DefaultMinecraftGuild string
}

// VerifyAccountUseCase runs the verification pipeline:
// resolve → fetch → match → reconcile → apply, replying exactly once.
type VerifyAccountUseCase struct {
	resolver AccountResolver
	fetcher  ProfileFetcher
	members  MemberGateway
	guilds   GuildConfigStore
	replier  Replier
	locks    *MemberLocks
	settings VerifySettings
}

// NewVerifyAccountUseCase creates a VerifyAccountUseCase. guilds may be nil,
// in which case the default Minecraft guild applies to every server.
func NewVerifyAccountUseCase(
	resolver AccountResolver,
	fetcher ProfileFetcher,
	members MemberGateway,
	guilds GuildConfigStore,
	replier Replier,
	settings VerifySettings,
) *VerifyAccountUseCase {
	return &VerifyAccountUseCase{
		resolver: resolver,
		fetcher:  fetcher,
		members:  members,
		guilds:   guilds,
		replier:  replier,
		locks:    NewMemberLocks(),
		settings: settings,
	}
}

// Execute verifies one request. It never panics and always sends one reply
// to req.ChannelID; the returned result mirrors that reply.
func (uc *VerifyAccountUseCase) Execute(ctx context.Context, req domain.VerificationRequest) (result domain.VerificationResult) {
	ctx = log.WithRequestID(ctx, req.ID)
	ctx = log.WithFields(ctx,
		"guild_id", req.GuildID,
		"user_id", req.Requester.UserID,
		"username", req.Username,
	)

	defer func() {
		if r := recover(); r != nil {
			log.ErrorCtx(ctx, "verification panicked", "panic", fmt.Sprint(r), "state", result.State)
			result = domain.VerificationResult{
				State:  domain.StateFailed,
				Reason: fmt.Errorf("panic: %v", r),
				Reply:  msgUnhandled,
			}
		}
		uc.reply(ctx, req.ChannelID, result)
	}()

	result = uc.run(ctx, req)
	return result
}

func (uc *VerifyAccountUseCase) run(ctx context.Context, req domain.VerificationRequest) domain.VerificationResult {
	state := domain.StateReceived
	fail := func(err error, reply string) domain.VerificationResult {
		log.WarnCtx(ctx, "verification failed", "state", state, "error", err)
		return domain.VerificationResult{State: domain.StateFailed, Reason: err, Reply: reply}
	}

	if n := utf8.RuneCountInString(req.Username); n < domain.MinUsernameLength || n > domain.MaxUsernameLength {
		return fail(fmt.Errorf("%w: %d", domain.ErrInvalidUsername, n), lengthMessage(n))
	}

	state = domain.StateResolving
	account, err := uc.resolver.Resolve(ctx, req.Username)
	if err != nil {
		return fail(err, failureMessage(err))
	}
	log.DebugCtx(ctx, "account resolved", "account_id", account.ID)

	state = domain.StateFetching
	attrs, err := uc.fetcher.Fetch(ctx, account)
	if err != nil {
		return fail(err, failureMessage(err))
	}

	state = domain.StateMatching
	match := MatchIdentity(attrs, req.Requester.Tag())
	switch match.Kind {
	case domain.NoLinkedIdentity:
		return fail(domain.ErrNoLinkedIdentity, msgNoLinkedDiscord)
	case domain.Mismatch:
		return fail(domain.ErrIdentityMismatch, mismatchMessage(match.Linked, match.Requester))
	}

	state = domain.StateReconciling
	unlock := uc.locks.Lock(req.GuildID, req.Requester.UserID)
	defer unlock()

	member, err := uc.members.Member(ctx, req.GuildID, req.Requester.UserID)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", domain.ErrMemberUnavailable, err), msgMemberMissing)
	}
	roles, err := uc.members.GuildRoles(ctx, req.GuildID)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", domain.ErrMemberUnavailable, err), msgMemberMissing)
	}

	delta, err := Reconcile(ReconcileInput{
		Member:          member,
		GuildRoles:      roles,
		Rank:            attrs.Rank,
		DisplayName:     attrs.DisplayName,
		GroupName:       attrs.GroupName,
		ConfiguredGroup: uc.configuredGroup(ctx, req.GuildID),
		VerifiedRole:    uc.settings.VerifiedRole,
		GuildMemberRole: uc.settings.GuildMemberRole,
	})
	if err != nil {
		return fail(err, failureMessage(err))
	}

	report := ApplyDelta(ctx, uc.members, member, delta)
	result := domain.VerificationResult{
		State:  domain.StateSucceeded,
		Reply:  applyMessage(report),
		Delta:  delta,
		Report: report,
	}
	if len(report.Failures) > 0 {
		errs := make([]error, 0, len(report.Failures))
		for _, f := range report.Failures {
			errs = append(errs, f.Err)
		}
		result.State = domain.StateFailed
		result.Reason = errors.Join(errs...)
		log.WarnCtx(ctx, "verification partially applied",
			"granted", len(report.Granted),
			"revoked", len(report.Revoked),
			"nickname_set", report.NicknameSet,
			"error", result.Reason,
		)
		return result
	}

	log.InfoCtx(ctx, "verification succeeded",
		"rank", attrs.Rank.String(),
		"granted", len(report.Granted),
		"revoked", len(report.Revoked),
	)
	return result
}

// configuredGroup prefers the server's own setting over the default. A store
// failure falls back to the default; it is not worth failing the run over.
func (uc *VerifyAccountUseCase) configuredGroup(ctx context.Context, guildID string) string {
	if uc.guilds == nil {
		return uc.settings.DefaultMinecraftGuild
	}
	name, ok, err := uc.guilds.MinecraftGuild(ctx, guildID)
	if err != nil {
		log.WarnCtx(ctx, "read server minecraft guild failed", "error", err)
		return uc.settings.DefaultMinecraftGuild
	}
	if !ok {
		return uc.settings.DefaultMinecraftGuild
	}
	return name
}

func (uc *VerifyAccountUseCase) reply(ctx context.Context, channelID string, result domain.VerificationResult) {
	if err := uc.replier.Reply(ctx, channelID, result.Reply); err != nil {
		log.ErrorCtx(ctx, "send verification reply failed", "error", err)
	}
}
