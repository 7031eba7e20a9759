package usecases

import (
	"context"
	"fmt"

	"verifybot/internal/domain"
)

// ReconcileInput is everything the reconciler needs; it performs no I/O.
type ReconcileInput struct {
	Member     domain.MemberState
	GuildRoles []domain.Role
	Rank       domain.RankTier
	// DisplayName is proposed as the nickname.
	DisplayName string
	// GroupName is the fetched Hypixel guild, nil when unknown.
	GroupName *string
	// ConfiguredGroup is the server's Minecraft guild, "" when unset.
	ConfiguredGroup string

	VerifiedRole    string
	GuildMemberRole string
}

// Reconcile computes the minimal delta for a verified member:
//   - the verified role and the tier role are granted unless held,
//   - every other held tier role is revoked,
//   - the guild member role is granted only on a confirmed group match and is
//     never revoked,
//   - the nickname is proposed unless already in place.
//
// A missing verified or tier role yields domain.ErrRoleMissing. A missing
// guild member role only skips that grant.
func Reconcile(in ReconcileInput) (domain.RoleDelta, error) {
	var delta domain.RoleDelta

	byName := make(map[string]domain.Role, len(in.GuildRoles))
	byID := make(map[string]domain.Role, len(in.GuildRoles))
	for _, r := range in.GuildRoles {
		if _, dup := byName[r.Name]; !dup {
			byName[r.Name] = r
		}
		byID[r.ID] = r
	}

	grant := func(r domain.Role) {
		if !in.Member.HasRole(r.ID) {
			delta.Grant = append(delta.Grant, r)
		}
	}

	verified, ok := byName[in.VerifiedRole]
	if !ok {
		return domain.RoleDelta{}, fmt.Errorf("%w: %q", domain.ErrRoleMissing, in.VerifiedRole)
	}
	grant(verified)

	var target domain.Role
	if label := in.Rank.Label(); label != "" {
		target, ok = byName[label]
		if !ok {
			return domain.RoleDelta{}, fmt.Errorf("%w: %q", domain.ErrRoleMissing, label)
		}
		grant(target)
	}

	for _, id := range in.Member.RoleIDs {
		held, known := byID[id]
		if !known || held.ID == target.ID || !domain.IsTierLabel(held.Name) {
			continue
		}
		delta.Revoke = append(delta.Revoke, held)
	}

	if in.ConfiguredGroup != "" && in.GroupName != nil && *in.GroupName == in.ConfiguredGroup {
		if r, ok := byName[in.GuildMemberRole]; ok {
			grant(r)
		}
	}

	if in.DisplayName != "" && in.Member.Nick != in.DisplayName {
		nick := in.DisplayName
		delta.Nickname = &nick
	}

	return delta, nil
}

// ApplyDelta executes grants, then revocations, then the nickname change.
// A failure ends its own phase; later phases still run and nothing already
// applied is undone.
func ApplyDelta(ctx context.Context, gw MemberGateway, member domain.MemberState, delta domain.RoleDelta) domain.ApplyReport {
	var report domain.ApplyReport

	for _, r := range delta.Grant {
		if err := gw.GrantRole(ctx, member.GuildID, member.UserID, r.ID); err != nil {
			report.Failures = append(report.Failures, domain.PhaseFailure{
				Phase: domain.PhaseGrant,
				Err:   &domain.MutationError{Phase: domain.PhaseGrant, Role: r, Err: err},
			})
			break
		}
		report.Granted = append(report.Granted, r)
	}

	for _, r := range delta.Revoke {
		if err := gw.RevokeRole(ctx, member.GuildID, member.UserID, r.ID); err != nil {
			report.Failures = append(report.Failures, domain.PhaseFailure{
				Phase: domain.PhaseRevoke,
				Err:   &domain.MutationError{Phase: domain.PhaseRevoke, Role: r, Err: err},
			})
			break
		}
		report.Revoked = append(report.Revoked, r)
	}

	if delta.Nickname != nil {
		if err := gw.SetNickname(ctx, member.GuildID, member.UserID, *delta.Nickname); err != nil {
			report.Failures = append(report.Failures, domain.PhaseFailure{
				Phase: domain.PhaseNickname,
				Err:   &domain.MutationError{Phase: domain.PhaseNickname, Err: err},
			})
		} else {
			report.NicknameSet = true
		}
	}

	return report
}
