package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLookupFailed is returned when the account-lookup service could not be
	// reached or answered with something unusable.
	ErrLookupFailed = errors.New("account lookup failed")

	// ErrAccountNotFound is returned when the lookup service explicitly says
	// the username has no account.
	ErrAccountNotFound = errors.New("account not found")

	// ErrProfileService is returned when the profile service failed or its
	// document had no player profile.
	ErrProfileService = errors.New("profile service error")

	// ErrMemberUnavailable is returned when the requester's guild membership
	// could not be read from Discord.
	ErrMemberUnavailable = errors.New("guild member unavailable")

	// ErrRoleMissing is returned when a role the reconciler must grant does
	// not exist in the guild.
	ErrRoleMissing = errors.New("role missing in guild")

	// ErrInvalidUsername is returned when the claimed username is outside 3-16 characters.
	ErrInvalidUsername = errors.New("invalid username length")

	// ErrNoLinkedIdentity and ErrIdentityMismatch record why the identity gate
	// rejected a run.
	ErrNoLinkedIdentity = errors.New("no discord linked on profile")
	ErrIdentityMismatch = errors.New("linked discord does not match requester")
)

// Phase names one of the three independently failing mutation steps.
type Phase string

const (
	PhaseGrant    Phase = "grant"
	PhaseRevoke   Phase = "revoke"
	PhaseNickname Phase = "nickname"
)

// MutationError wraps a failed Discord mutation.
type MutationError struct {
	Phase Phase
	Role  Role // zero for the nickname phase
	Err   error
}

func (e *MutationError) Error() string {
	if e.Phase == PhaseNickname {
		return fmt.Sprintf("set nickname: %v", e.Err)
	}
	return fmt.Sprintf("%s role %q: %v", e.Phase, e.Role.Name, e.Err)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
