// Package domain contains the verification entities and errors.
package domain

import "strings"

// Username length bounds for Minecraft accounts.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 16
)

// Requester identifies the Discord user asking to be verified.
type Requester struct {
	UserID        string
	Username      string
	Discriminator string
}

// Tag returns the canonical "name#0001" form, or the bare username for
// accounts that no longer carry a discriminator.
func (r Requester) Tag() string {
	if r.Discriminator == "" || r.Discriminator == "0" {
		return r.Username
	}
	d := r.Discriminator
	if len(d) < 4 {
		d = strings.Repeat("0", 4-len(d)) + d
	}
	return r.Username + "#" + d
}

// VerificationRequest is the immutable input of one verification run.
type VerificationRequest struct {
	ID        string
	Username  string
	Requester Requester
	GuildID   string
	ChannelID string
}

// ResolvedAccount is the canonical Minecraft account behind a username.
type ResolvedAccount struct {
	ID   string
	Name string
}

// ProfileAttributes are the authorization-relevant fields of a Hypixel profile.
type ProfileAttributes struct {
	DisplayName    string
	LinkedIdentity *string // nil when no Discord account is linked
	Rank           RankTier
	GroupName      *string // nil when unknown or not in a guild
}

// MatchKind is the outcome of comparing linked and requester identities.
type MatchKind int

const (
	Matched MatchKind = iota
	NoLinkedIdentity
	Mismatch
)

// MatchResult carries both identities so a mismatch can be reported verbatim.
type MatchResult struct {
	Kind      MatchKind
	Linked    string
	Requester string
}

// VerificationState tracks where a run is in the pipeline.
type VerificationState string

const (
	StateReceived    VerificationState = "received"
	StateResolving   VerificationState = "resolving"
	StateFetching    VerificationState = "fetching"
	StateMatching    VerificationState = "matching"
	StateReconciling VerificationState = "reconciling"
	StateSucceeded   VerificationState = "succeeded"
	StateFailed      VerificationState = "failed"
)

// VerificationResult is what a run produced. Reply is the single message sent
// back to the requester.
type VerificationResult struct {
	State  VerificationState
	Reason error
	Reply  string
	Delta  RoleDelta
	Report ApplyReport
}
