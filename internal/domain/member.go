package domain

// Role is a guild role.
type Role struct {
	ID   string
	Name string
}

// MemberState is the current role membership and nickname of a guild member.
type MemberState struct {
	GuildID string
	UserID  string
	Nick    string
	RoleIDs []string
}

// HasRole reports whether the member holds roleID.
func (m MemberState) HasRole(roleID string) bool {
	for _, id := range m.RoleIDs {
		if id == roleID {
			return true
		}
	}
	return false
}

// RoleDelta is the set of mutations that brings a member in line with their
// verified attributes. Grant and Revoke never share a role.
type RoleDelta struct {
	Grant    []Role
	Revoke   []Role
	Nickname *string
}

// Empty reports whether applying the delta would change nothing.
func (d RoleDelta) Empty() bool {
	return len(d.Grant) == 0 && len(d.Revoke) == 0 && d.Nickname == nil
}

// PhaseFailure records the first failing mutation of a phase.
type PhaseFailure struct {
	Phase Phase
	Err   error
}

// ApplyReport describes which mutations of a delta took effect.
type ApplyReport struct {
	Granted     []Role
	Revoked     []Role
	NicknameSet bool
	Failures    []PhaseFailure
}

// Failed reports whether the given phase failed.
func (r ApplyReport) Failed(p Phase) bool {
	for _, f := range r.Failures {
		if f.Phase == p {
			return true
		}
	}
	return false
}

// LeaderboardEntry is one ranked row of the message leaderboard.
type LeaderboardEntry struct {
	Place  int    `json:"place"`
	UserID string `json:"user_id"`
	Count  int64  `json:"count"`
}

// Embed is a titled rich reply.
type Embed struct {
	Title       string
	Description string
}
