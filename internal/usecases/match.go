package usecases

import "verifybot/internal/domain"

// MatchIdentity compares the Discord tag published on the profile with the
// requester's tag. Comparison is exact: no trimming or case folding.
func MatchIdentity(attrs domain.ProfileAttributes, requesterTag string) domain.MatchResult {
	if attrs.LinkedIdentity == nil {
		return domain.MatchResult{Kind: domain.NoLinkedIdentity, Requester: requesterTag}
	}
	linked := *attrs.LinkedIdentity
	if linked != requesterTag {
		return domain.MatchResult{Kind: domain.Mismatch, Linked: linked, Requester: requesterTag}
	}
	return domain.MatchResult{Kind: domain.Matched, Linked: linked, Requester: requesterTag}
}
