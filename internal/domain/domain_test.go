package domain_test

import (
	"errors"
	"strings"
	"testing"

	"verifybot/internal/domain"
)

func TestRequesterTag(t *testing.T) {
	tests := []struct {
		r    domain.Requester
		want string
	}{
		{domain.Requester{Username: "Alice", Discriminator: "0001"}, "Alice#0001"},
		{domain.Requester{Username: "Steve", Discriminator: "42"}, "Steve#0042"},
		{domain.Requester{Username: "bob", Discriminator: "0"}, "bob"},
		{domain.Requester{Username: "bob"}, "bob"},
	}
	for _, tt := range tests {
		if got := tt.r.Tag(); got != tt.want {
			t.Errorf("Tag(%+v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func TestRankLabels(t *testing.T) {
	if got := strings.Join(domain.TierLabels(), ","); got != "VIP,VIP+,MVP,MVP+,MVP++" {
		t.Errorf("TierLabels = %q", got)
	}
	if domain.RankNone.Label() != "" {
		t.Error("RankNone must have no role")
	}
	if !domain.IsTierLabel("MVP++") || domain.IsTierLabel("Verified") {
		t.Error("IsTierLabel mismatch")
	}
	if domain.RankTier(42).String() != "UNKNOWN" {
		t.Error("out of range tier should be UNKNOWN")
	}
}

func TestMutationError(t *testing.T) {
	cause := errors.New("Missing Permissions")
	err := error(&domain.MutationError{Phase: domain.PhaseRevoke, Role: domain.Role{Name: "VIP"}, Err: cause})

	if !errors.Is(err, cause) {
		t.Error("MutationError must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), `revoke role "VIP"`) {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRoleDeltaEmpty(t *testing.T) {
	if !(domain.RoleDelta{}).Empty() {
		t.Error("zero delta should be empty")
	}
	nick := "Notch"
	if (domain.RoleDelta{Nickname: &nick}).Empty() {
		t.Error("nickname change is not empty")
	}
}
