package usecases_test

import (
	"testing"

	"verifybot/internal/domain"
	"verifybot/internal/usecases"
)

func TestMatchIdentity(t *testing.T) {
	tests := []struct {
		name      string
		linked    *string
		requester string
		want      domain.MatchKind
	}{
		{"exact", strPtr("Alice#0001"), "Alice#0001", domain.Matched},
		{"different discriminator", strPtr("Alice#0001"), "Alice#0002", domain.Mismatch},
		{"case differs", strPtr("alice#0001"), "Alice#0001", domain.Mismatch},
		{"trailing space", strPtr("Alice#0001 "), "Alice#0001", domain.Mismatch},
		{"migrated username", strPtr("alice"), "alice", domain.Matched},
		{"not linked", nil, "Alice#0001", domain.NoLinkedIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			got := usecases.MatchIdentity(domain.ProfileAttributes{LinkedIdentity: tt.linked}, tt.requester)

			// Assert
			if got.Kind != tt.want {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.want)
			}
			if got.Requester != tt.requester {
				t.Errorf("Requester = %q", got.Requester)
			}
			if tt.linked != nil && got.Linked != *tt.linked {
				t.Errorf("Linked = %q, want %q", got.Linked, *tt.linked)
			}
		})
	}
}
