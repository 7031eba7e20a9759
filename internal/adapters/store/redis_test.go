package store

import "testing"

func TestKeys(t *testing.T) {
	if got := messagesKey("123"); got != "verifybot:messages:123" {
		t.Errorf("messagesKey = %q", got)
	}
	if got := configKey("123"); got != "verifybot:config:123" {
		t.Errorf("configKey = %q", got)
	}
}
