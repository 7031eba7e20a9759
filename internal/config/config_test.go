package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "verifybot.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func setRequiredEnv(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("HYPIXEL_API_KEY", "key")
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	// Arrange
	setRequiredEnv(t)

	// Act
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	// Assert
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Prefix != "!" {
		t.Errorf("Prefix = %q, want !", cfg.Prefix)
	}
	if cfg.APIs.Timeout != 20*time.Second {
		t.Errorf("Timeout = %v, want 20s", cfg.APIs.Timeout)
	}
	if cfg.Roles.Verified != "Verified" || cfg.Roles.GuildMember != "Guild Member" {
		t.Errorf("Roles = %+v", cfg.Roles)
	}
	if len(cfg.Ranks.Staff) != 4 {
		t.Errorf("Staff = %v", cfg.Ranks.Staff)
	}
}

func TestLoad_YAMLThenEnvPrecedence(t *testing.T) {
	// Arrange
	setRequiredEnv(t)
	path := writeFile(t, `
prefix: "?"
minecraft_guild: Mineplex Refugees
roles:
  verified: Linked
apis:
  timeout: 5s
redis:
  db: 2
`)
	t.Setenv("PREFIX", "$")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")

	// Act
	cfg, err := Load(path)

	// Assert
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Prefix != "$" {
		t.Errorf("env should override YAML prefix, got %q", cfg.Prefix)
	}
	if cfg.Roles.Verified != "Linked" {
		t.Errorf("Verified = %q, want Linked", cfg.Roles.Verified)
	}
	if cfg.Roles.OnJoin != "Member" {
		t.Errorf("unset YAML keys should keep defaults, OnJoin = %q", cfg.Roles.OnJoin)
	}
	if cfg.DefaultMinecraftGuild != "Mineplex Refugees" {
		t.Errorf("DefaultMinecraftGuild = %q", cfg.DefaultMinecraftGuild)
	}
	if cfg.APIs.Timeout != 7*time.Second {
		t.Errorf("Timeout = %v, want 7s", cfg.APIs.Timeout)
	}
	if cfg.Redis.DB != 2 {
		t.Errorf("Redis.DB = %d, want 2", cfg.Redis.DB)
	}
}

func TestLoad_MissingSecrets_ReportsAll(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("HYPIXEL_API_KEY", "")

	_, err := Load("")

	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"DISCORD_TOKEN", "HYPIXEL_API_KEY"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %s", err, want)
		}
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "soon")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for non-numeric timeout")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	setRequiredEnv(t)
	path := writeFile(t, "roles: [not, a, mapping")

	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
