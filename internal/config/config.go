// Package config loads the bot configuration from an optional YAML file,
// a .env file and the process environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is built once at startup and passed explicitly to every component.
type Config struct {
	Prefix       string
	DiscordToken string
	HypixelKey   string

	Roles    Roles
	Ranks    Ranks
	APIs     APIs
	Redis    Redis
	HTTP     HTTP
	LogLevel string
	LogFmt   string

	// DefaultMinecraftGuild is the configured group for servers that have not
	// set one with the setguild command.
	DefaultMinecraftGuild string
}

// Roles are the Discord role names the bot manages besides the rank tiers.
type Roles struct {
	Verified    string `yaml:"verified"`
	GuildMember string `yaml:"guild_member"`
	OnJoin      string `yaml:"on_join"`
}

// Ranks tunes rank classification.
type Ranks struct {
	Staff         []string `yaml:"staff"`
	PremiumMarker string   `yaml:"premium_marker"`
}

// APIs holds the remote service endpoints and the per-call deadline.
type APIs struct {
	MojangBaseURL  string        `yaml:"mojang_base_url"`
	HypixelBaseURL string        `yaml:"hypixel_base_url"`
	Timeout        time.Duration `yaml:"timeout"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type HTTP struct {
	Addr           string        `yaml:"addr"`
	RateLimit      int           `yaml:"rate_limit"`
	RateLimitEvery time.Duration `yaml:"rate_limit_window"`
}

// fileConfig is the YAML layout.
type fileConfig struct {
	Prefix         string `yaml:"prefix"`
	MinecraftGuild string `yaml:"minecraft_guild"`
	Roles          Roles  `yaml:"roles"`
	Ranks          Ranks  `yaml:"ranks"`
	APIs           APIs   `yaml:"apis"`
	Redis          Redis  `yaml:"redis"`
	HTTP           HTTP   `yaml:"http"`
	Log            struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Prefix: "!",
		Roles: Roles{
			Verified:    "Verified",
			GuildMember: "Guild Member",
			OnJoin:      "Member",
		},
		Ranks: Ranks{
			Staff:         []string{"HELPER", "MODERATOR", "ADMIN", "YOUTUBER"},
			PremiumMarker: "SUPERSTAR",
		},
		APIs: APIs{
			MojangBaseURL:  "https://api.mojang.com",
			HypixelBaseURL: "https://api.hypixel.net",
			Timeout:        20 * time.Second,
		},
		Redis: Redis{Addr: "localhost:6379"},
		HTTP: HTTP{
			Addr:           ":3000",
			RateLimit:      60,
			RateLimitEvery: time.Minute,
		},
		LogLevel: "info",
		LogFmt:   "json",
	}
}

// Load reads .env (if present), then the YAML file at path (if non-empty and
// present), then environment variables. The result is validated.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := cfg.applyYAML(data); err != nil {
				return Config{}, err
			}
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyYAML(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setString(&c.Prefix, fc.Prefix)
	setString(&c.DefaultMinecraftGuild, fc.MinecraftGuild)
	setString(&c.Roles.Verified, fc.Roles.Verified)
	setString(&c.Roles.GuildMember, fc.Roles.GuildMember)
	setString(&c.Roles.OnJoin, fc.Roles.OnJoin)
	if len(fc.Ranks.Staff) > 0 {
		c.Ranks.Staff = fc.Ranks.Staff
	}
	setString(&c.Ranks.PremiumMarker, fc.Ranks.PremiumMarker)
	setString(&c.APIs.MojangBaseURL, fc.APIs.MojangBaseURL)
	setString(&c.APIs.HypixelBaseURL, fc.APIs.HypixelBaseURL)
	if fc.APIs.Timeout > 0 {
		c.APIs.Timeout = fc.APIs.Timeout
	}
	setString(&c.Redis.Addr, fc.Redis.Addr)
	setString(&c.Redis.Password, fc.Redis.Password)
	if fc.Redis.DB != 0 {
		c.Redis.DB = fc.Redis.DB
	}
	setString(&c.HTTP.Addr, fc.HTTP.Addr)
	if fc.HTTP.RateLimit != 0 {
		c.HTTP.RateLimit = fc.HTTP.RateLimit
	}
	if fc.HTTP.RateLimitEvery > 0 {
		c.HTTP.RateLimitEvery = fc.HTTP.RateLimitEvery
	}
	setString(&c.LogLevel, fc.Log.Level)
	setString(&c.LogFmt, fc.Log.Format)
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString(&c.Prefix, getenv("PREFIX"))
	setString(&c.DiscordToken, getenv("DISCORD_TOKEN"))
	setString(&c.HypixelKey, getenv("HYPIXEL_API_KEY"))
	setString(&c.DefaultMinecraftGuild, getenv("MINECRAFT_GUILD"))
	setString(&c.Roles.Verified, getenv("VERIFIED_ROLE"))
	setString(&c.Roles.GuildMember, getenv("GUILD_MEMBER_ROLE"))
	setString(&c.Roles.OnJoin, getenv("JOIN_ROLE"))
	setString(&c.Redis.Addr, getenv("REDIS_ADDR"))
	setString(&c.Redis.Password, getenv("REDIS_PASSWORD"))
	setString(&c.HTTP.Addr, getenv("HTTP_ADDR"))
	setString(&c.LogLevel, getenv("LOG_LEVEL"))
	setString(&c.LogFmt, getenv("LOG_FORMAT"))

	if v := getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Redis.DB = db
	}
	if v := getenv("REQUEST_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return fmt.Errorf("REQUEST_TIMEOUT_SECONDS: invalid value %q", v)
		}
		c.APIs.Timeout = time.Duration(secs) * time.Second
	}
	return nil
}

// Validate reports every missing required setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.DiscordToken == "" {
		errs = append(errs, errors.New("DISCORD_TOKEN is required"))
	}
	if c.HypixelKey == "" {
		errs = append(errs, errors.New("HYPIXEL_API_KEY is required"))
	}
	if c.Prefix == "" {
		errs = append(errs, errors.New("prefix must not be empty"))
	}
	if c.Roles.Verified == "" {
		errs = append(errs, errors.New("verified role name must not be empty"))
	}
	if c.APIs.Timeout <= 0 {
		errs = append(errs, errors.New("api timeout must be positive"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
