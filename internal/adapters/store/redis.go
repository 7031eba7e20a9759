// Package store persists message counters and per-server settings in Redis.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "verifybot"

func NewRedis(addr string, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// Ping checks that the server is reachable.
func Ping(ctx context.Context, rdb *redis.Client) error {
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func messagesKey(guildID string) string {
	return keyPrefix + ":messages:" + guildID
}

func configKey(guildID string) string {
	return keyPrefix + ":config:" + guildID
}

// Counters keeps one hash per server mapping user id to message count.
type Counters struct {
	rdb *redis.Client
}

func NewCounters(rdb *redis.Client) *Counters {
	return &Counters{rdb: rdb}
}

func (c *Counters) Increment(ctx context.Context, guildID, userID string) error {
	return c.rdb.HIncrBy(ctx, messagesKey(guildID), userID, 1).Err()
}

// Read returns 0 for a user without messages.
func (c *Counters) Read(ctx context.Context, guildID, userID string) (int64, error) {
	n, err := c.rdb.HGet(ctx, messagesKey(guildID), userID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ReadAll skips fields that are not integers.
func (c *Counters) ReadAll(ctx context.Context, guildID string) (map[string]int64, error) {
	raw, err := c.rdb.HGetAll(ctx, messagesKey(guildID)).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(raw))
	for userID, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		out[userID] = n
	}
	return out, nil
}

const fieldMinecraftGuild = "minecraft_guild"

// GuildConfig stores per-server settings in one hash per server.
type GuildConfig struct {
	rdb *redis.Client
}

func NewGuildConfig(rdb *redis.Client) *GuildConfig {
	return &GuildConfig{rdb: rdb}
}

func (g *GuildConfig) MinecraftGuild(ctx context.Context, guildID string) (string, bool, error) {
	name, err := g.rdb.HGet(ctx, configKey(guildID), fieldMinecraftGuild).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, name != "", nil
}

func (g *GuildConfig) SetMinecraftGuild(ctx context.Context, guildID, name string) error {
	return g.rdb.HSet(ctx, configKey(guildID), fieldMinecraftGuild, name).Err()
}
