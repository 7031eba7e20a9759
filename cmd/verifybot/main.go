package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"verifybot/internal/adapters/discord"
	"verifybot/internal/adapters/hypixel"
	"verifybot/internal/adapters/mojang"
	"verifybot/internal/adapters/store"
	"verifybot/internal/adapters/web"
	"verifybot/internal/config"
	"verifybot/internal/usecases"
	"verifybot/pkg/log"
	"verifybot/pkg/log/transporters"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "verifybot:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	log.SetDefault(logger)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Storage
	rdb := store.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer rdb.Close()
	if err := store.Ping(ctx, rdb); err != nil {
		// Counting and setguild degrade; verification still works.
		log.WarnCtx(ctx, "redis unavailable at startup", "addr", cfg.Redis.Addr, "error", err)
	}
	counters := store.NewCounters(rdb)
	guildConfig := store.NewGuildConfig(rdb)

	// Remote services
	resolver := mojang.NewClient(cfg.APIs.MojangBaseURL, cfg.APIs.Timeout, nil)
	fetcher := hypixel.NewClient(cfg.APIs.HypixelBaseURL, cfg.HypixelKey, cfg.APIs.Timeout,
		hypixel.WithRankRules(hypixel.RankRules{
			Staff:         cfg.Ranks.Staff,
			PremiumMarker: cfg.Ranks.PremiumMarker,
		}),
	)

	// Discord
	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		return err
	}
	gateway := discord.NewGateway(session)

	// Use cases
	verifyUC := usecases.NewVerifyAccountUseCase(resolver, fetcher, gateway, guildConfig, gateway, usecases.VerifySettings{
		VerifiedRole:          cfg.Roles.Verified,
		GuildMemberRole:       cfg.Roles.GuildMember,
		DefaultMinecraftGuild: cfg.DefaultMinecraftGuild,
	})
	leaderboardUC := usecases.NewLeaderboardUseCase(counters)
	counter := usecases.NewMessageCounter(counters, cfg.APIs.Timeout)

	dispatcher := discord.NewDispatcher(discord.DispatcherConfig{
		Prefix:      cfg.Prefix,
		Replier:     gateway,
		Verify:      verifyUC,
		Lookup:      usecases.NewLookupUseCase(counters),
		Leaderboard: leaderboardUC,
		SetGuild:    usecases.NewSetGuildUseCase(guildConfig),
		Counter:     counter,
		CanManage:   gateway.CanManageServer,
	})
	bot := discord.NewBot(session, dispatcher, usecases.NewJoinRoleUseCase(gateway, cfg.Roles.OnJoin), cfg.APIs.Timeout)

	// HTTP
	rateLimiter := web.NewRateLimiter(cfg.HTTP.RateLimit, cfg.HTTP.RateLimitEvery)
	defer rateLimiter.Close()
	app := web.NewApp(web.NewHandlers(leaderboardUC, func(ctx context.Context) error {
		return store.Ping(ctx, rdb)
	}), rateLimiter)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.InfoCtx(gctx, "starting http server", "addr", cfg.HTTP.Addr)
		if err := app.Listen(cfg.HTTP.Addr); err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := bot.Start(); err != nil {
			return err
		}
		log.InfoCtx(gctx, "bot started", "prefix", cfg.Prefix)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.InfoCtx(context.Background(), "shutting down")

		var errs []error
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := bot.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("discord shutdown: %w", err))
		}
		counter.Close()
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func configPath() string {
	if p := os.Getenv("VERIFYBOT_CONFIG"); p != "" {
		return p
	}
	return "config/verifybot.yaml"
}

func newLogger(cfg config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verifybot: %v, using %s\n", err, level)
	}

	var t log.Transporter = transporters.NewJSON()
	if cfg.LogFmt == "text" || cfg.LogFmt == "console" {
		t = transporters.NewConsole()
	}
	return log.New(level, t).With("service", "verifybot")
}
