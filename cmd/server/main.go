package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/ctf-hub/ctfbot/internal/api/http"
	"github.com/ctf-hub/ctfbot/internal/application/command"
	"github.com/ctf-hub/ctfbot/internal/application/dispatch"
	"github.com/ctf-hub/ctfbot/internal/application/journal"
	"github.com/ctf-hub/ctfbot/internal/config"
	"github.com/ctf-hub/ctfbot/internal/domain/ctf"
	"github.com/ctf-hub/ctfbot/internal/domain/webhook"
	"github.com/ctf-hub/ctfbot/internal/infrastructure/dedup"
	"github.com/ctf-hub/ctfbot/internal/infrastructure/feishu"
	"github.com/ctf-hub/ctfbot/internal/infrastructure/postgres"
	"github.com/ctf-hub/ctfbot/internal/infrastructure/redisstore"
	"github.com/ctf-hub/ctfbot/internal/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	ctx := context.Background()

	// event dedup
	var deduplicator webhook.Deduplicator
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis error: %v", err)
		}
		defer rdb.Close()
		redisDedup := redisstore.NewDeduplicator(rdb, "", cfg.DedupTTL)
		if err := redisDedup.Ping(ctx); err != nil {
			log.Fatalf("redis error: %v", err)
		}
		deduplicator = redisDedup
		logger.Info().Dur("ttl", cfg.DedupTTL).Msg("using redis event dedup")
	} else {
		deduplicator = dedup.NewGenerational(cfg.DedupWindow, cfg.DedupGenerations)
	}

	// chat platform
	messenger := feishu.NewClient(feishu.Config{
		BaseURL:   cfg.FeishuBaseURL,
		AppID:     cfg.AppID,
		AppSecret: cfg.AppSecret,
		Timeout:   cfg.FeishuTimeout,
	}, logger)

	dispatcher := dispatch.NewDispatcher(
		ctf.NewDirectory(),
		command.Default(cfg.EnforceArity),
		messenger,
		deduplicator,
		dispatch.Config{
			VerificationToken: cfg.VerificationToken,
			BotOpenID:         cfg.BotOpenID,
		},
		logger,
	)

	// command journal
	var journalSvc *journal.Service
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, 4)
		if err != nil {
			log.Fatalf("db error: %v", err)
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool, migrationsFS(cfg.MigrationsDir)); err != nil {
			log.Fatalf("migration error: %v", err)
		}
		journalSvc = journal.NewService(postgres.NewJournalRepository(pool), logger)
		dispatcher.SetRecorder(journalSvc)
		defer journalSvc.Wait()
	}

	// API server
	apiServer := httpapi.NewServer(dispatcher, journalSvc, cfg.VerificationToken, logger)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server
	go func() {
		logger.Info().
			Str("addr", cfg.ServerAddr).
			Bool("enforceArity", cfg.EnforceArity).
			Bool("journal", journalSvc != nil).
			Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}

// migrationsFS prefers migrations on disk and falls back to the embedded set.
func migrationsFS(dir string) fs.FS {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return os.DirFS(dir)
		}
	}
	return migrations.FS
}
