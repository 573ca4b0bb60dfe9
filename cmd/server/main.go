package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/lantern-hub/lantern/internal/api/http"
	"github.com/lantern-hub/lantern/internal/application/activity"
	"github.com/lantern-hub/lantern/internal/application/arbitration"
	"github.com/lantern-hub/lantern/internal/application/attempt"
	"github.com/lantern-hub/lantern/internal/application/auth"
	"github.com/lantern-hub/lantern/internal/application/leaderboard"
	appNotification "github.com/lantern-hub/lantern/internal/application/notification"
	"github.com/lantern-hub/lantern/internal/application/riddle"
	"github.com/lantern-hub/lantern/internal/application/user"
	"github.com/lantern-hub/lantern/internal/config"
	"github.com/lantern-hub/lantern/internal/domain/notification"
	"github.com/lantern-hub/lantern/internal/infrastructure/avatar"
	"github.com/lantern-hub/lantern/internal/infrastructure/metrics"
	"github.com/lantern-hub/lantern/internal/infrastructure/redisrelay"
	"github.com/lantern-hub/lantern/internal/infrastructure/sse"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("store error")
	}
	defer st.close()

	// infrastructure
	sseHub := sse.NewHub()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	var relay notification.Relay
	if cfg.RedisURL != "" {
		rr, err := redisrelay.New(ctx, cfg.RedisURL, cfg.RedisChannel, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis error")
		}
		defer rr.Close()
		relay = rr
	}

	avatars, err := newAvatarStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("avatar store error")
	}

	// services
	activitySvc := activity.NewService(st.activity, activity.Defaults{
		Name:     cfg.DefaultActivity.Name,
		Duration: cfg.DefaultActivity.Duration,
	}, logger)
	notificationSvc := appNotification.NewService(sseHub, relay, m, logger)
	arbitrationSvc := arbitration.NewService(activitySvc, st.riddles, st.attempts, st.users, notificationSvc, logger)
	riddleSvc := riddle.NewService(st.riddles, logger)
	attemptSvc := attempt.NewService(st.attempts, logger)
	leaderboardSvc := leaderboard.NewService(st.leaderboard, cfg.DisplayLocation, logger)
	authSvc := auth.NewService(st.users, st.sessions, cfg.SessionTTL, logger)
	userSvc := user.NewService(st.users, logger)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if _, err := userSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logger.Fatal().Err(err).Msg("admin bootstrap failed")
		}
	}

	opts := httpapi.Options{
		SessionCookieName:   cfg.SessionCookieName,
		SessionCookieSecure: cfg.SessionCookieSecure,
		DisplayLocation:     cfg.DisplayLocation,
		AvatarMaxBytes:      cfg.Avatar.MaxBytes,
		MetricsHandler:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	}
	if cfg.Avatar.Store == config.AvatarLocal {
		opts.AvatarDir = cfg.Avatar.Dir
	}
	apiServer := httpapi.NewServer(
		arbitrationSvc,
		activitySvc,
		riddleSvc,
		attemptSvc,
		leaderboardSvc,
		authSvc,
		userSvc,
		sseHub,
		avatars,
		m,
		st.ping,
		opts,
		logger,
	)

	httpServer := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     apiServer.Router(),
		ReadTimeout: 15 * time.Second,
		// No write timeout: event streams stay open for the whole contest.
		IdleTimeout: 60 * time.Second,
	}

	// background jobs
	go func() {
		if err := notificationSvc.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("relay subscription ended")
		}
	}()

	sched, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal().Err(err).Msg("scheduler error")
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(cfg.SessionSweep),
		gocron.NewTask(func() {
			if _, err := authSvc.SweepExpired(ctx); err != nil {
				logger.Warn().Err(err).Msg("session sweep failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	); err != nil {
		logger.Fatal().Err(err).Msg("schedule session sweep")
	}
	if _, err := sched.NewJob(
		gocron.DurationJob(15*time.Second),
		gocron.NewTask(func() {
			m.SetSSEClients(sseHub.GetClientCount())
		}),
	); err != nil {
		logger.Fatal().Err(err).Msg("schedule sse gauge")
	}
	sched.Start()

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Str("store", cfg.StoreDriver).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	<-ctx.Done()
	logger.Info().Msg("shutting down")
	if err := sched.Shutdown(); err != nil {
		logger.Warn().Err(err).Msg("scheduler shutdown")
	}
	// Closing the hub ends every open event stream so Shutdown can drain.
	sseHub.Stop()
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}

func newAvatarStore(ctx context.Context, cfg *config.Config) (avatar.Store, error) {
	if cfg.Avatar.Store == config.AvatarS3 {
		return avatar.NewS3Store(ctx, avatar.S3Config{
			Bucket:          cfg.Avatar.S3Bucket,
			Region:          cfg.Avatar.S3Region,
			Endpoint:        cfg.Avatar.S3Endpoint,
			AccessKeyID:     cfg.Avatar.S3AccessKeyID,
			SecretAccessKey: cfg.Avatar.S3SecretAccessKey,
			BaseURL:         cfg.Avatar.BaseURL,
			MaxBytes:        cfg.Avatar.MaxBytes,
		})
	}
	return avatar.NewLocalStore(cfg.Avatar.Dir, cfg.Avatar.BaseURL, cfg.Avatar.MaxBytes), nil
}
