package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/config"
	"github.com/Gilson1506/CCALLASPROJET/internal/handler"
	"github.com/Gilson1506/CCALLASPROJET/internal/logging"
	"github.com/Gilson1506/CCALLASPROJET/internal/realtime"
	"github.com/Gilson1506/CCALLASPROJET/internal/relay"
	"github.com/Gilson1506/CCALLASPROJET/internal/repository"
	"github.com/Gilson1506/CCALLASPROJET/internal/service"
	"github.com/Gilson1506/CCALLASPROJET/internal/storage"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup("server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	// realtime: Postgres NOTIFY -> broker -> subscriptions
	broker := realtime.NewBroker(0)
	defer broker.Close()
	listener := realtime.NewPgListener(cfg.DatabaseURL, broker)

	feed := service.NewNotificationFeed(broker)
	feed.Start()
	defer feed.Stop()

	userRepo := repository.NewPgUserRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	calendarRepo := repository.NewPgCalendarRepository(pool)
	registrationRepo := repository.NewPgRegistrationRepository(pool)

	authService := service.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL)
	svcs := services{
		auth:         authService,
		events:       service.NewEventService(repository.NewPgEventRepository(pool)),
		news:         service.NewNewsService(repository.NewPgNewsRepository(pool)),
		calendar:     service.NewCalendarService(calendarRepo),
		partners:     service.NewPartnerService(repository.NewPgPartnerRepository(pool)),
		fairs:        service.NewFairService(repository.NewPgFairRepository(pool)),
		search:       service.NewSearchService(repository.NewPgSearchRepository(pool)),
		stats:        service.NewStatsService(repository.NewPgStatsRepository(pool)),
		contacts:     service.NewContactService(repository.NewPgMessageRepository(pool)),
		newsletter:   service.NewNewsletterService(repository.NewPgSubscriberRepository(pool)),
		registration: service.NewRegistrationService(registrationRepo),
		siteConfig:   service.NewSiteConfigService(repository.NewPgSiteConfigRepository(pool)),
		chat:         service.NewChatService(repository.NewPgChatRepository(pool)),
		newWizard: func() *service.RegistrationWizard {
			return service.NewRegistrationWizard(calendarRepo, registrationRepo)
		},
		feed:    feed,
		broker:  broker,
		storage: storage.NewLocalStorage(cfg.UploadDir, cfg.PublicBaseURL),
	}

	limiter := handler.NewRateLimiter(cfg.RateLimitPerMinute).WithTrustedProxies(cfg.TrustedProxyCount)
	defer limiter.Stop()

	h := handler.New(pool, cfg.AllowedOrigins()...).WithFeed(broker)
	mux := http.NewServeMux()
	registerRoutes(mux, h, svcs, cfg, limiter)

	// 期限切れセッションを毎時削除
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 1h", func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := authService.PurgeExpired(jobCtx)
		if err != nil {
			slog.Error("session purge failed", "error", err)
			return
		}
		slog.Info("expired sessions purged", "count", n)
	}); err != nil {
		logging.Fatal("failed to schedule session purge", "error", err)
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Recover(handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux)))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return listener.Run(gctx)
	})

	if cfg.AMQPURL != "" {
		publisher, err := relay.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			// relay は任意機能なので起動は続ける
			slog.Error("amqp relay disabled", "error", err)
		} else {
			defer publisher.Close()
			g.Go(func() error {
				return relay.New(broker, publisher).Run(gctx)
			})
		}
	}

	g.Go(func() error {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped", "error", err)
		return
	}
	slog.Info("server stopped")
}
