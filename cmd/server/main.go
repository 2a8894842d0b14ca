package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/Skotchmaster/bookly/internal/config"
	"github.com/Skotchmaster/bookly/internal/db"
	"github.com/Skotchmaster/bookly/internal/handlers"
	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/mail"
	"github.com/Skotchmaster/bookly/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/bookly/internal/middleware/logging"
	"github.com/Skotchmaster/bookly/internal/notify"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/revocation"
	"github.com/Skotchmaster/bookly/internal/search"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/tokens"
	httpserver "github.com/Skotchmaster/bookly/internal/transport/http"
)

// logDeliverer stands in for the webhook when WEBHOOK_URL is not set so the
// queue keeps draining.
type logDeliverer struct{ l *slog.Logger }

func (d logDeliverer) Deliver(_ context.Context, bookTitle, reviewText string) error {
	d.l.Info("notification_dropped", "reason", "WEBHOOK_URL not set", "book_title", bookTitle, "review_len", len(reviewText))
	return nil
}

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err == nil {
		err = db.Migrate(initCtx, gdb)
	}
	cancel()
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	ready := map[string]httpserver.ReadyCheck{
		"db": func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}

	var registry revocation.Registry
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		rr := revocation.NewRedisRegistry(rdb)
		registry = rr
		ready["redis"] = rr.Ping
	} else {
		logger.Warn("revocation_registry_in_memory", "reason", "REDIS_ADDR not set")
		registry = revocation.NewMemoryRegistry()
	}

	var queue notify.Queue
	if len(cfg.KafkaBrokers) > 0 {
		kq := notify.NewKafkaQueue(cfg.KafkaBrokers, cfg.NotifyTopic, cfg.NotifyGroupID)
		queue = kq
		ready["kafka"] = kq.Ping
	} else {
		logger.Warn("notify_queue_in_memory", "reason", "KAFKA_BROKERS not set")
		queue = notify.NewMemoryQueue(0)
	}

	var index search.Indexer
	if cfg.ESURL != "" {
		esCtx, esCancel := context.WithTimeout(context.Background(), 5*time.Second)
		es, err := search.NewClient(esCtx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		esCancel()
		if err != nil {
			logger.Warn("search_index_disabled", "error", err)
		} else {
			index = &search.ESIndex{ES: es, Index: cfg.ESIndex}
		}
	}

	codec, err := tokens.NewCodec(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("tokens: %v", err)
	}

	mailer := &mail.Background{
		Next: mail.NewSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}, logger),
		Logger:  logger,
		Timeout: 30 * time.Second,
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := notify.NewMetrics(reg)

	gormRepo := &repo.GormRepo{DB: gdb}
	bookSvc := &service.BookService{Repo: gormRepo, Index: index}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &handlers.AuthHTTP{Svc: &service.AuthService{
			Repo:       gormRepo,
			Codec:      codec,
			Registry:   registry,
			Mailer:     mailer,
			AccessTTL:  cfg.AccessTokenTTL,
			RefreshTTL: cfg.RefreshTokenTTL,
			LinkMaxAge: cfg.LinkTokenMaxAge,
			Domain:     cfg.Domain,
		}},
		BookHandler:   &handlers.BookHTTP{Svc: bookSvc},
		ReviewHandler: &handlers.ReviewHTTP{Svc: &service.ReviewService{Repo: gormRepo, Producer: notify.NewProducer(queue)}},
		TagHandler:    &handlers.TagHTTP{Svc: &service.TagService{Repo: gormRepo, Books: bookSvc}},
		Guard:         &auth.Guard{Codec: codec, Registry: registry, Users: gormRepo},
		Ready:         ready,
		Metrics:       reg,
	})

	var deliverer notify.Deliverer = logDeliverer{l: logger}
	if cfg.WebhookURL != "" {
		deliverer = notify.NewWebhook(cfg.WebhookURL, cfg.WebhookTimeout)
	}
	consumer := &notify.Consumer{
		Queue:         queue,
		Webhook:       deliverer,
		MaxDeliveries: cfg.NotifyMaxDeliveries,
		Metrics:       metrics,
		Logger:        logger,
	}
	sup := &notify.Supervisor{
		Run:         consumer.Run,
		MaxRestarts: uint64(max(cfg.ConsumerMaxRestarts, 0)),
		BaseDelay:   500 * time.Millisecond,
		Metrics:     metrics,
		Logger:      logger,
	}
	sup.Start(context.Background())

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-stop:
		logger.Info("shutdown_signal", "signal", sig.String())
	case <-sup.Done():
		logger.Error("notification_consumer_failed", "error", sup.Err())
		exitCode = 1
	case err := <-serveErr:
		logger.Error("http_server_failed", "error", err)
		exitCode = 1
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	if err := sup.Stop(shutdownCtx); err != nil {
		logger.Warn("consumer_stop", "error", err)
	}
	mailer.Wait()
	if err := queue.Close(); err != nil {
		logger.Error("queue_close_failed", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis_close_failed", "error", err)
		}
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}

	shutdownCancel()

	logger.Info("shutdown_complete")
	os.Exit(exitCode)
}
