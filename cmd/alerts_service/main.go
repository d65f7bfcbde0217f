package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dealtracker/internal/config"
	addAlert "dealtracker/internal/http-server/handlers/alerts/add"
	deleteAlert "dealtracker/internal/http-server/handlers/alerts/delete"
	editAlert "dealtracker/internal/http-server/handlers/alerts/edit"
	getAlerts "dealtracker/internal/http-server/handlers/alerts/get"
	recentAlerts "dealtracker/internal/http-server/handlers/alerts/recent"
	addDeal "dealtracker/internal/http-server/handlers/deals/add"
	getDeals "dealtracker/internal/http-server/handlers/deals/get"
	addFilter "dealtracker/internal/http-server/handlers/filters/add"
	getFilters "dealtracker/internal/http-server/handlers/filters/get"
	searchStores "dealtracker/internal/http-server/handlers/search"
	addUser "dealtracker/internal/http-server/handlers/users/add"
	"dealtracker/internal/lib/jwt"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/lib/pricesource"
	"dealtracker/internal/lib/pricewatch"
	"dealtracker/internal/middleware/alerts"
	auth "dealtracker/internal/middleware/auth"
	"dealtracker/internal/middleware/pricing"
	"dealtracker/internal/rabbitmq"
	"dealtracker/internal/storage/postgres"
	"dealtracker/internal/storage/redis"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad("./config/alerts.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting alerts service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	jwtParser := jwt.New(cfg.JWTSecret)

	redisClient, err := redis.New(ctx, cfg.Redis.Addr, cfg.Redis.Db, cfg.Redis.DefaultTTL)
	if err != nil {
		log.Error("failed to connect redis", sl.Err(err))
		os.Exit(1)
	}
	defer redisClient.Close()

	postgresClient, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		log.Error("failed to connect postgres", sl.Err(err))
		os.Exit(1)
	}
	defer postgresClient.Close()

	rabbitMQClient, err := rabbitmq.New(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.FetchQueue,
		cfg.RabbitMQ.UpdateQueue,
	)
	if err != nil {
		log.Error("failed to connect rabbitMQ", sl.Err(err))
		os.Exit(1)
	}
	defer rabbitMQClient.Close()

	fetchProducer := rabbitmq.NewProducer(
		rabbitMQClient.Channel,
		cfg.RabbitMQ.FetchQueue,
	)
	updateConsumer := rabbitmq.NewConsumer(
		rabbitMQClient.Channel,
		log,
		cfg.RabbitMQ.UpdateQueue,
		cfg.RabbitMQ.WorkerPoolSize,
	)

	sourceClient := pricesource.New(cfg.PriceSource.BaseURL, cfg.PriceSource.Timeout)

	refresher := pricing.New(
		log,
		sourceClient,
		postgresClient,
		redisClient,
		cfg.RefreshAfter,
	)

	alertOp := alerts.New(
		postgresClient,
		redisClient,
		refresher,
		fetchProducer,
		int64(cfg.RecentLimit),
		cfg.ItemsPerPage,
	)

	watch := pricewatch.New(postgresClient, redisClient, updateConsumer)
	if err := watch.Run(ctx); err != nil {
		log.Error("failed to start price watch", sl.Err(err))
		os.Exit(1)
	}

	requestValidator := validator.New()

	router := setupRouter(
		log,
		cfg,
		requestValidator,
		postgresClient,
		alertOp,
		sourceClient,
		jwtParser,
	)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", sl.Err(err))
			cancel()
		}
	}()

	log.Info("server started", slog.String("address", cfg.HTTPServer.Address))

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", sl.Err(err))
	}

	log.Info("server stopped")
}

func setupRouter(
	log *slog.Logger,
	cfg *config.Config,
	validate *validator.Validate,
	postgresClient *postgres.PostgresRepo,
	alertOp *alerts.AlertOperator,
	sourceClient *pricesource.Client,
	jwtParser *jwt.JWTParser,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.With(auth.New(jwtParser)).
		Post("/user", addUser.New(log, postgresClient, validate))

	r.Post("/recent_alerts", recentAlerts.New(log, postgresClient, alertOp, validate))
	r.Post("/alerts", getAlerts.New(log, postgresClient, alertOp, cfg.ItemsPerPage, validate))
	r.Post("/alerts/add", addAlert.New(log, postgresClient, alertOp, validate))
	r.Patch("/alerts", editAlert.New(log, alertOp, validate))
	r.Delete("/alerts", deleteAlert.New(log, alertOp, validate))

	r.Post("/search", searchStores.New(log, sourceClient, cfg.ItemsPerPage, validate))

	r.Get("/deals", getDeals.New(log, postgresClient))
	r.With(auth.RequirePermission(jwtParser, "post:deals")).
		Post("/deals", addDeal.New(log, postgresClient, validate))

	r.Get("/filters", getFilters.New(log, postgresClient))
	r.With(auth.RequirePermission(jwtParser, "post:filters")).
		Post("/filters", addFilter.New(log, postgresClient, validate))

	return r
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}
