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
	createCategory "dealtracker/internal/http-server/handlers/categories/create"
	getCategories "dealtracker/internal/http-server/handlers/categories/get"
	categoryQuestions "dealtracker/internal/http-server/handlers/categories/questions"
	saveGame "dealtracker/internal/http-server/handlers/games/save"
	createQuestion "dealtracker/internal/http-server/handlers/questions/create"
	deleteQuestion "dealtracker/internal/http-server/handlers/questions/delete"
	getQuestions "dealtracker/internal/http-server/handlers/questions/get"
	searchQuestions "dealtracker/internal/http-server/handlers/questions/search"
	playQuiz "dealtracker/internal/http-server/handlers/quiz/play"
	sl "dealtracker/internal/lib/logger"
	"dealtracker/internal/storage/postgres"

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

	cfg := config.MustLoadTrivia("./config/trivia.yaml")

	log := setupLogger(cfg.Env)

	log.Info("starting trivia service", slog.String("env", cfg.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Info("Shutdown signal received")
		cancel()
	}()

	postgresClient, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		log.Error("failed to connect postgres", sl.Err(err))
		os.Exit(1)
	}
	defer postgresClient.Close()

	requestValidator := validator.New()

	router := setupRouter(log, cfg, requestValidator, postgresClient)

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
	cfg *config.TriviaConfig,
	validate *validator.Validate,
	postgresClient *postgres.PostgresRepo,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/categories", getCategories.New(log, postgresClient))
	r.Post("/categories", createCategory.New(log, postgresClient, validate))
	r.Get("/categories/{id}/questions", categoryQuestions.New(log, postgresClient))

	r.Get("/questions", getQuestions.New(log, postgresClient, cfg.QuestionsPerPage))
	r.Post("/questions", createQuestion.New(log, postgresClient, validate))
	r.Delete("/questions/{id}", deleteQuestion.New(log, postgresClient))
	r.Post("/questions/search", searchQuestions.New(log, postgresClient, cfg.QuestionsPerPage, validate))

	r.Post("/quizzes", playQuiz.New(log, postgresClient))
	r.Post("/games", saveGame.New(log, postgresClient, validate))

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
