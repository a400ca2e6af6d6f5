package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/aliskhannn/trivia-quiz/internal/config"
	httpdelivery "github.com/aliskhannn/trivia-quiz/internal/delivery/http"
	"github.com/aliskhannn/trivia-quiz/internal/delivery/telegram"
	"github.com/aliskhannn/trivia-quiz/internal/domain/entities"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres"
	"github.com/aliskhannn/trivia-quiz/internal/infra/postgres/repository"
	"github.com/aliskhannn/trivia-quiz/internal/infra/redis"
	"github.com/aliskhannn/trivia-quiz/internal/logger"
	"github.com/aliskhannn/trivia-quiz/internal/security"
	"github.com/aliskhannn/trivia-quiz/internal/service"
	"github.com/aliskhannn/trivia-quiz/internal/storage"
	"github.com/aliskhannn/trivia-quiz/internal/trivia"
)

func main() {
	// A missing .env file is fine, the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
	lg.Info("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, lg *zap.Logger) error {
	location, err := entities.ParseLocation(cfg.Quiz.Timezone)
	if err != nil {
		return err
	}

	// Storage.
	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	sweepers := make(map[string]service.Sweeper)

	var sessions service.QuizSessionStore
	if cfg.Redis.URL != "" {
		client, err := redis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		sessions = redis.NewQuizSessionStore(client, cfg.Quiz.SessionTTL)
		lg.Info("quiz sessions stored in redis")
	} else {
		memory := storage.NewQuizStorage(cfg.Quiz.SessionTTL)
		sweepers["sessions"] = memory
		sessions = memory
		lg.Info("quiz sessions stored in memory")
	}

	// Question source.
	cache := storage.NewQuestionCache(cfg.Trivia.CacheTTL)
	sweepers["question_cache"] = cache

	source := trivia.NewClient(cfg.Trivia.BaseURL, &http.Client{}, cfg.Trivia.Timeout)
	fetcher := trivia.NewFetcher(source, cache, cfg.Trivia.Retries, cfg.Trivia.BackoffStep, lg.Named("trivia"))

	// Repositories and services.
	accountRepo := repository.NewAccountRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	tx := postgres.NewTransactor(pool)

	results := service.NewResultService(tx, accountRepo, attemptRepo, cfg.Quiz.DuplicateWindow, location, lg.Named("results"))
	quizService := service.NewQuizService(fetcher, sessions, results, cfg.Trivia.QuestionsPerQuiz, cfg.Quiz.DefaultTimeLimit, lg.Named("quiz"))
	accountService := service.NewAccountService(accountRepo, attemptRepo, security.NewBcryptHasher(0), lg.Named("accounts"))
	leaderboardService := service.NewLeaderboardService(attemptRepo, cfg.HTTP.StaticDir, cfg.HTTP.DefaultAvatar, lg.Named("leaderboard"))
	tokens := security.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Background jobs.
	maintenance := service.NewMaintenance(cfg.Maintenance.SweepSchedule, sweepers, lg.Named("maintenance"))
	go func() {
		if err := maintenance.Start(ctx); err != nil {
			lg.Error("maintenance stopped", zap.Error(err))
		}
	}()

	if cfg.Telegram.Token != "" {
		bot, err := newBot(cfg.Telegram, lg)
		if err != nil {
			return err
		}
		handler := telegram.NewHandler(bot, lg.Named("telegram"), quizService, leaderboardService)
		go func() {
			if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("telegram handler stopped", zap.Error(err))
			}
		}()
	}

	// HTTP server.
	web, err := httpdelivery.NewHandler(quizService, accountService, leaderboardService, tokens, httpdelivery.Options{
		StaticDir:    cfg.HTTP.StaticDir,
		CookieSecure: cfg.Auth.CookieSecure,
	}, lg.Named("http"))
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           web.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("http server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		lg.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func newBot(cfg config.Telegram, lg *zap.Logger) (*tgbotapi.BotAPI, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	bot.Debug = cfg.Debug

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "topics", Description: "Pick a topic and play"},
		{Command: "quiz", Description: "Start a quiz (usage: /quiz History)"},
		{Command: "leaderboard", Description: "Top players"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	lg.Info("telegram bot authorized", zap.String("username", bot.Self.UserName))
	return bot, nil
}
