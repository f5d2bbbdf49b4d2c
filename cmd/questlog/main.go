package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/questlog/questlog/cmd/questlog/cli"
	"github.com/questlog/questlog/internal/app"
	"github.com/questlog/questlog/internal/auth"
	authhttp "github.com/questlog/questlog/internal/auth/http"
	"github.com/questlog/questlog/internal/authz"
	"github.com/questlog/questlog/internal/comments"
	"github.com/questlog/questlog/internal/docs"
	"github.com/questlog/questlog/internal/games"
	"github.com/questlog/questlog/internal/observability"
	"github.com/questlog/questlog/internal/platform/cache"
	"github.com/questlog/questlog/internal/platform/db"
	"github.com/questlog/questlog/internal/posts"
	"github.com/questlog/questlog/internal/users"
	"github.com/questlog/questlog/jobs"
)

var version = "dev"

func main() {
	migrateOnly := flag.Bool("migrate", false, "apply database migrations and exit")
	trigger := flag.String("trigger", "", "enqueue a payload-free job (games:warmup) and exit")
	queueStats := flag.Bool("queue-stats", false, "print default queue statistics and exit")
	flag.Parse()

	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Default().Warn("load .env", slog.Any("error", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	redisOpt, err := jobs.RedisOpt(cfg.RedisAddr)
	if err != nil {
		logger.Error("redis options", slog.Any("error", err))
		os.Exit(1)
	}

	if *trigger != "" || *queueStats {
		if err := runJobsCommand(ctx, redisOpt, *trigger, *queueStats); err != nil {
			logger.Error("jobs command", slog.Any("error", err))
			os.Exit(1)
		}
		return
	}

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if *migrateOnly {
		if err := db.Migrate(ctx, dbpool); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied")
		return
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		logger.Error("init verifier", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	document := docs.New("questlog API", version, "Posts, comments, profiles and the game catalogue.")
	docs.Register(document)

	jobClient := jobs.NewClient(redisOpt)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpt)
	defer inspector.Close()

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, verifier, jobClient, logger)

	postRepo := posts.NewRepository(dbpool)
	commentRepo := comments.NewRepository(dbpool)
	userRepo := users.NewRepository(dbpool)

	registry := authz.NewRegistry()
	registry.MustRegister(authz.KindPost, postRepo)
	registry.MustRegister(authz.KindComment, commentRepo)
	registry.MustRegister(authz.KindUserProfile, userRepo)

	guard := authz.NewGuard(authz.GuardParams{
		Resolver: auth.NewResolver(verifier, authRepo),
		Gate:     authz.NewGate(registry),
		Logger:   logger,
		Recorder: metrics,
		Docs:     document,
	})

	gameService := games.NewService(games.NewRepository(dbpool), games.NewCache(redisClient, cfg.GamesCacheTTL), logger)

	router := app.NewRouter(app.RouterParams{
		Logger:  logger,
		Config:  cfg,
		Metrics: metrics,
		Docs:    document,
		Health: map[string]app.HealthCheck{
			"postgres": dbpool.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
		AuthHandler:     authhttp.NewHandler(logger, authService, guard, cfg.LoginRateLimitPerMinute),
		PostsHandler:    posts.NewHandler(logger, posts.NewService(postRepo), guard),
		CommentsHandler: comments.NewHandler(logger, comments.NewService(commentRepo), guard),
		UsersHandler:    users.NewHandler(logger, users.NewService(userRepo), guard),
		GamesHandler:    games.NewHandler(logger, gameService, guard),
		JobHandler:      jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func runJobsCommand(ctx context.Context, opt asynq.RedisConnOpt, trigger string, stats bool) error {
	c := cli.NewJobsCLI(opt)
	defer c.Close()
	if trigger != "" {
		info, err := c.Trigger(ctx, trigger)
		if err != nil {
			return err
		}
		fmt.Printf("enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	}
	if stats {
		s, err := c.InspectQueue()
		if err != nil {
			return err
		}
		s.Print(os.Stdout)
	}
	return nil
}
