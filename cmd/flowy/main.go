package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/flowy/internal/api"
	"github.com/terraincognita07/flowy/internal/catalog"
	"github.com/terraincognita07/flowy/internal/cli"
	"github.com/terraincognita07/flowy/internal/config"
	"github.com/terraincognita07/flowy/internal/db"
	"github.com/terraincognita07/flowy/internal/locks"
	"github.com/terraincognita07/flowy/internal/logger"
	"github.com/terraincognita07/flowy/internal/metrics"
	"github.com/terraincognita07/flowy/internal/scheduler"
	"github.com/terraincognita07/flowy/internal/services"
)

const metricsPath = "/metrics"

const usage = `usage: flowy [command]

commands:
  serve                  run the HTTP API (default)
  seed                   load the achievement and reward catalog
  reset-password EMAIL   replace a password with a generated one
  set-password EMAIL     read a new password from stdin
`

type command struct {
	name  string
	email string
}

func parseCommand(args []string) (command, error) {
	if len(args) == 0 {
		return command{name: "serve"}, nil
	}

	name := strings.TrimSpace(args[0])
	switch name {
	case "serve", "seed":
		if len(args) > 1 {
			return command{}, fmt.Errorf("%s takes no arguments", name)
		}
		return command{name: name}, nil
	case "reset-password", "set-password":
		if len(args) != 2 || strings.TrimSpace(args[1]) == "" {
			return command{}, fmt.Errorf("%s requires an email", name)
		}
		return command{name: name, email: strings.TrimSpace(args[1])}, nil
	default:
		return command{}, fmt.Errorf("unknown command %q", name)
	}
}

func main() {
	cmd, err := parseCommand(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel, os.Stdout)

	if err := run(cmd, cfg); err != nil {
		logger.Log.WithError(err).WithField("command", cmd.name).Fatal("command failed")
	}
}

func run(cmd command, cfg config.Config) error {
	switch cmd.name {
	case "seed":
		return cli.RunSeedCommand(cfg, os.Stdout)
	case "reset-password":
		return cli.RunResetPasswordCommand(cfg, cmd.email, os.Stdout)
	case "set-password":
		return cli.RunSetPasswordCommand(cfg, cmd.email, os.Stdin, os.Stdout)
	default:
		return serve(cfg)
	}
}

func serve(cfg config.Config) error {
	location := cfg.Location()
	time.Local = location

	database, err := db.Open(cfg)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	store := db.NewServiceStore(database)

	loaded, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return err
	}
	if err := services.NewCatalogService(store).Seed(loaded.Achievements, loaded.Rewards); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	locker, closeLocker, err := buildLocker(sigCtx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer closeLocker()

	recorder := metrics.New()
	handler, err := api.NewHandler(database, cfg.SecretKey, api.Options{
		Location:       location,
		CookieSecure:   cfg.CookieSecure,
		Locker:         locker,
		Metrics:        recorder,
		ReferralReward: cfg.ReferralReward,
		AppURL:         cfg.AppURL,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	jobs, err := scheduler.New(handler.ReferralService(), handler.UsageService(), recorder, scheduler.Options{
		SweepInterval:      cfg.SweepInterval,
		UsageRetentionDays: cfg.UsageRetentionDays,
	})
	if err != nil {
		return err
	}
	jobs.Start()
	defer func() {
		if err := jobs.Shutdown(); err != nil {
			logger.Log.WithError(err).Warn("scheduler shutdown failed")
		}
	}()

	app := newApp(handler, recorder, cfg.CORSOrigins, logger.Log.Writer())

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Log.WithError(err).Error("server shutdown failed")
		}
	}()

	logger.Log.WithFields(map[string]any{
		"port":      cfg.Port,
		"db_driver": cfg.DBDriver,
		"tz":        location.String(),
	}).Info("flowy listening")
	if err := app.Listen(":" + cfg.Port); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

// buildLocker picks the Redis lock when REDIS_URL is set so several API
// replicas serialize the same user.
func buildLocker(ctx context.Context, redisURL string) (services.UserLocker, func(), error) {
	if strings.TrimSpace(redisURL) == "" {
		return services.NewLocalUserLocker(), func() {}, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	client, err := locks.DialRedis(dialCtx, redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Log.Info("using redis user locks")
	return locks.NewRedisUserLocker(client), func() { _ = client.Close() }, nil
}

func newApp(handler *api.Handler, recorder *metrics.Recorder, corsOrigins string, accessLog io.Writer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Flowy",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{Output: accessLog}))
	app.Use(compress.New())
	app.Use(cors.New(corsConfig(corsOrigins)))
	app.Use(recorder.Middleware(metricsPath))

	app.Get(metricsPath, adaptor.HTTPHandler(recorder.Handler()))
	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func corsConfig(origins string) cors.Config {
	origins = strings.TrimSpace(origins)
	if origins == "" {
		origins = "*"
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
	}
}
