package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yndnr/ofchat-go/internal/infra/buildinfo"
	"github.com/yndnr/ofchat-go/internal/infra/confloader"
	"github.com/yndnr/ofchat-go/internal/infra/shutdown"
	"github.com/yndnr/ofchat-go/internal/server/config"
	"github.com/yndnr/ofchat-go/internal/server/directory"
	"github.com/yndnr/ofchat-go/internal/server/httpserver"
	"github.com/yndnr/ofchat-go/internal/server/verifier"
	"github.com/yndnr/ofchat-go/internal/telemetry/logger"
	"github.com/yndnr/ofchat-go/internal/telemetry/metric"
)

// janitorInterval is how often expired codes and idle limiters are swept.
const janitorInterval = time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("ofchat-devserver %s\n", buildinfo.String())
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	info := buildinfo.Get()
	log.Info("starting ofchat-devserver",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile,
		"env", cfg.Env)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))
	if cfg.Dev.EchoCode {
		log.Warn("verification codes are echoed to clients; development use only")
	}

	shutdownHandler := shutdown.NewHandler(30*time.Second, log)
	reg := metric.NewRegistry()

	store, closeStore, err := initCodeStore(cfg, log)
	if err != nil {
		return fmt.Errorf("init code store: %w", err)
	}
	shutdownHandler.OnShutdown("code store", func(context.Context) error {
		return closeStore()
	})

	verifierSvc := verifier.NewService(store, verifier.Config{
		CodeTTL:        cfg.Verification.CodeTTL,
		ResendInterval: cfg.Verification.ResendInterval,
		MaxAttempts:    cfg.Verification.MaxAttempts,
		EchoCode:       cfg.Dev.EchoCode,
	}, verifier.WithLogger(log), verifier.WithMetrics(reg))

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	go verifierSvc.Janitor(janitorCtx, janitorInterval)
	shutdownHandler.OnShutdown("verifier janitor", func(context.Context) error {
		stopJanitor()
		return nil
	})

	accounts := directory.New(directory.WithLogger(log), directory.WithMetrics(reg))

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Verifier:    verifierSvc,
		Accounts:    accounts,
		Logger:      log,
		Metrics:     reg,
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
	})

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, log)
		if err != nil {
			log.Warn("config reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	ln, err := net.Listen("tcp", cfg.Server.HTTP.Addr)
	if err != nil {
		_ = shutdownHandler.Shutdown()
		return fmt.Errorf("listen: %w", err)
	}
	httpServer := httpserver.New(cfg.Server.HTTP.Addr, router, log)
	shutdownHandler.OnShutdown("http server", httpServer.Shutdown)

	serveCtx, serveFailed := context.WithCancel(context.Background())
	defer serveFailed()
	go func() {
		log.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			serveFailed()
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.WaitContext(serveCtx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// initLogger creates the process logger and installs it as the default.
func initLogger(cfg *config.ServerConfig) (*slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// initCodeStore opens the configured code store. The returned func
// releases it.
func initCodeStore(cfg *config.ServerConfig, log *slog.Logger) (verifier.CodeStore, func() error, error) {
	switch cfg.Verification.Store {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Verification.Redis.Addr,
			Password: cfg.Verification.Redis.Password,
			DB:       cfg.Verification.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis %s: %w", cfg.Verification.Redis.Addr, err)
		}

		log.Info("code store ready", "store", config.StoreRedis, "addr", cfg.Verification.Redis.Addr)
		return verifier.NewRedisCodeStore(client, verifier.DefaultKeyPrefix), client.Close, nil

	default:
		log.Info("code store ready", "store", config.StoreMemory)
		return verifier.NewMemoryCodeStore(), func() error { return nil }, nil
	}
}

// watchConfig reloads the log level when the config file changes. Other
// settings take effect on restart.
func watchConfig(path string, log *slog.Logger) (*confloader.Watcher, error) {
	reload := func(changed string) {
		cfg, err := config.Load(changed)
		if err != nil {
			log.Warn("ignoring config change", "path", changed, "error", err)
			return
		}
		prev := logger.CurrentLevel()
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			log.Warn("ignoring config change", "path", changed, "error", err)
			return
		}
		if level := logger.CurrentLevel(); level != prev {
			log.Info("log level changed", "from", prev, "to", level)
		}
	}

	watcher, err := confloader.NewWatcher(path, reload, confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	watcher.Start()
	return watcher, nil
}
