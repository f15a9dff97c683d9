package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/parlorgames/mysteryparty/internal/api"
	"github.com/parlorgames/mysteryparty/internal/factory"
	redisstorage "github.com/parlorgames/mysteryparty/internal/storage/redis"
)

type serverConfig struct {
	host         string
	port         int
	packagesPath string
	storageType  string
	redisURL     string
	logLevel     string
}

func newServerCmd() *cobra.Command {
	cfg := &serverConfig{}

	v := viper.New()
	v.SetEnvPrefix("MYSTERYPARTY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Run the mystery party API server",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&cfg.host, "host", "", "address to bind to (env: MYSTERYPARTY_HOST)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: MYSTERYPARTY_PORT)")
	fs.StringVar(&cfg.packagesPath, "packages", "data/packages.json", "path to the package catalog (env: MYSTERYPARTY_PACKAGES)")
	fs.StringVar(&cfg.storageType, "storage", factory.StorageTypeMemory, "storage backend: memory, redis (env: MYSTERYPARTY_STORAGE)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection URL (env: MYSTERYPARTY_REDIS_URL)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "log level: debug, info, warn, error (env: MYSTERYPARTY_LOG_LEVEL)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	return cmd
}

func run(cfg *serverConfig) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.logLevel, err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	factoryCfg := factory.Config{
		PackagesPath: cfg.packagesPath,
		Logger:       logger,
		StorageType:  cfg.storageType,
	}

	if cfg.storageType == factory.StorageTypeRedis {
		if cfg.redisURL == "" {
			return fmt.Errorf("--redis-url required when storage is redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.redisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:              logger,
		AuthService:         app.AuthService,
		MysteryService:      app.MysteryService,
		PartyController:     app.PartyController,
		AdmissionController: app.AdmissionController,
		PhaseAdvancer:       app.PhaseAdvancer,
		Hub:                 app.Hub,
	})

	serverCfg := api.DefaultServerConfig()
	serverCfg.Host = cfg.host
	serverCfg.Port = cfg.port
	server := api.NewServer(router, serverCfg, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

func main() {
	if err := newServerCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
