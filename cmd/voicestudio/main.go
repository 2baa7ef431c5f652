package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ekisa-team/voicestudio/internal/config"
	"github.com/ekisa-team/voicestudio/internal/elevenlabs"
	"github.com/ekisa-team/voicestudio/internal/env"
	"github.com/ekisa-team/voicestudio/internal/envvar"
	"github.com/ekisa-team/voicestudio/internal/logger"
	httpserver "github.com/ekisa-team/voicestudio/internal/server/http"
	"github.com/ekisa-team/voicestudio/internal/service"
)

const shutdownTimeout = 10 * time.Second

type options struct {
	configPath string
	schemaPath string
	mode       string
}

func main() {
	loadDotEnv()

	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}

	environment := env.FromEnv()
	slog.SetDefault(logger.New(environment))

	configPath := opts.configPath
	if configPath == "" {
		if _, err := os.Stat(config.DefaultConfigFile()); err == nil {
			configPath = config.DefaultConfigFile()
		}
	}

	if err := run(environment, configPath, opts.schemaPath, opts.mode); err != nil {
		slog.Error("voicestudio stopped", "error", err)
		os.Exit(1)
	}
}

// loadDotEnv loads .env files into the environment. It runs before flag
// parsing because flag defaults are read from the environment.
func loadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("voicestudio", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to config file (default: "+config.DefaultConfigFile()+" when present)")
	fs.StringVar(&opts.schemaPath, "schema", "", "Path to an external schema file (default: embedded)")
	fs.StringVar(&opts.mode, "config-mode", os.Getenv(envvar.VoicestudioConfigMode), "Config reload mode: static, reload or watch")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

func run(environment env.Environment, configPath, schemaPath, modeName string) error {
	mode, err := config.ParseMode(modeName, environment)
	if err != nil {
		return err
	}

	source, err := config.NewSource(mode, configPath, schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load config %q: %w", configPath, err)
	}
	if c, ok := source.(io.Closer); ok {
		defer c.Close()
	}

	cfg, err := source.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to load config %q: %w", configPath, err)
	}

	slog.SetDefault(
		logger.New(environment,
			logger.WithLevel(cfg.Logging.Level),
			logger.WithLogToFile(cfg.Logging.ToFile),
			logger.WithLogFile(cfg.Logging.File),
		),
	)

	slog.Info("Config loaded successfully",
		"config", configPath,
		"mode", mode,
		"environment", environment,
		"streaming", cfg.Server.Streaming,
		"default_model", cfg.Provider.DefaultModelID,
	)

	tts := service.NewTTS(elevenlabs.NewClient(source), source)
	router := httpserver.NewRouter(tts, httpserver.Options{AllowedOrigins: cfg.Server.AllowedOrigins})
	srv := httpserver.NewServer(cfg.Addr(), router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
