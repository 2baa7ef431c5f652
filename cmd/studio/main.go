package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ekisa-team/voicestudio/internal/catalog"
	"github.com/ekisa-team/voicestudio/internal/env"
	"github.com/ekisa-team/voicestudio/internal/envvar"
	"github.com/ekisa-team/voicestudio/internal/logger"
	"github.com/ekisa-team/voicestudio/internal/playback"
	"github.com/ekisa-team/voicestudio/internal/playback/process"
	"github.com/ekisa-team/voicestudio/internal/studio"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "failed to load .env file:", err)
	}

	var (
		flagProxyURL = flag.String("proxy", envOr(envvar.VoicestudioProxyURL, studio.DefaultProxyURL), "Base URL of the voicestudio proxy")
		flagPlayer   = flag.String("player", os.Getenv(envvar.VoicestudioPlayer), "Audio player command (default: ffplay)")
		flagModel    = flag.String("default-model", envOr(envvar.ElevenLabsModelID, catalog.DefaultModel), "Model the proxy uses when none is requested")
		flagLogLevel = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	slog.SetDefault(logger.New(env.FromEnv(), logger.WithLevel(*flagLogLevel)))

	if err := run(*flagProxyURL, *flagPlayer, *flagModel); err != nil {
		slog.Error("Studio stopped", "error", err)
		os.Exit(1)
	}
}

func run(proxyURL, playerCmd, defaultModel string) error {
	var opts []process.Option
	if opt, ok := process.ParsePlayer(playerCmd); ok {
		opts = append(opts, opt)
	}
	handle := process.New(opts...)
	defer handle.Close()

	player := playback.NewPlayer()
	player.Attach(handle)

	session, err := studio.NewSession(studio.NewClient(proxyURL), player, studio.WithDefaultModel(defaultModel))
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("voicestudio, proxy at %s. Type help for commands.\n", proxyURL)
	if err := session.LoadVoices(ctx); err != nil {
		fmt.Println("warning: could not load voices:", err)
	}

	return studio.NewREPL(session, os.Stdout).Run(ctx, os.Stdin)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
