// Command interviewd serves the mock job-interview API.
//
// Usage:
//
//	GEMINI_API_KEY=... interviewd [flags]
//
// Flags:
//
//	--port string       Port to listen on (env PORT, default 8080)
//	--api-key string    Gemini API key (env GEMINI_API_KEY, required)
//	--model string      Gemini model ID (env GEMINI_MODEL, default: client default)
//	--log-level string  Log level (env LOG_LEVEL, default info)
//	--debug             Include error detail in responses (env DEBUG)
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"github.com/hireloop/interview/engine"
	"github.com/hireloop/interview/gemini"
	"github.com/hireloop/interview/memstore"
	"github.com/hireloop/interview/rest"
)

type config struct {
	port     string
	apiKey   string
	model    string
	logLevel string
	debug    bool
}

func main() {
	// Handle OS signals for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "interviewd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	var cfg config

	cmd := &cli.Command{
		Name:      "interviewd",
		Usage:     "Serve the mock job-interview API",
		UsageText: "interviewd [options]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "port",
				Usage:       "port to listen on",
				Sources:     cli.EnvVars("PORT"),
				Value:       "8080",
				Destination: &cfg.port,
			},
			&cli.StringFlag{
				Name:        "api-key",
				Usage:       "Gemini API key",
				Sources:     cli.EnvVars("GEMINI_API_KEY"),
				Destination: &cfg.apiKey,
			},
			&cli.StringFlag{
				Name:        "model",
				Usage:       "Gemini model ID",
				Sources:     cli.EnvVars("GEMINI_MODEL"),
				Destination: &cfg.model,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Value:       "info",
				Destination: &cfg.logLevel,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "include error detail in API responses",
				Sources:     cli.EnvVars("DEBUG"),
				Destination: &cfg.debug,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			return serve(ctx, cfg)
		},
	}

	return cmd.Run(ctx, args)
}

func serve(ctx context.Context, cfg config) error {
	// The dialogue-backend credential is a fatal startup condition: refuse to
	// serve without it.
	if cfg.apiKey == "" {
		return errors.New("GEMINI_API_KEY is not set")
	}

	level, err := zerolog.ParseLevel(cfg.logLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	var geminiOpts []gemini.Option
	if cfg.model != "" {
		geminiOpts = append(geminiOpts, gemini.WithModel(cfg.model))
	}
	gen, err := gemini.New(ctx, cfg.apiKey, geminiOpts...)
	if err != nil {
		return err
	}

	eng := engine.New(memstore.New(), gen,
		engine.WithLogger(logger.With().Str("component", "engine").Logger()))
	api := rest.NewServer(eng,
		rest.WithLogger(logger.With().Str("component", "rest").Logger()),
		rest.WithDebug(cfg.debug))

	srv := &http.Server{
		Addr:              ":" + cfg.port,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
