package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Akhildas-ts/vectorstore-mcp/internal/config"
)

var errProbeFailed = errors.New("API key was rejected or the upstream is unreachable")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("vectorstore-mcp exited with error")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfg       *config.Config
		transport string
		logLevel  string
	)

	root := &cobra.Command{
		Use:           "vectorstore-mcp",
		Short:         "MCP server for OpenAI vector stores, files and file batches",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional
			envErr := godotenv.Load()

			var err error
			if cfg, err = config.Process(); err != nil {
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.Transport = transport
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			initLogger(cfg)
			if envErr != nil {
				log.Debug().Err(envErr).Msg("no .env file loaded")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&transport, "transport", config.TransportStdio, "MCP transport: stdio or http (overrides MCP_TRANSPORT)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error (overrides LOG_LEVEL)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	var probeTimeout time.Duration
	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Check that the configured API key is accepted; exits 1 when it is not",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
			defer cancel()
			return runProbe(ctx, cfg)
		},
	}
	probeCmd.Flags().DurationVar(&probeTimeout, "timeout", 15*time.Second, "Give up on the probe after this long")

	root.AddCommand(serveCmd, probeCmd)
	return root
}

// initLogger writes to stderr: stdout carries the stdio MCP stream.
func initLogger(cfg *config.Config) {
	zerolog.SetGlobalLevel(cfg.ZerologLevel())
	zerolog.DurationFieldUnit = time.Millisecond
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Caller().Logger()
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	srv := initializeServer(cfg, prometheus.DefaultRegisterer)

	log.Info().
		Str("name", cfg.ServerName).
		Str("version", cfg.ServerVersion).
		Str("transport", cfg.Transport).
		Str("upstream", cfg.OpenAIBaseURL).
		Int("tools", len(srv.Handlers.MCP.Tools())).
		Msg("starting MCP server")

	var err error
	switch cfg.Transport {
	case config.TransportHTTP:
		err = srv.ListenAndServe(ctx)
	default:
		err = srv.Handlers.MCP.Server().Run(ctx, &mcp.StdioTransport{})
	}
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("MCP server stopped")
		return nil
	}
	return err
}

func runProbe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}
	srv := initializeServer(cfg, prometheus.NewRegistry())
	if !srv.Services.Gateway.ValidateAPIKey(ctx) {
		return errProbeFailed
	}
	fmt.Fprintln(os.Stdout, "API key accepted")
	return nil
}
