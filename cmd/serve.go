package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chatrelay/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay server",
	Long:  `Start the ChatRelay HTTP server with the specified configuration.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()

	// Server flags
	flags.StringP("host", "H", "0.0.0.0", "server host")
	flags.IntP("port", "p", 8080, "server port")
	flags.String("mode", "release", "server mode (debug/release/test)")

	// Relay flags
	flags.String("route", "", "relay route suffix, empty serves the relay at /")
	flags.String("language", "zh", "response message language (zh/en)")
	flags.Bool("save-logs", false, "record every relayed conversation")

	// Rate limit flags
	flags.Int("limit-second", 0, "max requests per client per second (0 = unlimited)")
	flags.Int("limit-minute", 0, "max requests per client per minute (0 = unlimited)")
	flags.Int("limit-hour", 0, "max requests per client per hour (0 = unlimited)")
	flags.String("limit-backend", "memory", "rate limit backend (memory/redis)")

	// AI flags
	flags.String("ai-provider", "openai", "AI provider (openai/azure/ark)")
	flags.String("ai-base-url", "", "upstream base URL for OpenAI-compatible endpoints")

	// Log flags
	flags.String("log-level", "info", "log level (trace/debug/info/warn/error/fatal)")
	flags.String("log-format", "console", "log format (json/console)")

	// Bind flags to viper
	_ = viper.BindPFlag("server.host", flags.Lookup("host"))
	_ = viper.BindPFlag("server.port", flags.Lookup("port"))
	_ = viper.BindPFlag("server.mode", flags.Lookup("mode"))
	_ = viper.BindPFlag("relay.route", flags.Lookup("route"))
	_ = viper.BindPFlag("relay.language", flags.Lookup("language"))
	_ = viper.BindPFlag("relay.save_logs", flags.Lookup("save-logs"))
	_ = viper.BindPFlag("rate_limit.second", flags.Lookup("limit-second"))
	_ = viper.BindPFlag("rate_limit.minute", flags.Lookup("limit-minute"))
	_ = viper.BindPFlag("rate_limit.hour", flags.Lookup("limit-hour"))
	_ = viper.BindPFlag("rate_limit.backend", flags.Lookup("limit-backend"))
	_ = viper.BindPFlag("ai.provider", flags.Lookup("ai-provider"))
	_ = viper.BindPFlag("ai.base_url", flags.Lookup("ai-base-url"))
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	// Validate config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// Create server
	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().
		Str("addr", addr).
		Str("mode", cfg.Server.Mode).
		Str("route", cfg.Relay.RoutePath()).
		Str("language", cfg.Relay.Language).
		Msg("starting server")

	return srv.Run(ctx, addr)
}
