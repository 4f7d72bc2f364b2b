package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sandevgo/musage/internal/config"
	httpapi "github.com/sandevgo/musage/internal/transport/http"
	"github.com/sandevgo/musage/internal/transport/telegram"
	"github.com/sandevgo/musage/pkg/log"
	"github.com/sandevgo/musage/pkg/srv"
)

var (
	withTelegram bool
	withHTTP     bool
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the MuSage services",
	Long:  `Starts the enabled transports (Telegram bot, HTTP API) and the background workers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting musage")

		app := NewApp(ctx)
		services := app.Services

		if withTelegram || app.Config.EnableTelegram {
			bot, err := telegram.NewBot(ctx, config.NewTelegramConfig(ctx), app.Dialogue, app.Router)
			if err != nil {
				logger.Fatal().Err(err).Msg("failed to initialize telegram bot")
			}
			services = append(services, bot)
		}
		if withHTTP || app.Config.EnableHTTP {
			services = append(services, httpapi.NewServer(config.NewHTTPConfig(ctx), app.Dialogue, app.Router, app.Memory))
		}
		if len(services) == len(app.Services) {
			return errors.New("no transport enabled: use --telegram or --http")
		}

		// Start services
		srv.StartServices(ctx, services)

		// Wait for shutdown signal
		srv.ShutdownServices(ctx, services)
		logger.Info().Msg("musage has been shut down gracefully")

		return nil
	},
}

func init() {
	startCmd.Flags().BoolVar(&withTelegram, "telegram", false, "serve the Telegram bot")
	startCmd.Flags().BoolVar(&withHTTP, "http", false, "serve the HTTP API")
	rootCmd.AddCommand(startCmd)
}
