package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sandevgo/musage/internal/config"
	"github.com/sandevgo/musage/internal/transport/cli"
	"github.com/sandevgo/musage/pkg/log"
	"github.com/sandevgo/musage/pkg/srv"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with MuSage in the terminal",
	Long:  `Starts an interactive session. Logs go to musage.log in the runtime directory unless --debug is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		ctx, flushLog, err := setupChatLogger(ctx)
		if err != nil {
			return err
		}
		defer flushLog()

		app := NewApp(ctx)

		repl, err := cli.NewReadLine(app.Dialogue, app.Router, app.Config)
		if err != nil {
			return fmt.Errorf("failed to start readline: %w", err)
		}

		// Leaving the REPL ends the whole process.
		services := append(app.Services, srv.NewFunc(func(ctx context.Context) error {
			defer stop()
			return repl.Start(ctx)
		}, func() error {
			return repl.Shutdown(context.Background())
		}))

		srv.StartServices(ctx, services)
		srv.ShutdownServices(ctx, services)
		return nil
	},
}

// setupChatLogger keeps log lines off the terminal the REPL draws on.
func setupChatLogger(ctx context.Context) (context.Context, func(), error) {
	if debug || config.IsDebug() {
		ctx, flush := setupLogger(ctx)
		return ctx, flush, nil
	}

	dir := config.GetRuntimePath()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "musage.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	ctx, flush := log.NewContextWithWriter(ctx, f, false)
	return ctx, func() {
		flush()
		_ = f.Close()
	}, nil
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
