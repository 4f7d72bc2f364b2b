package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sandevgo/musage/internal/service/ui"
)

const askSessionID = "cli-ask"

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a single question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		app := NewApp(ctx)
		// Background services are never started; only release resources.
		defer func() {
			for i := len(app.Services) - 1; i >= 0; i-- {
				_ = app.Services[i].Shutdown(ctx)
			}
		}()

		reply := app.Dialogue.Handle(ctx, askSessionID, strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
		fmt.Fprintln(cmd.ErrOrStderr(), ui.HintStyle.Render("source: "+string(reply.Source)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
