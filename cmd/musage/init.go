package main

import (
	"github.com/spf13/cobra"

	"github.com/sandevgo/musage/internal/config"
	"github.com/sandevgo/musage/internal/service/installer"
	"github.com/sandevgo/musage/pkg/log"
)

var (
	initDefaults bool
	initForce    bool
)

var initCmd = &cobra.Command{
	Use:           "init",
	Short:         "Create the MuSage configuration",
	Long:          `Asks a few questions and writes .env to the runtime directory. With --defaults every setting keeps its default value.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		envPath := config.AppConfig{RuntimePath: config.GetRuntimePath()}.GetEnvPath()

		if initDefaults {
			state := installer.NewInstallState()
			state.App.Offline = offline
			if err := installer.WriteEnv(envPath, state, initForce); err != nil {
				return err
			}
		} else if _, err := installer.RunWizard(envPath, initForce); err != nil {
			return err
		}

		logger.Info().Str("path", envPath).Msg("configuration written")
		logger.Info().Msg("Setup complete! You can now run 'musage chat'.")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "write the defaults without asking")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing .env")
	rootCmd.AddCommand(initCmd)
}
