package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sandevgo/ridevoice/internal/transport/cli"
	"github.com/sandevgo/ridevoice/pkg/log"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the agent from the terminal",
	Long:  `Runs a readline prompt over the same session the server uses. Typed lines stand in for speech.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		rt := newApp(ctx)
		defer func() {
			shutdownCtx := log.FromCtx(ctx).WithContext(context.Background())
			for i := len(rt.cleanups) - 1; i >= 0; i-- {
				if err := rt.cleanups[i].Shutdown(shutdownCtx); err != nil {
					log.FromCtx(ctx).Warn().Err(err).Msg("cleanup failed")
				}
			}
		}()

		rl, err := cli.NewReadLine(rt.cfg, rt.session, rt.commands)
		if err != nil {
			return err
		}
		defer rl.Shutdown(ctx)

		return rl.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
