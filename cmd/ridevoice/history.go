package main

import (
	"encoding/json"
	"fmt"

	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/service/history"
	"github.com/sandevgo/ridevoice/internal/storage"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect or reset the stored conversation",
}

func openGateway(cmd *cobra.Command) (*history.Gateway, *config.AppConfig, func() error, error) {
	ctx := cmd.Context()
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, nil, nil, err
	}

	appCfg := config.NewAppConfig(ctx)
	store, err := storage.NewStore(ctx, appCfg, config.NewStoreConfig(ctx))
	if err != nil {
		return nil, nil, nil, err
	}
	return history.NewGateway(store, nil, appCfg.HistoryLimit), appCfg, store.Close, nil
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored turns as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		cmd.SetContext(ctx)

		gw, appCfg, closeStore, err := openGateway(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		buf, err := gw.Load(ctx, appCfg.UserID)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(buf.Messages(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Replace the stored history with an empty one",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		cmd.SetContext(ctx)

		gw, appCfg, closeStore, err := openGateway(cmd)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := gw.Clear(ctx, appCfg.UserID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "History cleared for %s\n", appCfg.UserID)
		return nil
	},
}

func init() {
	historyCmd.AddCommand(historyShowCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
