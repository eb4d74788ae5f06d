package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/ridevoice/internal/config"
	"github.com/sandevgo/ridevoice/internal/service/installer"
	"github.com/sandevgo/ridevoice/pkg/env"
	"github.com/sandevgo/ridevoice/pkg/log"
	"github.com/spf13/cobra"
)

var (
	forceInit   bool
	interactive bool
)

var initCmd = &cobra.Command{
	Use:          "init",
	Short:        "Write a default .env into the runtime directory",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		logger := log.FromCtx(ctx)

		runtimePath := config.GetRuntimePath()
		envPath := filepath.Join(runtimePath, ".env")

		if _, err := os.Stat(envPath); err == nil && !forceInit {
			return fmt.Errorf("%s already exists, use --force to overwrite", envPath)
		}

		content, err := renderDefaultEnv()
		if err != nil {
			return err
		}

		if interactive {
			state, err := installer.RunWizard()
			if err != nil {
				return err
			}
			if content, err = overlayEnv(content, state.EnvVars); err != nil {
				return err
			}
		}

		if err := os.MkdirAll(runtimePath, 0755); err != nil {
			return fmt.Errorf("failed to create runtime directory: %w", err)
		}
		if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", envPath, err)
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Fill in the provider keys, then run 'ridevoice serve'.")
		return nil
	},
}

// renderDefaultEnv marshals zero configs, so every key carries its default,
// and checks the result parses back.
func renderDefaultEnv() (string, error) {
	content, err := env.MarshalEnv(
		&config.AppConfig{},
		&config.LLMConfig{},
		&config.SpeechConfig{},
		&config.StoreConfig{},
	)
	if err != nil {
		return "", err
	}
	if _, err := godotenv.Unmarshal(content); err != nil {
		return "", fmt.Errorf("generated env does not parse: %w", err)
	}
	return content, nil
}

// overlayEnv replaces defaults with the wizard answers.
func overlayEnv(content string, answers map[string]string) (string, error) {
	vars, err := godotenv.Unmarshal(content)
	if err != nil {
		return "", fmt.Errorf("parse default env: %w", err)
	}
	for k, v := range answers {
		vars[k] = v
	}
	out, err := godotenv.Marshal(vars)
	if err != nil {
		return "", fmt.Errorf("render env: %w", err)
	}
	return out + "\n", nil
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "overwrite an existing .env")
	initCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "answer setup questions in a terminal UI")
	rootCmd.AddCommand(initCmd)
}
