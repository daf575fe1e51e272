package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gridiron-labs/analyst-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "analyst-cli",
	Short: "Agentic NFL analytics over Postgres stats and live web retrieval",
	Long:  "Answers natural-language NFL questions by orchestrating a SQL sub-agent over a Postgres stats database and a retrieval-augmented web sub-agent, driven by a text-completion model.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
