package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gridiron-labs/analyst-cli/internal/vector"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the vector store schema and required extensions",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv(cmd.Context(), "migrate")
		if err != nil {
			return err
		}
		defer e.Close()

		if err := vector.Migrate(cmd.Context(), e.Pool, cfg.Web.EmbedDim); err != nil {
			return err
		}

		zap.L().Info("migration complete", zap.Int("embed_dim", cfg.Web.EmbedDim))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
