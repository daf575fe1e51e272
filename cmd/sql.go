package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/gridiron-labs/analyst-cli/internal/model"
)

var sqlVerbose bool

var sqlCmd = &cobra.Command{
	Use:   "sql [question]",
	Short: "Answer a stats question directly with the SQL sub-agent",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		e, err := initEnv(cmd.Context(), "sql")
		if err != nil {
			return err
		}
		defer e.Close()

		result, err := e.SQLAgent.Run(cmd.Context(), question)
		if err != nil {
			return err
		}

		if sqlVerbose {
			for _, m := range result.Normalization.Players {
				cmd.Printf("resolved %q -> %s (%s confidence)\n", m.Original, mentionTarget(m), m.Confidence)
			}
			for _, step := range result.History {
				cmd.Printf("[%d] %s\n", step.Step, step.SQL)
				if step.Error != "" {
					cmd.Printf("    error: %s\n", step.Error)
				} else if step.Observation != nil {
					cmd.Printf("    %d rows\n", step.Observation.RowCount)
				}
			}
			if len(result.History) > 0 {
				cmd.Println()
			}
		}

		cmd.Println(result.FinalAnswer)
		return nil
	},
}

func mentionTarget(m model.NameMention) string {
	if m.Normalized == nil {
		return "(unresolved)"
	}
	return *m.Normalized
}

func init() {
	sqlCmd.Flags().BoolVarP(&sqlVerbose, "verbose", "v", false, "print name resolution and executed queries")
	rootCmd.AddCommand(sqlCmd)
}
