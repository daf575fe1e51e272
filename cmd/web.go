package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var webCmd = &cobra.Command{
	Use:   "web [question]",
	Short: "Answer a current-events question directly with the web sub-agent",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		e, err := initEnv(cmd.Context(), "web")
		if err != nil {
			return err
		}
		defer e.Close()

		result, err := e.WebAgent.Run(cmd.Context(), question)
		if err != nil {
			return err
		}

		cmd.Println(result.Answer)
		if len(result.Sources) > 0 {
			cmd.Println("\nSources:")
			for _, src := range result.Sources {
				cmd.Printf("  %s\n", src)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(webCmd)
}
