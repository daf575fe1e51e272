package main

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gridiron-labs/analyst-cli/internal/model"
)

var askTranscript string

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question using both the SQL and web sub-agents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		e, err := initEnv(cmd.Context(), "ask")
		if err != nil {
			return err
		}
		defer e.Close()

		result, err := e.Orch.Run(cmd.Context(), question)
		if err != nil {
			return err
		}

		printRun(cmd, result)

		if askTranscript != "" {
			if err := writeTranscript(askTranscript, question, result); err != nil {
				return err
			}
			cmd.Printf("\ntranscript written to %s\n", askTranscript)
		}

		return nil
	},
}

func printRun(cmd *cobra.Command, result *model.RunResult) {
	for _, step := range result.History {
		status := "ok"
		if !step.Result.Success {
			status = "failed"
		}
		cmd.Printf("[%d] %s (%s): %s\n", step.Step, step.Action, status, step.Question)
	}
	if len(result.History) > 0 {
		cmd.Println()
	}
	cmd.Println(result.FinalAnswer)
}

// transcript is the YAML dump of a completed run.
type transcript struct {
	Question    string                   `yaml:"question"`
	FinalAnswer string                   `yaml:"final_answer"`
	History     []model.OrchestratorStep `yaml:"history"`
}

func writeTranscript(path, question string, result *model.RunResult) error {
	out, err := yaml.Marshal(transcript{
		Question:    question,
		FinalAnswer: result.FinalAnswer,
		History:     result.History,
	})
	if err != nil {
		return eris.Wrap(err, "marshal transcript")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return eris.Wrap(err, "write transcript")
	}
	return nil
}

func init() {
	askCmd.Flags().StringVar(&askTranscript, "transcript", "", "write a YAML transcript of the run to this path")
	rootCmd.AddCommand(askCmd)
}
