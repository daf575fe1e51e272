// Package sqlagent runs the bounded SQL analysis loop: the oracle proposes
// read-only queries, the gate and executor run them, and observations feed
// back into the next tick until the oracle finishes or the ceiling is hit.
package sqlagent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gridiron-labs/analyst-cli/internal/db"
	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/internal/names"
	"github.com/gridiron-labs/analyst-cli/internal/oracle"
	"github.com/gridiron-labs/analyst-cli/internal/sqlgate"
	"github.com/gridiron-labs/analyst-cli/internal/sqlrun"
)

// inconclusiveAnswer is returned when the loop exhausts its step ceiling.
// Exhaustion is a well-formed result, not an error.
const inconclusiveAnswer = "I was not able to confidently answer this question within the step limit."

// Agent is the SQL sub-agent. One Agent serves one run at a time.
type Agent struct {
	completer oracle.Completer
	pool      db.Pool
	maxSteps  int
	maxTokens int
}

// New creates a SQL sub-agent over the given oracle and store pool.
func New(completer oracle.Completer, pool db.Pool, maxSteps, maxTokens int) *Agent {
	return &Agent{
		completer: completer,
		pool:      pool,
		maxSteps:  maxSteps,
		maxTokens: maxTokens,
	}
}

// loopContext is the JSON context serialized into each tick's user message.
type loopContext struct {
	Question          string               `json:"question"`
	Schema            json.RawMessage      `json:"schema"`
	History           []model.SQLStep      `json:"history"`
	NameNormalization *model.Normalization `json:"name_normalization"`
}

// Run executes the full pipeline: name normalization, schema narrowing, then
// the bounded action loop. Protocol violations and oracle transport failures
// abort the run; gate rejections and store errors become history entries the
// oracle can correct on the next tick.
func (a *Agent) Run(ctx context.Context, question string) (*model.SQLRunResult, error) {
	norm, err := names.Normalize(ctx, a.completer, question)
	if err != nil {
		return nil, err
	}

	reducedSchema := buildReducedSchema(chooseSchema(ctx, a.completer, question, a.maxTokens))
	system := strings.Replace(agentInstruction, "{{SCHEMA}}", reducedSchema, 1)

	history := make([]model.SQLStep, 0, a.maxSteps)

	for step := 1; step <= a.maxSteps; step++ {
		payload, err := json.MarshalIndent(loopContext{
			Question:          question,
			Schema:            json.RawMessage(reducedSchema),
			History:           history,
			NameNormalization: norm,
		}, "", "  ")
		if err != nil {
			return nil, eris.Wrap(err, "sqlagent: marshal context")
		}

		raw, err := a.completer.Complete(ctx, []oracle.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: string(payload)},
		}, oracle.Options{MaxTokens: a.maxTokens})
		if err != nil {
			return nil, eris.Wrapf(err, "sqlagent: oracle call at step %d", step)
		}

		act, err := model.ParseAction(raw, model.ActionRunQuery, model.ActionFinish)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlagent: step %d", step)
		}

		if act.Kind == model.ActionFinish {
			zap.L().Info("sql agent finished",
				zap.Int("step", step),
				zap.Int("queries_run", len(history)),
			)
			return &model.SQLRunResult{
				FinalAnswer:   act.FinalAnswer,
				History:       history,
				Normalization: *norm,
			}, nil
		}

		entry := model.SQLStep{
			Step:    step,
			Action:  string(model.ActionRunQuery),
			Thought: act.Thought,
			SQL:     act.SQL,
		}
		if err := sqlgate.Validate(act.SQL); err != nil {
			entry.Error = err.Error()
		} else if obs, err := sqlrun.Execute(ctx, a.pool, act.SQL); err != nil {
			entry.Error = err.Error()
		} else {
			entry.Observation = obs
		}
		if entry.Error != "" {
			zap.L().Debug("sql step failed", zap.Int("step", step), zap.String("error", entry.Error))
		}
		history = append(history, entry)
	}

	zap.L().Info("sql agent exhausted step ceiling", zap.Int("max_steps", a.maxSteps))
	return &model.SQLRunResult{
		FinalAnswer:   inconclusiveAnswer,
		History:       history,
		Normalization: *norm,
	}, nil
}
