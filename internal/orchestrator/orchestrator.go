// Package orchestrator runs the top-level bounded loop that routes questions
// to the SQL and web sub-agents and synthesizes a final answer.
package orchestrator

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/internal/oracle"
)

// exhaustedAnswer is returned when the loop hits its step ceiling without a
// FINISH action. A well-formed result, not an error.
const exhaustedAnswer = "I was not able to complete the analysis within the step limit."

const instruction = `You are a unified NFL analytics assistant with access to two specialized tools.

Your job: Given a user question, decide which tool(s) to call, gather information, and synthesize a final answer.

AVAILABLE TOOLS:

1. CALL_SQL_AGENT
   - Use for: historical stats, player comparisons, team records, season totals
   - Data: a PostgreSQL database of NFL player and team game stats
   - Best for: "How many TDs did X have?", "Compare stats between players"

2. CALL_WEB_AGENT
   - Use for: current news, injuries, trades, live updates, recent events
   - Data: web search with retrieval-augmented generation
   - Best for: "Latest injury update", "Trade rumors"

DECISION GUIDELINES:
- Use the SQL agent for quantitative questions about historical performance.
- Use the web agent for qualitative questions about current events.
- Use BOTH when the question has multiple parts (e.g. stats AND injury news).
- You may call tools multiple times if needed.

OUTPUT FORMAT — exactly one JSON object per turn, no prose, no fences:

{"action": "CALL_SQL_AGENT", "thought": "<why>", "question": "<focused question>"}
{"action": "CALL_WEB_AGENT", "thought": "<why>", "question": "<focused question>"}
{"action": "FINISH", "final_answer": "<synthesized natural-language answer>"}

The user message is a JSON context with "question" (the original question) and
"history" (your previous tool calls and their results, including failures).

RULES:
1. Call tools with focused, specific questions.
2. Use the history to avoid redundant calls; if you have enough, FINISH.
3. A failed tool call appears in history with success=false; you may retry
   differently or answer without it.
4. Always state whether information came from database stats or web sources.
5. If you cannot answer, say so clearly in final_answer.`

// SubAgent is the synchronous sub-agent boundary: a focused question in, a
// structured result out. Implementations convert their internal failures into
// Success=false results; Invoke never returns a Go error.
type SubAgent interface {
	Invoke(ctx context.Context, question string) model.SubAgentResult
}

// Orchestrator owns one run's control loop.
type Orchestrator struct {
	completer oracle.Completer
	sqlAgent  SubAgent
	webAgent  SubAgent
	maxSteps  int
	maxTokens int
}

// New creates an orchestrator over the oracle and the two sub-agents.
func New(completer oracle.Completer, sqlAgent, webAgent SubAgent, maxSteps, maxTokens int) *Orchestrator {
	return &Orchestrator{
		completer: completer,
		sqlAgent:  sqlAgent,
		webAgent:  webAgent,
		maxSteps:  maxSteps,
		maxTokens: maxTokens,
	}
}

type loopContext struct {
	Question string                   `json:"question"`
	History  []model.OrchestratorStep `json:"history"`
}

// Run executes the bounded decision loop. Sub-agent invocations are
// synchronous; their results land in history verbatim so FINISH stays
// reachable even after failures. Protocol violations abort the run.
func (o *Orchestrator) Run(ctx context.Context, question string) (*model.RunResult, error) {
	history := make([]model.OrchestratorStep, 0, o.maxSteps)

	for step := 1; step <= o.maxSteps; step++ {
		payload, err := json.MarshalIndent(loopContext{Question: question, History: history}, "", "  ")
		if err != nil {
			return nil, eris.Wrap(err, "orchestrator: marshal context")
		}

		raw, err := o.completer.Complete(ctx, []oracle.Message{
			{Role: "system", Content: instruction},
			{Role: "user", Content: string(payload)},
		}, oracle.Options{MaxTokens: o.maxTokens})
		if err != nil {
			return nil, eris.Wrapf(err, "orchestrator: oracle call at step %d", step)
		}

		act, err := model.ParseAction(raw, model.ActionInvokeSQLAgent, model.ActionInvokeWebAgent, model.ActionFinish)
		if err != nil {
			return nil, eris.Wrapf(err, "orchestrator: step %d", step)
		}

		if act.Kind == model.ActionFinish {
			zap.L().Info("orchestrator finished",
				zap.Int("step", step),
				zap.Int("tool_calls", len(history)),
			)
			return &model.RunResult{FinalAnswer: act.FinalAnswer, History: history}, nil
		}

		agent := o.sqlAgent
		if act.Kind == model.ActionInvokeWebAgent {
			agent = o.webAgent
		}

		start := time.Now()
		result := agent.Invoke(ctx, act.Question)
		zap.L().Info("sub-agent returned",
			zap.String("action", string(act.Kind)),
			zap.Bool("success", result.Success),
			zap.Duration("duration", time.Since(start)),
		)

		history = append(history, model.OrchestratorStep{
			Step:     step,
			Action:   string(act.Kind),
			Thought:  act.Thought,
			Question: act.Question,
			Result:   result,
		})
	}

	zap.L().Info("orchestrator exhausted step ceiling", zap.Int("max_steps", o.maxSteps))
	return &model.RunResult{FinalAnswer: exhaustedAnswer, History: history}, nil
}
