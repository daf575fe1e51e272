package orchestrator

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/internal/sqlagent"
	"github.com/gridiron-labs/analyst-cli/internal/webagent"
)

// sqlRunner is what the SQL adapter needs from sqlagent.Agent.
type sqlRunner interface {
	Run(ctx context.Context, question string) (*model.SQLRunResult, error)
}

// webRunner is what the web adapter needs from webagent.Agent.
type webRunner interface {
	Run(ctx context.Context, question string) (*webagent.Result, error)
}

type sqlAdapter struct {
	agent sqlRunner
}

// WrapSQLAgent adapts a SQL sub-agent to the orchestrator boundary. Run
// errors become Success=false results so the loop stays alive.
func WrapSQLAgent(agent *sqlagent.Agent) SubAgent {
	return &sqlAdapter{agent: agent}
}

func (a *sqlAdapter) Invoke(ctx context.Context, question string) model.SubAgentResult {
	res, err := a.agent.Run(ctx, question)
	if err != nil {
		return failed(err)
	}
	return model.SubAgentResult{
		Success:    true,
		Answer:     res.FinalAnswer,
		StepsTaken: len(res.History),
	}
}

type webAdapter struct {
	agent webRunner
}

// WrapWebAgent adapts a web sub-agent to the orchestrator boundary.
func WrapWebAgent(agent *webagent.Agent) SubAgent {
	return &webAdapter{agent: agent}
}

func (a *webAdapter) Invoke(ctx context.Context, question string) model.SubAgentResult {
	res, err := a.agent.Run(ctx, question)
	if err != nil {
		return failed(err)
	}
	return model.SubAgentResult{
		Success:    true,
		Answer:     res.Answer,
		Sources:    res.Sources,
		Diagnostic: fmt.Sprintf("%d chunks retrieved", res.Chunks),
		StepsTaken: 1,
	}
}

func failed(err error) model.SubAgentResult {
	msg := eris.ToString(err, false)
	return model.SubAgentResult{Success: false, Error: &msg}
}
