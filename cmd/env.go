package main

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/gridiron-labs/analyst-cli/internal/config"
	"github.com/gridiron-labs/analyst-cli/internal/db"
	"github.com/gridiron-labs/analyst-cli/internal/oracle"
	"github.com/gridiron-labs/analyst-cli/internal/orchestrator"
	"github.com/gridiron-labs/analyst-cli/internal/sqlagent"
	"github.com/gridiron-labs/analyst-cli/internal/vector"
	"github.com/gridiron-labs/analyst-cli/internal/webagent"
	"github.com/gridiron-labs/analyst-cli/pkg/anthropic"
	"github.com/gridiron-labs/analyst-cli/pkg/jina"
	"github.com/gridiron-labs/analyst-cli/pkg/openrouter"
)

// env holds the wired runtime for one command invocation.
type env struct {
	Pool      *pgxpool.Pool
	Completer oracle.Completer
	Jina      jina.Client
	Store     *vector.Store
	SQLAgent  *sqlagent.Agent
	WebAgent  *webagent.Agent
	Orch      *orchestrator.Orchestrator
}

func (e *env) Close() {
	if e.Pool != nil {
		e.Pool.Close()
	}
}

// buildOracle selects the completion provider from config.
func buildOracle(c config.OracleConfig) (oracle.Completer, error) {
	pacing := time.Duration(c.PacingSecs) * time.Second

	switch c.Provider {
	case "openrouter":
		client := openrouter.NewClient(c.Key,
			openrouter.WithBaseURL(c.BaseURL),
			openrouter.WithModel(c.Model),
		)
		return oracle.NewOpenRouter(client, c.Model, pacing), nil
	case "anthropic":
		return oracle.NewAnthropic(anthropic.NewClient(c.Key), c.Model, pacing), nil
	default:
		return nil, eris.Errorf("unknown oracle provider %q", c.Provider)
	}
}

// initEnv validates config for the given mode and wires the runtime.
func initEnv(ctx context.Context, mode string) (*env, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	pool, err := db.Connect(ctx, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, err
	}

	e := &env{Pool: pool}
	if mode == "migrate" {
		return e, nil
	}

	e.Completer, err = buildOracle(cfg.Oracle)
	if err != nil {
		pool.Close()
		return nil, err
	}

	e.SQLAgent = sqlagent.New(e.Completer, pool, cfg.SQLAgent.MaxSteps, cfg.SQLAgent.MaxTokens)
	if mode == "sql" {
		return e, nil
	}

	e.Jina = jina.NewClient(cfg.Jina.Key,
		jina.WithBaseURL(cfg.Jina.BaseURL),
		jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL),
		jina.WithEmbedBaseURL(cfg.Jina.EmbedBaseURL),
		jina.WithEmbedModel(cfg.Jina.EmbedModel),
	)
	e.Store = vector.NewStore(pool, cfg.Web.EmbedDim)
	e.WebAgent = webagent.New(e.Completer, e.Jina, e.Store, webagent.Config{
		HitsPerQuery:   cfg.Web.HitsPerQuery,
		ChunkTokens:    cfg.Web.ChunkTokens,
		ChunkOverlap:   cfg.Web.ChunkOverlap,
		TopK:           cfg.Web.TopK,
		FetchParallel:  cfg.Web.FetchParallel,
		SynthMaxTokens: cfg.Web.SynthMaxTokens,
	})

	e.Orch = orchestrator.New(
		e.Completer,
		orchestrator.WrapSQLAgent(e.SQLAgent),
		orchestrator.WrapWebAgent(e.WebAgent),
		cfg.Orchestrator.MaxSteps,
		cfg.Orchestrator.MaxTokens,
	)

	return e, nil
}
