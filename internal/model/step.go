package model

// Observation is the result of one executed SQL query, fed back into the
// loop's oracle context.
type Observation struct {
	RowCount int      `json:"row_count"`
	Columns  []string `json:"columns"`
	Rows     [][]any  `json:"rows"`
}

// SQLStep is one entry in the SQL sub-agent's append-only history. Exactly
// one of Observation and Error is set: execution failures are data the oracle
// can react to, not terminal conditions.
type SQLStep struct {
	Step        int          `json:"step"`
	Action      string       `json:"action"`
	Thought     string       `json:"thought,omitempty"`
	SQL         string       `json:"sql"`
	Observation *Observation `json:"observation,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// SubAgentResult is the boundary type returned by every sub-agent
// invocation. Internal sub-agent failures surface as Success=false with
// Error set; they never propagate as Go errors to the orchestrator loop.
type SubAgentResult struct {
	Success    bool     `json:"success"`
	Answer     string   `json:"answer"`
	Diagnostic string   `json:"diagnostic,omitempty"`
	StepsTaken int      `json:"steps_taken"`
	Sources    []string `json:"sources,omitempty"`
	Error      *string  `json:"error"`
}

// OrchestratorStep is one entry in the orchestrator's append-only history.
type OrchestratorStep struct {
	Step     int            `json:"step"`
	Action   string         `json:"action"`
	Thought  string         `json:"thought,omitempty"`
	Question string         `json:"question"`
	Result   SubAgentResult `json:"result"`
}

// RunResult is a completed orchestrator run.
type RunResult struct {
	FinalAnswer string             `json:"final_answer"`
	History     []OrchestratorStep `json:"history"`
}

// SQLRunResult is a completed SQL sub-agent run.
type SQLRunResult struct {
	FinalAnswer   string        `json:"final_answer"`
	History       []SQLStep     `json:"history"`
	Normalization Normalization `json:"name_normalization"`
}
