// Package model defines the agent domain types: actions, observations,
// history steps, name mentions, and retrieval records.
package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gridiron-labs/analyst-cli/internal/llmjson"
)

// ActionKind identifies one variant of the agent action protocol.
type ActionKind string

// Wire-level action names. Each loop accepts a subset.
const (
	ActionRunQuery       ActionKind = "CALL_SQL"
	ActionInvokeSQLAgent ActionKind = "CALL_SQL_AGENT"
	ActionInvokeWebAgent ActionKind = "CALL_WEB_AGENT"
	ActionFinish         ActionKind = "FINISH"
)

// Action is the parsed, validated form of one oracle turn. Exactly one of the
// payload fields relevant to Kind is populated.
type Action struct {
	Kind        ActionKind
	Thought     string
	SQL         string // ActionRunQuery
	Question    string // ActionInvokeSQLAgent / ActionInvokeWebAgent
	FinalAnswer string // ActionFinish
}

// ParseError is a protocol violation: the oracle turn could not be parsed
// into one of the allowed action variants. It retains both the raw oracle
// text and the extracted JSON candidate for reproduction.
type ParseError struct {
	Reason    string
	Raw       string
	Extracted string
	Err       error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("action parse: %s\nraw response:\n%s\n\nextracted candidate JSON:\n%s", e.Reason, e.Raw, e.Extracted)
	if e.Err != nil {
		msg += "\ncause: " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// wireAction is the union of all action payload fields on the wire.
type wireAction struct {
	Action      string `json:"action"`
	Thought     string `json:"thought"`
	SQL         string `json:"sql"`
	Question    string `json:"question"`
	FinalAnswer string `json:"final_answer"`
}

// ParseAction extracts and strictly parses one action from raw oracle text.
// Any variant outside allowed is a ParseError, never silently coerced.
func ParseAction(raw string, allowed ...ActionKind) (*Action, error) {
	extracted := llmjson.ExtractObject(raw)

	var w wireAction
	if err := json.Unmarshal([]byte(extracted), &w); err != nil {
		return nil, &ParseError{Reason: "response is not valid JSON", Raw: raw, Extracted: extracted, Err: err}
	}

	kind := ActionKind(w.Action)
	permitted := false
	for _, a := range allowed {
		if kind == a {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, &ParseError{Reason: fmt.Sprintf("unexpected action %q", w.Action), Raw: raw, Extracted: extracted}
	}

	act := &Action{Kind: kind, Thought: w.Thought}
	switch kind {
	case ActionRunQuery:
		if strings.TrimSpace(w.SQL) == "" {
			return nil, &ParseError{Reason: `CALL_SQL action missing "sql"`, Raw: raw, Extracted: extracted}
		}
		act.SQL = w.SQL
	case ActionInvokeSQLAgent, ActionInvokeWebAgent:
		if strings.TrimSpace(w.Question) == "" {
			return nil, &ParseError{Reason: fmt.Sprintf(`%s action missing "question"`, kind), Raw: raw, Extracted: extracted}
		}
		act.Question = w.Question
	case ActionFinish:
		answer := strings.TrimSpace(w.FinalAnswer)
		if answer == "" {
			return nil, &ParseError{Reason: `FINISH action missing "final_answer"`, Raw: raw, Extracted: extracted}
		}
		act.FinalAnswer = answer
	}
	return act, nil
}
