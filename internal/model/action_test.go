package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction_RunQuery(t *testing.T) {
	raw := `{"action":"CALL_SQL","thought":"resolve id","sql":"SELECT 1"}`
	act, err := ParseAction(raw, ActionRunQuery, ActionFinish)
	require.NoError(t, err)
	assert.Equal(t, ActionRunQuery, act.Kind)
	assert.Equal(t, "SELECT 1", act.SQL)
	assert.Equal(t, "resolve id", act.Thought)
}

func TestParseAction_FinishTrimsAnswer(t *testing.T) {
	raw := `{"action":"FINISH","final_answer":"  42 touchdowns  "}`
	act, err := ParseAction(raw, ActionRunQuery, ActionFinish)
	require.NoError(t, err)
	assert.Equal(t, ActionFinish, act.Kind)
	assert.Equal(t, "42 touchdowns", act.FinalAnswer)
}

func TestParseAction_FinishEmptyAnswerFatal(t *testing.T) {
	raw := `{"action":"FINISH","final_answer":"   "}`
	_, err := ParseAction(raw, ActionFinish)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Reason, "final_answer")
}

func TestParseAction_UnknownActionFatal(t *testing.T) {
	raw := `{"action":"DROP_TABLES","sql":"x"}`
	_, err := ParseAction(raw, ActionRunQuery, ActionFinish)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Reason, "DROP_TABLES")
	assert.Equal(t, raw, pe.Raw)
}

func TestParseAction_ActionOutsideAlphabetFatal(t *testing.T) {
	// CALL_SQL is a real variant but not in the orchestrator's alphabet.
	raw := `{"action":"CALL_SQL","sql":"SELECT 1"}`
	_, err := ParseAction(raw, ActionInvokeSQLAgent, ActionInvokeWebAgent, ActionFinish)
	require.Error(t, err)
}

func TestParseAction_InvalidJSONCarriesRawAndExtracted(t *testing.T) {
	raw := "prose {not json} prose"
	_, err := ParseAction(raw, ActionFinish)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, raw, pe.Raw)
	assert.Equal(t, "{not json}", pe.Extracted)
	assert.Error(t, errors.Unwrap(pe))
}

func TestParseAction_FencedResponse(t *testing.T) {
	raw := "```json\n{\"action\":\"CALL_WEB_AGENT\",\"question\":\"latest injury news\"}\n```"
	act, err := ParseAction(raw, ActionInvokeSQLAgent, ActionInvokeWebAgent, ActionFinish)
	require.NoError(t, err)
	assert.Equal(t, ActionInvokeWebAgent, act.Kind)
	assert.Equal(t, "latest injury news", act.Question)
}

func TestParseAction_MissingSQLFatal(t *testing.T) {
	raw := `{"action":"CALL_SQL","thought":"no sql here"}`
	_, err := ParseAction(raw, ActionRunQuery, ActionFinish)
	require.Error(t, err)
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, ClampConfidence("high"))
	assert.Equal(t, ConfidenceMedium, ClampConfidence("medium"))
	assert.Equal(t, ConfidenceLow, ClampConfidence("low"))
	assert.Equal(t, ConfidenceLow, ClampConfidence("very sure"))
	assert.Equal(t, ConfidenceLow, ClampConfidence(""))
}
