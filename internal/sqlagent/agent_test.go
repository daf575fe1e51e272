package sqlagent

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridiron-labs/analyst-cli/internal/model"
	"github.com/gridiron-labs/analyst-cli/internal/oracle"
)

// scriptedCompleter replays a fixed response sequence. Call order per run:
// name normalization, schema narrowing, then one response per loop tick.
type scriptedCompleter struct {
	responses []string
	calls     int
}

func (s *scriptedCompleter) Complete(context.Context, []oracle.Message, oracle.Options) (string, error) {
	if s.calls >= len(s.responses) {
		return "", errors.New("scripted completer ran out of responses")
	}
	r := s.responses[s.calls]
	s.calls++
	return r, nil
}

const bradyNormalization = `{"players": [{"original": "Tom Brady", "normalized": "Tom Brady", "confidence": "high", "reason": "unambiguous full name"}]}`

const playerSchemaSelection = `{"tables": {
	"players": ["gsis_id", "display_name"],
	"player_aliases": ["player_id", "alias"],
	"player_game_stats": ["player_id", "season", "game_type", "pass_td"]
}}`

func TestRun_ExactMatchThenAggregate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("similarity").
		WillReturnRows(pgxmock.NewRows([]string{"gsis_id", "display_name", "sim"}).
			AddRow("00-0019596", "Tom Brady", 1.0))
	mock.ExpectQuery("SUM").
		WillReturnRows(pgxmock.NewRows([]string{"total_pass_td"}).
			AddRow(int64(36)))

	completer := &scriptedCompleter{responses: []string{
		bradyNormalization,
		playerSchemaSelection,
		`{"action": "CALL_SQL", "thought": "resolve the player id first", "sql": "SELECT p.gsis_id, p.display_name, similarity(p.display_name, 'Tom Brady') AS sim FROM players p WHERE p.display_name % 'Tom Brady' ORDER BY sim DESC LIMIT 10"}`,
		`{"action": "CALL_SQL", "thought": "aggregate regular-season passing TDs for 2010", "sql": "SELECT SUM(pass_td) AS total_pass_td FROM player_game_stats WHERE player_id = '00-0019596' AND season = 2010 AND game_type = 'REG'"}`,
		`{"action": "FINISH", "final_answer": "Tom Brady threw 36 passing touchdowns in the 2010 regular season."}`,
	}}

	agent := New(completer, mock, 10, 512)
	result, err := agent.Run(context.Background(), "How many passing touchdowns did Tom Brady have in the 2010 regular season?")
	require.NoError(t, err)

	assert.Contains(t, result.FinalAnswer, "36")
	require.Len(t, result.History, 2)
	assert.Equal(t, 1, result.History[0].Step)
	assert.Equal(t, 2, result.History[1].Step)
	require.NotNil(t, result.History[0].Observation)
	assert.Equal(t, 1, result.History[0].Observation.RowCount)
	require.Len(t, result.Normalization.Players, 1)
	assert.Equal(t, model.ConfidenceHigh, result.Normalization.Players[0].Confidence)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRun_NoMatchingPlayer(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("similarity").
		WillReturnRows(pgxmock.NewRows([]string{"gsis_id", "display_name", "sim"}))

	completer := &scriptedCompleter{responses: []string{
		`{"players": [{"original": "Zzqx Notaplayer", "normalized": null, "confidence": "low", "reason": "no known player"}]}`,
		playerSchemaSelection,
		`{"action": "CALL_SQL", "thought": "try to resolve the name", "sql": "SELECT p.gsis_id, p.display_name, similarity(p.display_name, 'Zzqx Notaplayer') AS sim FROM players p WHERE p.display_name % 'Zzqx Notaplayer' ORDER BY sim DESC LIMIT 10"}`,
		`{"action": "FINISH", "final_answer": "I could not find a matching player named 'Zzqx Notaplayer' in the database, so no stats were computed."}`,
	}}

	agent := New(completer, mock, 10, 512)
	result, err := agent.Run(context.Background(), "How many yards did Zzqx Notaplayer have?")
	require.NoError(t, err)

	assert.Contains(t, result.FinalAnswer, "could not find a matching player")
	require.Len(t, result.History, 1)
	assert.Zero(t, result.History[0].Observation.RowCount)
}

func TestRun_StepCeilingYieldsInconclusive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	const maxSteps = 3
	responses := []string{bradyNormalization, playerSchemaSelection}
	for i := 0; i < maxSteps; i++ {
		responses = append(responses, `{"action": "CALL_SQL", "thought": "still looking", "sql": "SELECT gsis_id FROM players LIMIT 1"}`)
		mock.ExpectQuery("SELECT gsis_id").
			WillReturnRows(pgxmock.NewRows([]string{"gsis_id"}).AddRow("00-0019596"))
	}

	agent := New(&scriptedCompleter{responses: responses}, mock, maxSteps, 512)
	result, err := agent.Run(context.Background(), "some question")
	require.NoError(t, err)

	assert.Equal(t, inconclusiveAnswer, result.FinalAnswer)
	assert.Len(t, result.History, maxSteps)
	for i, h := range result.History {
		assert.Equal(t, i+1, h.Step)
	}
}

func TestRun_GateRejectionIsHistoryNotFatal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	completer := &scriptedCompleter{responses: []string{
		bradyNormalization,
		playerSchemaSelection,
		`{"action": "CALL_SQL", "thought": "oops", "sql": "DROP TABLE players"}`,
		`{"action": "FINISH", "final_answer": "I cannot modify the database; I can only read from it."}`,
	}}

	agent := New(completer, mock, 10, 512)
	result, err := agent.Run(context.Background(), "delete all players")
	require.NoError(t, err)

	require.Len(t, result.History, 1)
	assert.Nil(t, result.History[0].Observation)
	assert.Contains(t, result.History[0].Error, "rejected")
}

func TestRun_ExecutionErrorFeedsBackIntoHistory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT bogus").
		WillReturnError(errors.New(`column "bogus" does not exist`))
	mock.ExpectQuery("SELECT gsis_id").
		WillReturnRows(pgxmock.NewRows([]string{"gsis_id"}).AddRow("00-0019596"))

	completer := &scriptedCompleter{responses: []string{
		bradyNormalization,
		playerSchemaSelection,
		`{"action": "CALL_SQL", "thought": "first try", "sql": "SELECT bogus FROM players"}`,
		`{"action": "CALL_SQL", "thought": "corrected column name", "sql": "SELECT gsis_id FROM players LIMIT 1"}`,
		`{"action": "FINISH", "final_answer": "Resolved after correcting the column name."}`,
	}}

	agent := New(completer, mock, 10, 512)
	result, err := agent.Run(context.Background(), "some question")
	require.NoError(t, err)

	require.Len(t, result.History, 2)
	assert.Contains(t, result.History[0].Error, "does not exist")
	assert.NotNil(t, result.History[1].Observation)
}

func TestRun_UnknownActionIsFatal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	completer := &scriptedCompleter{responses: []string{
		bradyNormalization,
		playerSchemaSelection,
		`{"action": "CALL_WEB_AGENT", "thought": "wrong loop", "question": "who won"}`,
	}}

	agent := New(completer, mock, 10, 512)
	_, err = agent.Run(context.Background(), "some question")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unexpected action "CALL_WEB_AGENT"`)
	assert.Contains(t, err.Error(), "step 1")
}

func TestBuildReducedSchema_FiltersSelection(t *testing.T) {
	reduced := buildReducedSchema(schemaSelection{Tables: map[string][]string{
		"players":   {"gsis_id", "display_name", "not_a_column"},
		"bogus_tbl": {"whatever"},
	}})

	var parsed map[string]tableDef
	require.NoError(t, json.Unmarshal([]byte(reduced), &parsed))
	require.Len(t, parsed, 1)
	players := parsed["players"]
	assert.Len(t, players.Columns, 2)
	assert.Contains(t, players.Columns, "gsis_id")
	assert.NotContains(t, players.Columns, "not_a_column")
}

func TestBuildReducedSchema_EmptySelectionFallsBackToFull(t *testing.T) {
	for _, sel := range []schemaSelection{
		{},
		{Tables: map[string][]string{}},
		{Tables: map[string][]string{"bogus": {"x"}}},
	} {
		reduced := buildReducedSchema(sel)
		assert.Equal(t, fullSchema, reduced)
	}
}

func TestBuildReducedSchema_KeepsOnlyFKsForSelectedColumns(t *testing.T) {
	reduced := buildReducedSchema(schemaSelection{Tables: map[string][]string{
		"player_game_stats": {"player_id", "season", "pass_td"},
	}})

	var parsed map[string]tableDef
	require.NoError(t, json.Unmarshal([]byte(reduced), &parsed))
	pgs := parsed["player_game_stats"]
	assert.Equal(t, "players.gsis_id", pgs.FKs["player_id"])
	assert.NotContains(t, pgs.FKs, "team_id")
}

func TestChooseSchema_InvalidJSONIsNonFatal(t *testing.T) {
	completer := &scriptedCompleter{responses: []string{"I think you need the players table."}}
	sel := chooseSchema(context.Background(), completer, "q", 512)
	assert.Empty(t, sel.Tables)
}

func TestAgentInstruction_EmbedsSchema(t *testing.T) {
	system := strings.Replace(agentInstruction, "{{SCHEMA}}", fullSchema, 1)
	assert.Contains(t, system, `"gsis_id"`)
	assert.NotContains(t, system, "{{SCHEMA}}")
}
