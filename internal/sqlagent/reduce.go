package sqlagent

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/gridiron-labs/analyst-cli/internal/llmjson"
	"github.com/gridiron-labs/analyst-cli/internal/oracle"
)

// schemaSelection is the schema-retrieval call's wire shape.
type schemaSelection struct {
	Tables map[string][]string `json:"tables"`
}

// tableDef mirrors one table entry in the schema JSON.
type tableDef struct {
	PK      []string          `json:"pk"`
	Columns map[string]string `json:"columns"`
	FKs     map[string]string `json:"fks"`
	Unique  [][]string        `json:"unique"`
}

// chooseSchema asks the oracle which tables and columns matter for the
// question. Any failure here is non-fatal; the loop falls back to the full
// schema rather than aborting the run.
func chooseSchema(ctx context.Context, c oracle.Completer, question string, maxTokens int) schemaSelection {
	raw, err := c.Complete(ctx, []oracle.Message{
		{Role: "system", Content: strings.Replace(retrievalInstruction, "{{SCHEMA}}", fullSchema, 1)},
		{Role: "user", Content: question},
	}, oracle.Options{MaxTokens: maxTokens})
	if err != nil {
		zap.L().Warn("schema narrowing call failed, using full schema", zap.Error(err))
		return schemaSelection{}
	}

	var sel schemaSelection
	if err := json.Unmarshal([]byte(llmjson.ExtractObject(raw)), &sel); err != nil {
		zap.L().Warn("schema narrowing returned invalid JSON, using full schema", zap.Error(err))
		return schemaSelection{}
	}
	return sel
}

// buildReducedSchema filters the full schema down to the selected tables and
// columns. An empty or fully-invalid selection yields the full schema.
func buildReducedSchema(sel schemaSelection) string {
	var full map[string]tableDef
	if err := json.Unmarshal([]byte(fullSchema), &full); err != nil {
		// The schema constant is static; this cannot fail at runtime.
		panic("sqlagent: full schema is not valid JSON: " + err.Error())
	}

	reduced := make(map[string]tableDef)
	for tableName, cols := range sel.Tables {
		def, ok := full[tableName]
		if !ok {
			continue
		}

		filtered := make(map[string]string)
		for _, col := range cols {
			if typ, ok := def.Columns[col]; ok {
				filtered[col] = typ
			}
		}
		if len(filtered) == 0 {
			continue
		}

		fks := make(map[string]string)
		for col, target := range def.FKs {
			if _, ok := filtered[col]; ok {
				fks[col] = target
			}
		}

		reduced[tableName] = tableDef{
			PK:      def.PK,
			Columns: filtered,
			FKs:     fks,
			Unique:  def.Unique,
		}
	}

	if len(reduced) == 0 {
		return fullSchema
	}

	out, err := json.MarshalIndent(reduced, "", "  ")
	if err != nil {
		return fullSchema
	}
	return string(out)
}
