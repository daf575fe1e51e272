// Package names resolves free-text player mentions to canonical identities
// with a single oracle call per run.
package names

import (
	"encoding/json"
	"strings"

	"golang.org/x/text/cases"

	"github.com/gridiron-labs/analyst-cli/internal/llmjson"
	"github.com/gridiron-labs/analyst-cli/internal/model"
)

const instruction = `You are a sports entity normalizer. Given a user question about NFL football, identify every player name mentioned and map each to its canonical full name.

Respond with ONLY a JSON object of the form:
{"players": [{"original": "<name as written>", "normalized": "<canonical full name or null>", "confidence": "high|medium|low", "reason": "<one sentence>"}]}

Rules:
- "original" is the exact span from the question.
- "normalized" is the player's canonical full name, or null when you cannot identify the player.
- Use "high" only when the mention is unambiguous. Nicknames and last names alone are at most "medium".
- If the question mentions no players, return {"players": []}.
- Output the JSON object only. No prose, no code fences.`

type wireMention struct {
	Original   string  `json:"original"`
	Normalized *string `json:"normalized"`
	Confidence string  `json:"confidence"`
	Reason     string  `json:"reason"`
}

type wireList struct {
	Players []wireMention `json:"players"`
}

var foldCaser = cases.Fold()

// canonicalKey folds case and collapses whitespace so duplicate mentions of
// the same span are recognized regardless of formatting.
func canonicalKey(s string) string {
	return foldCaser.String(strings.Join(strings.Fields(s), " "))
}

// Parse interprets a raw oracle response into a Normalization. Two response
// shapes are accepted: the list shape {"players": [...]} and a single bare
// mention object from the older protocol. Both coerce to the list form.
// A response matching neither shape is not an error; it yields zero mentions.
func Parse(raw string) *model.Normalization {
	extracted := llmjson.ExtractObject(raw)

	var list wireList
	if err := json.Unmarshal([]byte(extracted), &list); err == nil && list.Players != nil {
		return fromWire(list.Players)
	}

	var single wireMention
	if err := json.Unmarshal([]byte(extracted), &single); err == nil && strings.TrimSpace(single.Original) != "" {
		return fromWire([]wireMention{single})
	}

	return &model.Normalization{}
}

func fromWire(mentions []wireMention) *model.Normalization {
	out := &model.Normalization{}
	seen := make(map[string]bool, len(mentions))
	for _, m := range mentions {
		original := strings.TrimSpace(m.Original)
		if original == "" {
			continue
		}
		key := canonicalKey(original)
		if seen[key] {
			continue
		}
		seen[key] = true

		var normalized *string
		if m.Normalized != nil && strings.TrimSpace(*m.Normalized) != "" {
			n := strings.TrimSpace(*m.Normalized)
			normalized = &n
		}
		out.Players = append(out.Players, model.NameMention{
			Original:   original,
			Normalized: normalized,
			Confidence: model.ClampConfidence(m.Confidence),
			Reason:     strings.TrimSpace(m.Reason),
		})
	}
	return out
}
