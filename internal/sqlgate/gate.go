// Package sqlgate is the lexical read-only filter in front of the relational
// executor. It is deliberately not a SQL parser: it trades false positives
// for guaranteed rejection of structurally dangerous statements. Passing
// Validate is the only path to execution.
package sqlgate

import (
	"strings"

	"github.com/rotisserie/eris"
)

// denyList holds mutating verbs rejected as case-insensitive substrings.
// Substring (not word-boundary) matching is intentional: a query comparing
// against the literal text "DROPTABLE" is over-blocked by policy.
var denyList = []string{
	"insert",
	"update",
	"delete",
	"alter",
	"drop",
	"truncate",
	"create",
	"grant",
	"revoke",
	"merge",
	"call",
	"execute",
}

// Validate fails closed unless sql is a single read-only SELECT/WITH
// statement free of deny-listed verbs.
func Validate(sql string) error {
	s := strings.ToLower(strings.TrimSpace(sql))

	if strings.Contains(s, ";") {
		return eris.Errorf("sqlgate: rejected (multiple statements not allowed): %q", sql)
	}

	if !strings.HasPrefix(s, "select") && !strings.HasPrefix(s, "with") {
		return eris.Errorf("sqlgate: rejected (must be SELECT/WITH): %q", sql)
	}

	for _, kw := range denyList {
		if strings.Contains(s, kw) {
			return eris.Errorf("sqlgate: rejected (banned keyword %s): %q", kw, sql)
		}
	}

	return nil
}
