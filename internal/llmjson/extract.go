// Package llmjson recovers JSON objects from noisy model output.
package llmjson

import "strings"

// ExtractObject pulls the best-effort JSON object substring out of raw model
// text that may be wrapped in prose or Markdown fences. It is purely
// syntactic and does not validate JSON; callers parse the result and treat
// failure as a protocol error.
//
// Order of attempts:
//  1. the trimmed input is already a single {...} object
//  2. a fenced ``` block whose interior is a {...} object
//  3. the substring from the first '{' to the last '}'
//  4. otherwise the trimmed input unchanged
func ExtractObject(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return s
	}

	if inner, ok := fencedObject(s); ok {
		return inner
	}

	first := strings.Index(s, "{")
	last := strings.LastIndex(s, "}")
	if first != -1 && last != -1 && first < last {
		return strings.TrimSpace(s[first : last+1])
	}

	return s
}

// fencedObject finds the first ``` ... ``` block and returns its interior if
// the interior is an object. A leading language label (e.g. "json") on the
// opening fence line is stripped.
func fencedObject(s string) (string, bool) {
	open := strings.Index(s, "```")
	if open == -1 {
		return "", false
	}
	rest := s[open+3:]
	closing := strings.Index(rest, "```")
	if closing == -1 {
		return "", false
	}
	inner := rest[:closing]
	if nl := strings.Index(inner, "\n"); nl != -1 {
		label := strings.TrimSpace(inner[:nl])
		if label != "" && !strings.HasPrefix(label, "{") {
			inner = inner[nl+1:]
		}
	}
	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, "{") && strings.HasSuffix(inner, "}") {
		return inner, true
	}
	return "", false
}
