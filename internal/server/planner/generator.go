// Package planner turns a free-text fitness goal into a structured weekly
// workout plan of the shape
//
//	{"weeks": [{"week": 1, "sessions": [{"day", "exercise", "sets", "reps", "notes"}]}]}
//
// Generators may report failure in-band: a result holding an "error" key
// means the upstream call failed, a result holding "raw_text" means the
// upstream answered with something that is not a JSON plan. Callers must
// not persist either.
package planner

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
)

// Keys of the in-band failure results.
const (
	KeyError   = "error"
	KeyRawText = "raw_text"
)

// Generator produces a plan for goal.
type Generator interface {
	Generate(ctx context.Context, goal string) (map[string]any, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, goal string) (map[string]any, error)

func (f GeneratorFunc) Generate(ctx context.Context, goal string) (map[string]any, error) {
	return f(ctx, goal)
}

var jsonObject = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractPlan pulls the outermost JSON object out of model output, which may
// be wrapped in prose or markdown fences. Anything unparseable comes back as
// a raw_text result.
func ExtractPlan(text string) map[string]any {
	text = strings.TrimSpace(text)

	if match := jsonObject.FindString(text); match != "" {
		plan := map[string]any{}
		if err := json.Unmarshal([]byte(match), &plan); err == nil {
			return plan
		}
	}
	return map[string]any{KeyRawText: text}
}

// Failure inspects a generator result for the in-band failure keys.
// It returns the key found and its text.
func Failure(plan map[string]any) (key, detail string, failed bool) {
	for _, k := range []string{KeyError, KeyRawText} {
		if v, ok := plan[k]; ok {
			s, _ := v.(string)
			return k, s, true
		}
	}
	return "", "", false
}
