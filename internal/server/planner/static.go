package planner

import (
	"context"
	"strings"
)

type staticExercise struct {
	name string
	reps any
}

var (
	strengthBlock = []staticExercise{{"Goblet squat", 10}, {"Push-up", 12}, {"Dumbbell row", 10}}
	cardioBlock   = []staticExercise{{"Easy run", "20 min"}, {"Intervals", "6 x 1 min"}, {"Long run", "35 min"}}
	trainingDays  = []string{"Monday", "Wednesday", "Friday"}
)

// Static returns a fixed four-week progression. It is used when no model is
// configured, e.g. for local development against the memory store.
type Static struct {
	Weeks int
}

func (s Static) Generate(ctx context.Context, goal string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	weeks := s.Weeks
	if weeks <= 0 {
		weeks = 4
	}

	block := strengthBlock
	lower := strings.ToLower(goal)
	if strings.Contains(lower, "run") || strings.Contains(lower, "cardio") || strings.Contains(lower, "marathon") {
		block = cardioBlock
	}

	out := make([]any, 0, weeks)
	for w := 1; w <= weeks; w++ {
		sessions := make([]any, 0, len(trainingDays)+1)
		for i, day := range trainingDays {
			ex := block[i%len(block)]
			sessions = append(sessions, map[string]any{
				"day":      day,
				"exercise": ex.name,
				"sets":     2 + w,
				"reps":     ex.reps,
			})
		}
		sessions = append(sessions, map[string]any{"day": "Sunday", "exercise": "Rest", "notes": "mobility work optional"})
		out = append(out, map[string]any{"week": w, "sessions": sessions})
	}

	return map[string]any{"weeks": out}, nil
}
