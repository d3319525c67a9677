package planner

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const promptTemplate = `You are a professional fitness coach.
The user says: %q

Create a clear, progressive weekly workout plan to help them reach their goal.
Respond ONLY with a valid JSON object (no markdown, no explanations).
Include:
- "weeks": a list of objects each with
  - "week" (number)
  - "sessions": list of workout sessions with fields:
    "day", "exercise", "sets", "reps", and optional "notes".
Example:
{"weeks": [{"week": 1, "sessions": [
  {"day": "Monday", "exercise": "Pull-up negatives", "sets": 3, "reps": 5},
  {"day": "Tuesday", "exercise": "Rest"}
]}]}`

// contentGenerator is the part of *genai.Models used here.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini asks a Gemini model for a plan.
type Gemini struct {
	models contentGenerator
	model  string
}

// NewGemini creates a client for the Gemini API.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{models: client.Models, model: model}, nil
}

// Prompt renders the instruction sent for goal.
func Prompt(goal string) string {
	return fmt.Sprintf(promptTemplate, goal)
}

// Generate never returns an error: upstream failures are reported as an
// "error" result and non-JSON answers as a "raw_text" result.
func (g *Gemini) Generate(ctx context.Context, goal string) (map[string]any, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(Prompt(goal)), nil)
	if err != nil {
		return map[string]any{KeyError: err.Error()}, nil
	}
	return ExtractPlan(responseText(resp)), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil {
		return ""
	}

	var b strings.Builder
	for _, p := range c.Content.Parts {
		if p != nil {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}
