// Package evaluation scores resumes the way an ATS reviewer would, using an
// LLM to produce a 0-100 score and per-category feedback.
package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ybennani/career-match/internal/llm"
	"github.com/ybennani/career-match/internal/prompts"
	"github.com/ybennani/career-match/internal/schemas"
	"github.com/ybennani/career-match/internal/types"
)

// MinTextLength is the minimum resume length (in runes) worth evaluating.
// Anything shorter produces noise rather than feedback.
const MinTextLength = 50

// Evaluator runs the 14-category ATS review against an LLM.
type Evaluator struct {
	client llm.Client
	tier   llm.ModelTier
	schema string // JSON Schema content; empty disables the schema diagnostics
}

// NewEvaluator creates an Evaluator using the standard model tier.
// The ATS evaluation schema is loaded from the repo's schemas directory when
// resolvable; evaluation still works without it.
func NewEvaluator(client llm.Client) *Evaluator {
	e := &Evaluator{
		client: client,
		tier:   llm.TierStandard,
	}
	if path := schemas.ResolveSchemaPath(filepath.Join("schemas", "ats_evaluation.schema.json")); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			e.schema = string(data)
		}
	}
	return e
}

// WithTier returns a copy of the Evaluator using the given model tier.
func (e *Evaluator) WithTier(tier llm.ModelTier) *Evaluator {
	clone := *e
	clone.tier = tier
	return &clone
}

// Evaluate reviews resume text and returns the normalized evaluation.
// The result always contains all categories with non-nil feedback lists.
func (e *Evaluator) Evaluate(ctx context.Context, resumeText string) (*types.ATSEvaluation, error) {
	if e.client == nil {
		return nil, &EvaluationError{Message: "LLM client not configured"}
	}

	text := strings.TrimSpace(resumeText)
	if utf8.RuneCountInString(text) < MinTextLength {
		return nil, &EvaluationError{Model: e.model(), Message: "resume text is too short or empty"}
	}

	prompt, err := prompts.GetFormatted("evaluation.json", "ats-review", map[string]string{
		"ResumeText": text,
	})
	if err != nil {
		return nil, &EvaluationError{Model: e.model(), Message: "failed to load review prompt", Cause: err}
	}

	raw, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		return nil, &EvaluationError{Model: e.model(), Message: "failed to generate evaluation", Cause: err}
	}

	jsonStr := llm.ExtractJSONObject(llm.CleanJSONBlock(raw))
	if jsonStr == "" {
		return nil, &EvaluationError{Model: e.model(), Message: "no JSON object detected in model response"}
	}

	// The schema check is diagnostic: a deviating response is logged and then
	// salvaged by Normalize, which fills any missing categories.
	if e.schema != "" {
		if schemaErr := schemas.ValidateJSONString(e.schema, jsonStr); schemaErr != nil {
			var validationErr *schemas.ValidationError
			if errors.As(schemaErr, &validationErr) {
				log.Printf("ATS evaluation deviates from schema (%d issues), normalizing", len(validationErr.Errors))
			} else {
				log.Printf("ATS evaluation schema check unavailable: %v", schemaErr)
			}
		}
	}

	var eval types.ATSEvaluation
	if err := json.Unmarshal([]byte(jsonStr), &eval); err != nil {
		return nil, &EvaluationError{Model: e.model(), Message: "failed to parse model response as JSON", Cause: err}
	}

	eval.Normalize()
	return &eval, nil
}

// Model reports which model the evaluator runs on.
func (e *Evaluator) Model() string {
	return e.model()
}

func (e *Evaluator) model() string {
	if e.client == nil {
		return ""
	}
	return e.client.GetModel(e.tier)
}
