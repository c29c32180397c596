//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// EvaluationCategories lists the review categories an ATS evaluation must
// cover, in report order. The names double as JSON keys in the model output.
var EvaluationCategories = []string{
	"Contact Information",
	"Spelling & Grammar",
	"Personal Pronoun Usage",
	"Skills & Keyword Targeting",
	"Complex or Long Sentences",
	"Generic or Weak Phrases",
	"Passive Voice Usage",
	"Quantified Achievements",
	"Required Resume Sections",
	"AI-generated Language",
	"Repeated Action Verbs",
	"Visual Formatting or Readability",
	"Personal Information / Bias Triggers",
	"Other Strengths and Weaknesses",
}

// CategoryFeedback holds the reviewer feedback for one category.
type CategoryFeedback struct {
	Positives []string `json:"Positives"`
	Negatives []string `json:"Negatives"`
}

// ATSEvaluation is a structured resume review: an overall score plus
// per-category positive and negative findings.
type ATSEvaluation struct {
	ATSScore   int                         `json:"ATS_Score"`
	Categories map[string]CategoryFeedback `json:"-"`
}

// MarshalJSON flattens the category map next to ATS_Score so the wire shape
// matches the model's output format.
func (e ATSEvaluation) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(e.Categories)+1)
	out["ATS_Score"] = e.ATSScore
	for name, feedback := range e.Categories {
		out[name] = feedback
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads the flat model output into the score and category map.
func (e *ATSEvaluation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.Categories = make(map[string]CategoryFeedback, len(EvaluationCategories))
	if score, ok := raw["ATS_Score"]; ok {
		// Tolerate a float score from the model; truncate to int.
		var intScore int
		if err := json.Unmarshal(score, &intScore); err != nil {
			var floatScore float64
			if err := json.Unmarshal(score, &floatScore); err == nil {
				intScore = int(floatScore)
			}
		}
		e.ATSScore = intScore
	}

	for key, value := range raw {
		if key == "ATS_Score" {
			continue
		}
		var feedback CategoryFeedback
		if err := json.Unmarshal(value, &feedback); err != nil {
			continue
		}
		e.Categories[key] = feedback
	}
	return nil
}

// Normalize fills in any category the model omitted so every consumer sees
// all categories with both feedback lists present.
func (e *ATSEvaluation) Normalize() {
	if e.Categories == nil {
		e.Categories = make(map[string]CategoryFeedback, len(EvaluationCategories))
	}
	for _, name := range EvaluationCategories {
		feedback, ok := e.Categories[name]
		if !ok {
			e.Categories[name] = CategoryFeedback{Positives: []string{}, Negatives: []string{}}
			continue
		}
		if feedback.Positives == nil {
			feedback.Positives = []string{}
		}
		if feedback.Negatives == nil {
			feedback.Negatives = []string{}
		}
		e.Categories[name] = feedback
	}
	if e.ATSScore < 0 {
		e.ATSScore = 0
	}
	if e.ATSScore > 100 {
		e.ATSScore = 100
	}
}
