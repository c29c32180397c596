package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ybennani/career-match/internal/types"
)

func TestPrintMatches(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	matches := []types.JobMatch{
		{
			Job: types.Job{
				JobTitle:       "Data Analyst",
				Category:       "Tech",
				RequiredSkills: "Python, SQL, Excel",
				AvgSalaryMAD:   "10000-15000",
			},
			MatchScore: 0.42,
		},
		{
			Job:        types.Job{JobTitle: "Data Engineer", Category: "Tech"},
			MatchScore: 0.21,
		},
	}

	p.PrintMatches(matches)
	output := buf.String()

	assert.Contains(t, output, "TOP JOB MATCHES")
	assert.Contains(t, output, "Total matches: 2")
	assert.Contains(t, output, "#1  Data Analyst")
	assert.Contains(t, output, "Score: 0.420")
	assert.Contains(t, output, "Python, SQL, Excel")
	assert.Contains(t, output, "10000-15000 MAD")
	assert.Contains(t, output, "#2  Data Engineer")
}

func TestPrintMatches_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintMatches(nil)

	assert.Contains(t, buf.String(), "NO MATCHING JOBS")
}

func TestPrintMatches_TruncatesList(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	matches := make([]types.JobMatch, 8)
	for i := range matches {
		matches[i] = types.JobMatch{Job: types.Job{JobTitle: "Poste"}, MatchScore: 0.5}
	}

	p.PrintMatches(matches)
	output := buf.String()

	assert.Contains(t, output, "Total matches: 8")
	assert.Contains(t, output, "... and 3 more matches")
	assert.Equal(t, 5, strings.Count(output, "Poste"))
}

func TestPrintParsedResume(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	resume := &types.ParsedResume{
		Name:    "Sara Alami",
		Title:   "Data Analyst",
		Contact: types.ParsedContact{Email: "sara@example.com"},
		EmploymentHistory: []types.ParsedEmployment{
			{Title: "Analyste", Company: "Acme"},
		},
		Skills:    types.StringList{"Python", "SQL"},
		Languages: types.StringList{"Français", "Anglais"},
	}

	p.PrintParsedResume(resume)
	output := buf.String()

	assert.Contains(t, output, "PARSED RESUME")
	assert.Contains(t, output, "Sara Alami")
	assert.Contains(t, output, "sara@example.com")
	assert.Contains(t, output, "Analyste @ Acme")
	assert.Contains(t, output, "Skills (2): Python, SQL")
	assert.Contains(t, output, "Français, Anglais")
}

func TestPrintParsedResume_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintParsedResume(nil)

	assert.Empty(t, buf.String())
}

func TestPrintEvaluation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	eval := &types.ATSEvaluation{
		ATSScore: 72,
		Categories: map[string]types.CategoryFeedback{
			"Spelling & Grammar": {
				Negatives: []string{"Two typos in the summary section"},
			},
			"Quantified Achievements": {
				Positives: []string{"Metrics on every bullet"},
			},
		},
	}

	p.PrintEvaluation(eval)
	output := buf.String()

	assert.Contains(t, output, "ATS EVALUATION")
	assert.Contains(t, output, "ATS Score: 72/100")
	assert.Contains(t, output, "Flagged categories (1)")
	assert.Contains(t, output, "Spelling & Grammar")
	assert.Contains(t, output, "Two typos in the summary section")
	assert.NotContains(t, output, "Quantified Achievements")
}

func TestPrintEvaluation_Clean(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	eval := &types.ATSEvaluation{ATSScore: 95, Categories: map[string]types.CategoryFeedback{}}

	p.PrintEvaluation(eval)
	output := buf.String()

	assert.Contains(t, output, "ATS Score: 95/100")
	assert.Contains(t, output, "No issues flagged")
}

func TestPrintEvaluation_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEvaluation(nil)

	assert.Empty(t, buf.String())
}

func TestPrintPipelineResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.PipelineResult{
		Success:        true,
		DocumentSource: strings.Repeat("x", 120),
		Reason:         "pdflatex not found on PATH",
		Metadata: types.ResumeMetadata{
			ExperienceCount: 2,
			SkillsCount:     6,
		},
	}

	p.PrintPipelineResult(result)
	output := buf.String()

	assert.Contains(t, output, "RESUME RENDER")
	assert.Contains(t, output, "LaTeX source: 120 bytes")
	assert.Contains(t, output, "PDF: not available")
	assert.Contains(t, output, "pdflatex not found on PATH")
	assert.Contains(t, output, "Experience:     2")
	assert.Contains(t, output, "Skills:         6")
}

func TestPrintPipelineResult_ArtifactAvailable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	result := &types.PipelineResult{
		Success:           true,
		DocumentSource:    "doc",
		ArtifactBase64:    "JVBERi0=",
		ArtifactAvailable: true,
	}

	p.PrintPipelineResult(result)
	output := buf.String()

	assert.Contains(t, output, "PDF: available")
	assert.NotContains(t, output, "not available")
}
