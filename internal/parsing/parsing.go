// Package parsing turns uploaded CV files into structured resume profiles.
//
// Two backends are available. The primary backend calls the hosted
// ResumeParser service; when no API key is configured, a Gemini-backed
// extractor reads the CV text directly. Both produce the same Result
// shape, so callers never care which path ran.
package parsing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ybennani/career-match/internal/llm"
	"github.com/ybennani/career-match/internal/types"
)

// Source values identify which backend produced a Result.
const (
	SourceResumeParser = "resumeparser_api"
	SourceLLM          = "llm_extraction"
)

// Result is the normalized output of a resume parse, independent of the
// backend that produced it.
type Result struct {
	Parsed    types.ParsedResume `json:"parsed"`
	RawText   string             `json:"raw_text"`
	Skills    []string           `json:"skills"`
	Summary   string             `json:"summary"`
	JobTitles []string           `json:"job_titles"`
	Source    string             `json:"source"`
}

// Parser extracts a structured profile from an uploaded CV file.
type Parser interface {
	Parse(ctx context.Context, filename string, data []byte) (*Result, error)
}

// NewParser selects a parsing backend. A ResumeParser API key takes
// precedence; otherwise the Gemini extractor is used when a client is
// available.
func NewParser(apiKey string, client llm.Client) (Parser, error) {
	if apiKey != "" {
		return NewAPIClient(apiKey), nil
	}
	if client != nil {
		return NewLLMParser(client), nil
	}
	return nil, errors.New("no resume parsing backend configured: need a ResumeParser API key or a Gemini client")
}

// BuildRawText flattens a parsed profile back into plain text for
// matching and evaluation.
func BuildRawText(parsed *types.ParsedResume) string {
	parts := make([]string, 0, 8)
	if parsed.Name != "" {
		parts = append(parts, parsed.Name)
	}
	if parsed.Title != "" {
		parts = append(parts, parsed.Title)
	}
	if parsed.Brief != "" {
		parts = append(parts, parsed.Brief)
	}
	for _, job := range parsed.EmploymentHistory {
		if job.Title != "" || job.Company != "" {
			parts = append(parts, fmt.Sprintf("%s at %s", job.Title, job.Company))
		}
		for _, resp := range job.Responsibilities {
			if resp != "" {
				parts = append(parts, resp)
			}
		}
	}
	for _, edu := range parsed.Education {
		if edu.Degree != "" || edu.InstitutionName != "" {
			parts = append(parts, fmt.Sprintf("%s from %s", edu.Degree, edu.InstitutionName))
		}
	}
	if len(parsed.Skills) > 0 {
		parts = append(parts, strings.Join(parsed.Skills, ", "))
	}
	return strings.Join(parts, "\n")
}

func buildResult(parsed types.ParsedResume, source string) *Result {
	return &Result{
		Parsed:    parsed,
		RawText:   BuildRawText(&parsed),
		Skills:    NormalizeSkills(parsed.Skills),
		Summary:   parsed.Brief,
		JobTitles: jobTitles(&parsed),
		Source:    source,
	}
}

func jobTitles(parsed *types.ParsedResume) []string {
	titles := make([]string, 0, len(parsed.EmploymentHistory))
	for _, job := range parsed.EmploymentHistory {
		if job.Title != "" {
			titles = append(titles, job.Title)
		}
	}
	return titles
}
