package parsing

import (
	"context"

	"github.com/ybennani/career-match/internal/ingestion"
	"github.com/ybennani/career-match/internal/llm"
	"github.com/ybennani/career-match/internal/types"
)

// LLMParser extracts a structured profile straight from the CV text
// using Gemini. It is the fallback backend when no ResumeParser API key
// is configured.
type LLMParser struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMParser creates a Gemini-backed resume parser.
func NewLLMParser(client llm.Client) *LLMParser {
	return &LLMParser{client: client, tier: llm.TierStandard}
}

// WithTier returns a copy of the parser using a different model tier.
func (p *LLMParser) WithTier(tier llm.ModelTier) *LLMParser {
	clone := *p
	clone.tier = tier
	return &clone
}

// Parse extracts the CV text and asks the model for a structured profile.
// RawText carries the full extracted document rather than a rebuilt
// summary, so downstream matching sees everything the CV says.
func (p *LLMParser) Parse(ctx context.Context, filename string, data []byte) (*Result, error) {
	text, err := ingestion.ExtractText(filename, data)
	if err != nil {
		return nil, err
	}

	prompt := llm.BuildExtractionPrompt(llm.ResumeProfileSchema(), text)
	response, err := p.client.GenerateJSON(ctx, prompt, p.tier)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate resume extraction", Cause: err}
	}

	raw := llm.ExtractJSONObject(llm.CleanJSONBlock(response))
	if raw == "" {
		return nil, &ParseError{Message: "no JSON object detected in extraction response"}
	}

	parsed := types.DecodeParsedResume([]byte(raw))
	if parsed.Name == "" && len(parsed.Skills) == 0 && len(parsed.EmploymentHistory) == 0 {
		return nil, &ParseError{Message: "extraction produced an empty profile"}
	}

	result := buildResult(parsed, SourceLLM)
	result.RawText = text
	return result, nil
}
