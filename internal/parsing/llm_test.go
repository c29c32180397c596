package parsing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybennani/career-match/internal/ingestion"
	"github.com/ybennani/career-match/internal/llm"
)

type stubLLMClient struct {
	response string
	err      error
	prompt   string
}

func (s *stubLLMClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubLLMClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	s.prompt = prompt
	return s.response, s.err
}

func (s *stubLLMClient) GenerateConversational(ctx context.Context, system, prompt string, tier llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubLLMClient) GetModel(tier llm.ModelTier) string {
	return "stub-model"
}

func (s *stubLLMClient) Close() error {
	return nil
}

const sampleCV = `Yassine Bennani
Développeur Python

Expérience:
- Développement d'applications web chez Inwi
- Automatisation de pipelines de données

Compétences: Python, SQL, Docker`

const sampleExtraction = `{
	"name": "Yassine Bennani",
	"title": "Développeur Python",
	"skills": ["python", "sql", "docker"],
	"employment_history": [
		{"title": "Développeur", "company": "Inwi", "responsibilities": ["Développement d'applications web"]}
	]
}`

func TestLLMParser_ParsesResumeText(t *testing.T) {
	client := &stubLLMClient{response: sampleExtraction}
	parser := NewLLMParser(client)

	result, err := parser.Parse(context.Background(), "cv.txt", []byte(sampleCV))
	require.NoError(t, err)

	assert.Equal(t, SourceLLM, result.Source)
	assert.Equal(t, "Yassine Bennani", result.Parsed.Name)
	assert.Equal(t, []string{"Python", "SQL", "Docker"}, result.Skills)
	assert.Equal(t, []string{"Développeur"}, result.JobTitles)

	// RawText carries the extracted document, not a rebuilt summary.
	assert.Contains(t, result.RawText, "Automatisation de pipelines")

	// The extraction prompt includes the CV text.
	assert.Contains(t, client.prompt, "Yassine Bennani")
	assert.Contains(t, client.prompt, "Compétences: Python, SQL, Docker")
}

func TestLLMParser_ProseWrappedJSON(t *testing.T) {
	client := &stubLLMClient{response: "Here is the extracted profile:\n" + sampleExtraction + "\nLet me know if you need more."}
	parser := NewLLMParser(client)

	result, err := parser.Parse(context.Background(), "cv.txt", []byte(sampleCV))
	require.NoError(t, err)
	assert.Equal(t, "Yassine Bennani", result.Parsed.Name)
}

func TestLLMParser_NoJSONInResponse(t *testing.T) {
	client := &stubLLMClient{response: "I cannot process this document."}
	parser := NewLLMParser(client)

	_, err := parser.Parse(context.Background(), "cv.txt", []byte(sampleCV))
	require.Error(t, err)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, err.Error(), "no JSON object detected")
}

func TestLLMParser_EmptyProfile(t *testing.T) {
	client := &stubLLMClient{response: "{}"}
	parser := NewLLMParser(client)

	_, err := parser.Parse(context.Background(), "cv.txt", []byte(sampleCV))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty profile")
}

func TestLLMParser_ClientError(t *testing.T) {
	cause := errors.New("quota exceeded")
	client := &stubLLMClient{err: cause}
	parser := NewLLMParser(client)

	_, err := parser.Parse(context.Background(), "cv.txt", []byte(sampleCV))
	require.Error(t, err)

	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, cause)
}

func TestLLMParser_ExtractionFailure(t *testing.T) {
	client := &stubLLMClient{response: sampleExtraction}
	parser := NewLLMParser(client)

	_, err := parser.Parse(context.Background(), "cv.pdf", []byte("not a pdf"))
	require.Error(t, err)

	var extractionErr *ingestion.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestLLMParser_WithTier(t *testing.T) {
	parser := NewLLMParser(&stubLLMClient{})
	lite := parser.WithTier(llm.TierLite)

	assert.Equal(t, llm.TierStandard, parser.tier)
	assert.Equal(t, llm.TierLite, lite.tier)
}
