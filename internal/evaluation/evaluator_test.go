package evaluation

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybennani/career-match/internal/llm"
	"github.com/ybennani/career-match/internal/types"
)

// stubClient returns canned responses without touching the network.
type stubClient struct {
	response string
	err      error
	model    string
}

func (s *stubClient) GenerateContent(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubClient) GenerateJSON(_ context.Context, _ string, _ llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubClient) GenerateConversational(_ context.Context, _, _ string, _ llm.ModelTier) (string, error) {
	return s.response, s.err
}

func (s *stubClient) GetModel(_ llm.ModelTier) string {
	if s.model != "" {
		return s.model
	}
	return "stub-model"
}

func (s *stubClient) Close() error { return nil }

// fullEvaluationJSON builds a complete, schema-valid evaluation response.
func fullEvaluationJSON(t *testing.T, score interface{}) string {
	t.Helper()

	doc := map[string]interface{}{"ATS_Score": score}
	for _, category := range types.EvaluationCategories {
		doc[category] = map[string]interface{}{
			"Positives": []string{"Looks good."},
			"Negatives": []string{},
		}
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(data)
}

const sampleResume = `Jane Doe, Software Engineer. jane@example.com, +212 600 000 000.
Experience: built data pipelines in Python, led a team of 4, cut costs by 30%.
Education: MSc Computer Science. Skills: Python, SQL, Docker.`

func TestEvaluate_WellFormedResponse(t *testing.T) {
	client := &stubClient{response: fullEvaluationJSON(t, 82)}
	evaluator := NewEvaluator(client)

	eval, err := evaluator.Evaluate(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Equal(t, 82, eval.ATSScore)
	assert.Len(t, eval.Categories, len(types.EvaluationCategories))
	assert.Equal(t, []string{"Looks good."}, eval.Categories["Contact Information"].Positives)
}

func TestEvaluate_TooShort(t *testing.T) {
	evaluator := NewEvaluator(&stubClient{})

	_, err := evaluator.Evaluate(context.Background(), "too short")
	require.Error(t, err)

	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Contains(t, evalErr.Message, "too short")
}

func TestEvaluate_EmptyText(t *testing.T) {
	evaluator := NewEvaluator(&stubClient{})

	_, err := evaluator.Evaluate(context.Background(), "   \n\t  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short or empty")
}

func TestEvaluate_NilClient(t *testing.T) {
	evaluator := NewEvaluator(nil)

	_, err := evaluator.Evaluate(context.Background(), sampleResume)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestEvaluate_ProseWrappedResponse(t *testing.T) {
	wrapped := "Here is the evaluation:\n" + fullEvaluationJSON(t, 64) + "\nHope this helps!"
	evaluator := NewEvaluator(&stubClient{response: wrapped})

	eval, err := evaluator.Evaluate(context.Background(), sampleResume)
	require.NoError(t, err)
	assert.Equal(t, 64, eval.ATSScore)
}

func TestEvaluate_NoJSONInResponse(t *testing.T) {
	evaluator := NewEvaluator(&stubClient{response: "I cannot evaluate this resume."})

	_, err := evaluator.Evaluate(context.Background(), sampleResume)
	require.Error(t, err)

	var evalErr *EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Contains(t, evalErr.Message, "no JSON object")
	assert.Equal(t, "stub-model", evalErr.Model)
}

func TestEvaluate_SalvagesPartialResponse(t *testing.T) {
	partial := `{"ATS_Score": 55, "Contact Information": {"Positives": ["Email present"]}}`
	evaluator := NewEvaluator(&stubClient{response: partial})

	eval, err := evaluator.Evaluate(context.Background(), sampleResume)
	require.NoError(t, err)

	assert.Equal(t, 55, eval.ATSScore)
	// Every category is filled in, with both feedback lists non-nil.
	require.Len(t, eval.Categories, len(types.EvaluationCategories))
	for _, category := range types.EvaluationCategories {
		feedback, ok := eval.Categories[category]
		require.True(t, ok, "missing category %s", category)
		assert.NotNil(t, feedback.Positives)
		assert.NotNil(t, feedback.Negatives)
	}
	assert.Equal(t, []string{"Email present"}, eval.Categories["Contact Information"].Positives)
}

func TestEvaluate_FloatScoreTruncated(t *testing.T) {
	evaluator := NewEvaluator(&stubClient{response: fullEvaluationJSON(t, 78.6)})

	eval, err := evaluator.Evaluate(context.Background(), sampleResume)
	require.NoError(t, err)
	assert.Equal(t, 78, eval.ATSScore)
}

func TestEvaluate_ScoreClamped(t *testing.T) {
	evaluator := NewEvaluator(&stubClient{response: fullEvaluationJSON(t, 140)})

	eval, err := evaluator.Evaluate(context.Background(), sampleResume)
	require.NoError(t, err)
	assert.Equal(t, 100, eval.ATSScore)
}

func TestEvaluate_ClientError(t *testing.T) {
	cause := errors.New("quota exceeded")
	evaluator := NewEvaluator(&stubClient{err: cause})

	_, err := evaluator.Evaluate(context.Background(), sampleResume)
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to generate evaluation")
}

func TestEvaluate_MalformedJSON(t *testing.T) {
	evaluator := NewEvaluator(&stubClient{response: `{"ATS_Score": 55, "Contact`})

	_, err := evaluator.Evaluate(context.Background(), sampleResume)
	require.Error(t, err)
	// Truncated output has an opening brace but no closing one.
	assert.Contains(t, err.Error(), "no JSON object")
}

func TestEvaluator_Model(t *testing.T) {
	evaluator := NewEvaluator(&stubClient{model: "gemini-2.5-flash"})
	assert.Equal(t, "gemini-2.5-flash", evaluator.Model())

	assert.Equal(t, "", NewEvaluator(nil).Model())
}

func TestEvaluationError_Error(t *testing.T) {
	err := &EvaluationError{Model: "gemini-2.5-flash", Message: "failed to parse", Cause: errors.New("bad token")}
	assert.True(t, strings.HasPrefix(err.Error(), "ats evaluation error:"))
	assert.Contains(t, err.Error(), "gemini-2.5-flash")
	assert.Contains(t, err.Error(), "bad token")
	assert.Equal(t, "bad token", err.Unwrap().Error())
}
