package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("evaluation.json", "ats-review")
	require.NoError(t, err)
	assert.NotEmpty(t, prompt)
	assert.Contains(t, prompt, "expert ATS")
	assert.Contains(t, prompt, "{{.ResumeText}}")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("coach.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("coach.json", "system")
		assert.Contains(t, prompt, "Karim")
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_NoPlaceholders(t *testing.T) {
	template := "No placeholders here"
	data := map[string]string{"Key": "Value"}

	result := Format(template, data)
	assert.Equal(t, template, result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"
	data := map[string]string{}

	result := Format(template, data)
	assert.Equal(t, template, result) // Placeholder remains
}

func TestFormat_LeavesJSONBracesAlone(t *testing.T) {
	// Prompt bodies contain literal JSON skeletons; only {{.Key}} forms
	// are placeholders.
	template := `Return {"Positives": ["..."]} for {{.ResumeText}}`
	result := Format(template, map[string]string{"ResumeText": "CV"})
	assert.Equal(t, `Return {"Positives": ["..."]} for CV`, result)
}

func TestGetFormatted(t *testing.T) {
	ClearCache()

	prompt, err := GetFormatted("coach.json", "thinking-search", map[string]string{
		"Message": "je cherche un stage data à Casablanca",
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, "je cherche un stage data à Casablanca")
	assert.NotContains(t, prompt, "{{.Message}}")
}

func TestList(t *testing.T) {
	ClearCache()

	keys, err := List("coach.json")
	require.NoError(t, err)
	assert.Contains(t, keys, "system")
	assert.Contains(t, keys, "jobs-context")
}

func TestCaching(t *testing.T) {
	ClearCache()

	// First call loads from file
	prompt1, err := Get("evaluation.json", "ats-review")
	require.NoError(t, err)

	// Second call should use cache
	prompt2, err := Get("evaluation.json", "ats-review")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
