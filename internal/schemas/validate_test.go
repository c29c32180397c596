package schemas

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_ValidJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON_MissingField(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "invalid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_InvalidJSON_WrongType(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "type_mismatch.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_NonExistentSchema(t *testing.T) {
	schemaPath := "testdata/nonexistent_schema.json"
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_NonExistentJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := "testdata/nonexistent_json.json"

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSON_MalformedJSON(t *testing.T) {
	tmpDir := t.TempDir()
	malformedJSON := filepath.Join(tmpDir, "malformed.json")
	err := os.WriteFile(malformedJSON, []byte("{ invalid json }"), 0644)
	require.NoError(t, err)

	schemaPath := filepath.Join("testdata", "valid_schema.json")

	valErr := ValidateJSON(schemaPath, malformedJSON)
	require.Error(t, valErr)
}

func TestValidateJSON_ATSEvaluationSchema(t *testing.T) {
	tests := []struct {
		name      string
		jsonFile  string
		wantError bool
	}{
		{
			name:      "complete evaluation",
			jsonFile:  filepath.Join("testdata", "ats_valid.json"),
			wantError: false,
		},
		{
			name:      "missing category",
			jsonFile:  filepath.Join("testdata", "ats_missing_category.json"),
			wantError: true,
		},
		{
			name:      "score out of range",
			jsonFile:  filepath.Join("testdata", "ats_score_out_of_range.json"),
			wantError: true,
		},
	}

	schemaPath := ResolveSchemaPath(filepath.Join("schemas", "ats_evaluation.schema.json"))
	require.NotEmpty(t, schemaPath, "ats_evaluation.schema.json should be resolvable from the repo")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(schemaPath, tt.jsonFile)
			if tt.wantError {
				require.Error(t, err)
				validationErr, ok := err.(*ValidationError)
				require.True(t, ok, "error should be ValidationError, got %T: %v", err, err)
				assert.Greater(t, len(validationErr.Errors), 0, "validation error should have at least one field error")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateJSONString_Valid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"name": "test"}`

	err := ValidateJSONString(schemaContent, jsonContent)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["name"],
		"properties": {
			"name": {"type": "string"}
		}
	}`
	jsonContent := `{"age": 30}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}

func TestValidateJSONString_NestedFieldValidation(t *testing.T) {
	schemaContent := `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["person"],
		"properties": {
			"person": {
				"type": "object",
				"required": ["name"],
				"properties": {
					"name": {"type": "string"}
				}
			}
		}
	}`

	jsonContent := `{"person": {}}`

	err := ValidateJSONString(schemaContent, jsonContent)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
	found := false
	for _, fieldErr := range validationErr.Errors {
		if fieldErr.Field != "" {
			found = true
			break
		}
	}
	assert.True(t, found, "should include field path in error")
}
