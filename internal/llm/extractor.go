// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ResumeProfile")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", nested object shape
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// ResumeProfileSchema returns the extraction schema for raw CV text.
// The output shape mirrors the ResumeParser.app response so both parsing
// paths decode through the same tolerant types.
func ResumeProfileSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ResumeProfile",
		Description: `You are an expert resume parser. COPY TEXT VERBATIM - do not paraphrase, summarize, or reword.
Your task is to extract structured candidate information from raw CV text.
IMPORTANT: Preserve the exact wording from the original text.
Dates stay in the form they appear in the CV. Use "" for anything absent.`,
		Fields: []SchemaField{
			{
				Name:        "name",
				Type:        "\"string\"",
				Description: "Candidate full name",
				Required:    true,
			},
			{
				Name:        "title",
				Type:        "\"string\"",
				Description: "Professional headline or current role",
				Required:    false,
			},
			{
				Name:        "brief",
				Type:        "\"string\"",
				Description: "Profile or summary paragraph, copied verbatim",
				Required:    false,
			},
			{
				Name:        "contact",
				Type:        "{\"email\": \"\", \"phone\": \"\", \"location_city\": \"\", \"location_state\": \"\", \"location_country\": \"\"}",
				Description: "Contact details as found in the CV",
				Required:    false,
			},
			{
				Name:        "employment_history",
				Type:        "[{\"title\": \"\", \"company\": \"\", \"location\": \"\", \"start_date\": \"\", \"end_date\": \"\", \"responsibilities\": [\"string\"]}]",
				Description: "One entry per position, most recent first, bullets verbatim",
				Required:    false,
			},
			{
				Name:        "education",
				Type:        "[{\"degree\": \"\", \"institution_name\": \"\", \"institution_country\": \"\", \"start_date\": \"\", \"end_date\": \"\", \"field_of_study\": \"\", \"gpa\": \"\"}]",
				Description: "One entry per degree or diploma",
				Required:    false,
			},
			{
				Name:        "skills",
				Type:        "[\"string\"]",
				Description: "Technical and professional skills, one per entry",
				Required:    true,
			},
			{
				Name:        "languages",
				Type:        "[\"string\"]",
				Description: "Spoken languages with level when stated",
				Required:    false,
			},
			{
				Name:        "certifications",
				Type:        "[\"string\"]",
				Description: "Certifications and completed courses",
				Required:    false,
			},
			{
				Name:        "projects",
				Type:        "[{\"title\": \"\", \"technologies\": \"\", \"description\": \"\"}]",
				Description: "Personal or academic projects",
				Required:    false,
			},
		},
	}
}
