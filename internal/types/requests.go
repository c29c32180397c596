//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// SearchRequest is the natural-language job search request.
type SearchRequest struct {
	Query     string `json:"query" validate:"required,min=1"`
	SessionID string `json:"session_id,omitempty"`
}

// ClarifyRequest answers a clarification question from a previous search.
type ClarifyRequest struct {
	SessionID string `json:"session_id" validate:"required"`
	Answer    string `json:"answer" validate:"required,min=1"`
}

// AssistantRequest is the cascade-search assistant request.
type AssistantRequest struct {
	Message string `json:"message" validate:"required,min=1"`
}

// CoachRequest is the LLM career-coach request.
type CoachRequest struct {
	Message   string `json:"message" validate:"required,min=1"`
	SessionID string `json:"session_id,omitempty"`
}

// RenderRequest carries raw parsed-resume JSON for document generation.
type RenderRequest struct {
	Resume     json.RawMessage `json:"resume" validate:"required"`
	TargetRole string          `json:"target_role,omitempty"`
}

// Validate validates the SearchRequest using the validator.
func (r *SearchRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the ClarifyRequest using the validator.
func (r *ClarifyRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the AssistantRequest using the validator.
func (r *AssistantRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CoachRequest using the validator.
func (r *CoachRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the RenderRequest using the validator.
func (r *RenderRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
