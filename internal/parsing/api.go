package parsing

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"github.com/ybennani/career-match/internal/types"
)

// DefaultBaseURL is the hosted ResumeParser endpoint.
const DefaultBaseURL = "https://resumeparser.app/resume/parse"

const apiTimeout = 30 * time.Second

// APIClient parses resumes through the hosted ResumeParser service.
// The service accepts different request encodings depending on account
// plan and API version, so Parse tries each encoding in turn and keeps
// the first success.
type APIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a ResumeParser client with default settings.
func NewAPIClient(apiKey string) *APIClient {
	return &APIClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: apiTimeout},
	}
}

// WithBaseURL returns a copy of the client pointed at a different endpoint.
func (c *APIClient) WithBaseURL(baseURL string) *APIClient {
	clone := *c
	clone.baseURL = baseURL
	return &clone
}

// Parse uploads the CV and decodes the parsed profile.
func (c *APIClient) Parse(ctx context.Context, filename string, data []byte) (*Result, error) {
	builders := []func(context.Context, string, []byte) (*http.Request, error){
		c.multipartRequest,
		c.base64Request,
		c.keyFieldRequest,
	}

	var lastErr error
	for _, build := range builders {
		req, err := build(ctx, filename, data)
		if err != nil {
			lastErr = err
			continue
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = &APICallError{Message: "network error calling ResumeParser API", Cause: err}
			if ctx.Err() != nil {
				break
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = &APICallError{Message: "failed to read ResumeParser response", Cause: readErr}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = &APICallError{Message: apiErrorMessage(resp.StatusCode, body)}
			continue
		}

		return decodeAPIResponse(body)
	}

	return nil, &APICallError{Message: "all ResumeParser request encodings failed", Cause: lastErr}
}

// multipartRequest sends the file as a standard form upload with Bearer
// authentication.
func (c *APIClient) multipartRequest(ctx context.Context, filename string, data []byte) (*http.Request, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(filename)))
	header.Set("Content-Type", contentTypeFor(filename))
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

// base64Request sends the file inline as base64 JSON with Bearer
// authentication.
func (c *APIClient) base64Request(ctx context.Context, filename string, data []byte) (*http.Request, error) {
	payload := map[string]string{
		"file":     base64.StdEncoding.EncodeToString(data),
		"filename": filename,
	}
	req, err := c.jsonRequest(ctx, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

// keyFieldRequest sends the file inline with the API key carried in the
// body instead of a header. Some older API plans only accept this form.
func (c *APIClient) keyFieldRequest(ctx context.Context, filename string, data []byte) (*http.Request, error) {
	payload := map[string]string{
		"file":     base64.StdEncoding.EncodeToString(data),
		"filename": filename,
		"key":      c.apiKey,
	}
	return c.jsonRequest(ctx, payload)
}

func (c *APIClient) jsonRequest(ctx context.Context, payload map[string]string) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func decodeAPIResponse(body []byte) (*Result, error) {
	var envelope struct {
		Parsed json.RawMessage `json:"parsed"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ParseError{Message: "failed to decode ResumeParser response", Cause: err}
	}
	if len(envelope.Parsed) == 0 {
		return nil, &ParseError{Message: "ResumeParser response is missing the parsed payload"}
	}

	parsed := types.DecodeParsedResume(envelope.Parsed)
	return buildResult(parsed, SourceResumeParser), nil
}

// apiErrorMessage surfaces the error body the API returns on failure.
func apiErrorMessage(status int, body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return fmt.Sprintf("ResumeParser API error (status %d): %s", status, payload.Error)
		}
		if payload.Message != "" {
			return fmt.Sprintf("ResumeParser API error (status %d): %s", status, payload.Message)
		}
	}
	return fmt.Sprintf("ResumeParser API returned status %d", status)
}

func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
