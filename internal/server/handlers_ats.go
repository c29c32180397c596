package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ybennani/career-match/internal/pipeline"
	"github.com/ybennani/career-match/internal/types"
)

// atsCVResponse is the envelope of the automated CV optimization
// pipeline: parse, render to LaTeX, compile to PDF.
type atsCVResponse struct {
	Success      bool          `json:"success"`
	ATSCVText    string        `json:"ats_cv_text"`
	ATSLatex     string        `json:"ats_latex"`
	PDFBase64    string        `json:"pdf_base64"`
	PDFAvailable bool          `json:"pdf_available"`
	DownloadURL  string        `json:"download_url"`
	Metadata     atsCVMetadata `json:"metadata"`
}

type atsCVMetadata struct {
	Source           string `json:"source"`
	Format           string `json:"format"`
	Template         string `json:"template"`
	Generator        string `json:"generator"`
	Timestamp        string `json:"timestamp"`
	ContentPreserved bool   `json:"content_preserved"`
	ExperienceCount  int    `json:"experience_count"`
	EducationCount   int    `json:"education_count"`
	SkillsCount      int    `json:"skills_count"`
}

// atsEvaluateResponse carries the Gemini evaluation next to its flat
// top-level score.
type atsEvaluateResponse struct {
	Success    bool                 `json:"success"`
	ATSScore   int                  `json:"ats_score"`
	Evaluation *types.ATSEvaluation `json:"evaluation"`
	Metadata   evaluateMetadata     `json:"metadata"`
}

type evaluateMetadata struct {
	Source       string `json:"source"`
	Model        string `json:"model"`
	Timestamp    string `json:"timestamp"`
	ResumeLength int    `json:"resume_length"`
}

// handleATSCV runs the full optimization pipeline on an uploaded CV.
// Failures are reported in the body with a 200 status.
func (s *Server) handleATSCV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Invalid form data: " + err.Error()})
		return
	}

	filename, data, hasFile, err := readUpload(r, "cv_file")
	if err != nil {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Error reading CV file: " + err.Error()})
		return
	}
	if !hasFile {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Missing CV file."})
		return
	}

	targetRole := r.FormValue("target_role")
	sessionID := r.FormValue("session_id")

	if s.parser == nil {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Resume parser not configured"})
		return
	}
	parsed, err := s.parser.Parse(r.Context(), filename, data)
	if err != nil {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: err.Error()})
		return
	}

	result, err := s.runner.Run(r.Context(), parsed.Parsed, pipeline.Options{TargetRole: targetRole})
	if err != nil {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: err.Error()})
		return
	}

	response := atsCVResponse{
		Success:      true,
		ATSCVText:    result.DocumentSource,
		ATSLatex:     result.DocumentSource,
		PDFBase64:    result.ArtifactBase64,
		PDFAvailable: result.ArtifactAvailable,
		DownloadURL:  "",
		Metadata: atsCVMetadata{
			Source:           "resumeparser.app",
			Format:           "latex",
			Template:         "templates/ats_resume.tex",
			Generator:        "internal/rendering",
			Timestamp:        time.Now().UTC().Format(time.RFC3339),
			ContentPreserved: true,
			ExperienceCount:  result.Metadata.ExperienceCount,
			EducationCount:   result.Metadata.EducationCount,
			SkillsCount:      result.Metadata.SkillsCount,
		},
	}
	if sessionID != "" {
		s.sessions.UpdateResults(sessionID, response)
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// handleATSRender renders an already parsed resume without the upload
// and parse steps. Unlike the upload endpoints it uses HTTP status
// codes for errors.
func (s *Server) handleATSRender(w http.ResponseWriter, r *http.Request) {
	var req types.RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	parsed := types.DecodeParsedResume(req.Resume)
	result, err := s.runner.Run(r.Context(), parsed, pipeline.Options{TargetRole: req.TargetRole})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleATSEvaluate scores resume text across the ATS review categories
// using the Gemini evaluator.
func (s *Server) handleATSEvaluate(w http.ResponseWriter, r *http.Request) {
	// cv_text may arrive as a plain form post, without a multipart body.
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Invalid form data: " + err.Error()})
		return
	}

	filename, data, hasFile, err := readUpload(r, "cv_file")
	if err != nil {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Error reading CV file: " + err.Error()})
		return
	}

	cvText := r.FormValue("cv_text")
	sessionID := r.FormValue("session_id")

	var resumeText string
	switch {
	case hasFile:
		if s.parser == nil {
			s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Resume parser not configured"})
			return
		}
		parsed, err := s.parser.Parse(r.Context(), filename, data)
		if err != nil {
			s.jsonResponse(w, http.StatusOK, failureResponse{Error: err.Error()})
			return
		}
		resumeText = parsed.RawText
	case strings.TrimSpace(cvText) != "":
		resumeText = strings.TrimSpace(cvText)
	default:
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Either CV file or resume text must be provided"})
		return
	}

	if utf8.RuneCountInString(strings.TrimSpace(resumeText)) < 50 {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Resume text is too short or empty"})
		return
	}

	evaluation, err := s.evaluator.Evaluate(r.Context(), resumeText)
	if err != nil {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: err.Error()})
		return
	}

	response := atsEvaluateResponse{
		Success:    true,
		ATSScore:   evaluation.ATSScore,
		Evaluation: evaluation,
		Metadata: evaluateMetadata{
			Source:       "google_gemini",
			Model:        s.evaluator.Model(),
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			ResumeLength: utf8.RuneCountInString(resumeText),
		},
	}
	if sessionID != "" {
		s.sessions.UpdateResults(sessionID, response)
	}
	s.jsonResponse(w, http.StatusOK, response)
}
