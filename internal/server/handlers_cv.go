package server

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ybennani/career-match/internal/analysis"
	"github.com/ybennani/career-match/internal/parsing"
	"github.com/ybennani/career-match/internal/types"
)

// Sample texts served by /cv/demo. Kept verbatim so the demo analysis is
// reproducible.
const demoCV = `
    DÉVELOPPEUR WEB
    Jean Dupont
    Email: jean.dupont@email.com | Tél: +212 6 12 34 56 78

    EXPÉRIENCE
    Développeur Frontend - TechMaroc (2022-2023)
    - Développement d'interfaces avec HTML, CSS, JavaScript
    - Collaboration avec les designers
    - Résolution de bugs

    FORMATION
    Licence Informatique - Université Hassan II (2021)
    - Programmation Java, Bases de données SQL

    COMPÉTENCES
    - HTML, CSS, JavaScript
    - Java, MySQL, Git
    `

const demoJob = `
    Développeur Full Stack
    Compétences requises:
    - JavaScript, React, Node.js
    - Bases de données MongoDB
    - APIs RESTful
    - Git et méthodologies Agile
    - Python (un plus)

    Missions:
    - Développement d'applications web complètes
    - Collaboration équipe frontend/backend
    `

// failureResponse is the error envelope of the task endpoints, which
// report failures in the body with a 200 status.
type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// cvUploadResponse is the analysis report extended with the parsed CV
// sections for /cv/analyze-upload.
type cvUploadResponse struct {
	analysis.Report
	CVSections    map[string]string        `json:"cv_sections"`
	Filename      string                   `json:"filename"`
	APISkills     []string                 `json:"api_skills"`
	APIExperience []types.ParsedEmployment `json:"api_experience"`
}

// cvAnalyserResponse is the normalized match score envelope of
// /api/cv_analyser.
type cvAnalyserResponse struct {
	Success            bool             `json:"success"`
	Score              float64          `json:"score"`
	CVKeywords         []string         `json:"cv_keywords"`
	JobKeywords        []string         `json:"job_keywords"`
	MatchedSkills      []string         `json:"matched_skills"`
	MissingSkills      []string         `json:"missing_skills"`
	Coverage           string           `json:"coverage"`
	CoveragePercentage float64          `json:"coverage_percentage"`
	Metadata           analyserMetadata `json:"metadata"`
}

type analyserMetadata struct {
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

// readUpload pulls a multipart file field into memory. The bool reports
// whether the field was present.
func readUpload(r *http.Request, field string) (string, []byte, bool, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, false, err
	}
	return header.Filename, data, true, nil
}

// handleCVAnalyze scores pasted CV text against a job description.
func (s *Server) handleCVAnalyze(w http.ResponseWriter, r *http.Request) {
	cvText := r.FormValue("cv_text")
	jobDescription := r.FormValue("job_description")

	if utf8.RuneCountInString(strings.TrimSpace(cvText)) < 10 {
		s.errorResponse(w, http.StatusBadRequest, "CV trop court")
		return
	}
	if utf8.RuneCountInString(strings.TrimSpace(jobDescription)) < 10 {
		s.errorResponse(w, http.StatusBadRequest, "Description d'offre trop courte")
		return
	}

	s.jsonResponse(w, http.StatusOK, analysis.AnalyzeCVvsJob(cvText, jobDescription))
}

// handleCVTest is the module smoke check.
func (s *Server) handleCVTest(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "Module CV opérationnel",
		"endpoints": map[string]string{
			"analyze": "POST /cv/analyze",
			"demo":    "GET /cv/demo",
		},
	})
}

// handleCVDemo runs the analysis on the embedded sample CV and offer.
func (s *Server) handleCVDemo(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"demo":                true,
		"cv_example_preview":  truncateRunes(demoCV, 100) + "...",
		"job_example_preview": truncateRunes(demoJob, 100) + "...",
		"analysis":            analysis.AnalyzeCVvsJob(demoCV, demoJob),
	})
}

// handleCVSkills lists the recognized skill vocabulary.
func (s *Server) handleCVSkills(w http.ResponseWriter, _ *http.Request) {
	skills := analysis.TechnicalSkills()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"technical_skills": skills,
		"total_skills":     len(skills),
	})
}

// handleCVAnalyzeUpload parses an uploaded CV file and scores the
// extracted text against a job description.
func (s *Server) handleCVAnalyzeUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid form data: "+err.Error())
		return
	}

	filename, data, hasFile, err := readUpload(r, "cv_file")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Error reading CV file: "+err.Error())
		return
	}
	if !hasFile {
		s.errorResponse(w, http.StatusBadRequest, "cv_file is required")
		return
	}
	jobDescription := r.FormValue("job_description")
	if strings.TrimSpace(jobDescription) == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_description is required")
		return
	}

	if s.parser == nil {
		s.errorResponse(w, http.StatusBadRequest, "Resume parser not configured")
		return
	}
	parsed, err := s.parser.Parse(r.Context(), filename, data)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	cvText := parsed.RawText
	if utf8.RuneCountInString(strings.TrimSpace(cvText)) < 100 {
		s.errorResponse(w, http.StatusBadRequest, "CV trop court ou illisible")
		return
	}

	report := analysis.AnalyzeCVvsJob(cvText, jobDescription)

	apiSkills := parsed.Skills
	if apiSkills == nil {
		apiSkills = []string{}
	}
	experience := parsed.Parsed.EmploymentHistory
	if experience == nil {
		experience = []types.ParsedEmployment{}
	}

	s.jsonResponse(w, http.StatusOK, cvUploadResponse{
		Report:        *report,
		CVSections:    cvSections(parsed),
		Filename:      filename,
		APISkills:     apiSkills,
		APIExperience: experience,
	})
}

// handleCVAnalyser computes the normalized CV versus job description
// score. Failures are reported in the body so the caller always gets a
// well-formed envelope.
func (s *Server) handleCVAnalyser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Invalid form data: " + err.Error()})
		return
	}

	filename, data, hasFile, err := readUpload(r, "cv_file")
	if err != nil {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Error reading CV file: " + err.Error()})
		return
	}

	cvText := strings.TrimSpace(r.FormValue("cv_text"))
	jobDescription := strings.TrimSpace(r.FormValue("job_description"))
	sessionID := r.FormValue("session_id")

	if (!hasFile && cvText == "") || jobDescription == "" {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Missing CV or Job Description"})
		return
	}

	var cvTextClean string
	var apiSkills []string
	if hasFile {
		if s.parser == nil {
			s.jsonResponse(w, http.StatusOK, failureResponse{Error: "Resume parser not configured"})
			return
		}
		parsed, err := s.parser.Parse(r.Context(), filename, data)
		if err != nil {
			s.jsonResponse(w, http.StatusOK, failureResponse{Error: err.Error()})
			return
		}
		cvTextClean = parsed.RawText
		apiSkills = parsed.Skills
	} else {
		cvTextClean = cvText
	}

	match, err := analysis.ScoreMatch(cvTextClean, jobDescription, apiSkills)
	if err != nil {
		s.jsonResponse(w, http.StatusOK, failureResponse{Error: err.Error()})
		return
	}

	response := cvAnalyserResponse{
		Success:            true,
		Score:              match.Score,
		CVKeywords:         match.CVKeywords,
		JobKeywords:        match.JobKeywords,
		MatchedSkills:      match.MatchedSkills,
		MissingSkills:      match.MissingSkills,
		Coverage:           match.Coverage,
		CoveragePercentage: match.CoveragePercentage,
		Metadata: analyserMetadata{
			Source:    "cv_analyser_v1",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
	if sessionID != "" {
		s.sessions.UpdateResults(sessionID, response)
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// cvSections summarizes the structured parse into the section map the
// analyze-upload response exposes. Long values are cut to 300 characters.
func cvSections(result *parsing.Result) map[string]string {
	experience := make([]string, 0, len(result.Parsed.EmploymentHistory))
	for _, job := range result.Parsed.EmploymentHistory {
		experience = append(experience, formatEmployment(job))
	}
	education := make([]string, 0, len(result.Parsed.Education))
	for _, edu := range result.Parsed.Education {
		education = append(education, formatEducation(edu))
	}

	sections := map[string]string{
		"experience":     strings.Join(experience, "\n"),
		"education":      strings.Join(education, "\n"),
		"skills":         strings.Join(result.Skills, ", "),
		"summary":        result.Summary,
		"contact":        formatContact(result.Parsed.Contact),
		"projects":       "",
		"languages":      "",
		"certifications": "",
	}
	for key, value := range sections {
		if utf8.RuneCountInString(value) > 300 {
			sections[key] = truncateRunes(value, 300) + "..."
		}
	}
	return sections
}

func formatEmployment(job types.ParsedEmployment) string {
	line := job.Title
	if job.Company != "" {
		if line != "" {
			line += " - "
		}
		line += job.Company
	}
	if job.StartDate != "" || job.EndDate != "" {
		line += " (" + job.StartDate + " - " + job.EndDate + ")"
	}
	return line
}

func formatEducation(edu types.ParsedEducation) string {
	line := edu.Degree
	if edu.FieldOfStudy != "" {
		if line != "" {
			line += ", "
		}
		line += edu.FieldOfStudy
	}
	if edu.InstitutionName != "" {
		if line != "" {
			line += " - "
		}
		line += edu.InstitutionName
	}
	if edu.EndDate != "" {
		line += " (" + edu.EndDate + ")"
	}
	return line
}

func formatContact(contact types.ParsedContact) string {
	parts := make([]string, 0, 3)
	if contact.Email != "" {
		parts = append(parts, contact.Email)
	}
	if contact.Phone != "" {
		parts = append(parts, contact.Phone)
	}
	location := contact.LocationCity
	if contact.LocationCountry != "" {
		if location != "" {
			location += ", "
		}
		location += contact.LocationCountry
	}
	if location != "" {
		parts = append(parts, location)
	}
	return strings.Join(parts, " | ")
}
