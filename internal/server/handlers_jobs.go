package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/ybennani/career-match/internal/jobs"
	"github.com/ybennani/career-match/internal/types"
)

// jobSearchResponse is the response for /jobs/search.
type jobSearchResponse struct {
	Query   string           `json:"query"`
	TopK    int              `json:"top_k"`
	Results []types.JobMatch `json:"results"`
}

// searchLinkResponse is the response for /jobs/search-link.
type searchLinkResponse struct {
	JobTitle         string `json:"job_title"`
	LinkedInURL      string `json:"linkedin_url"`
	IndeedURL        string `json:"indeed_url"`
	GoogleURL        string `json:"google_url"`
	MarocAnnoncesURL string `json:"marocannonces_url"`
	RekruteURL       string `json:"rekrute_url"`
}

// jobDisplayDefaults fills display values for dataset rows with empty
// fields. Each route keeps the defaults its original response exposed.
type jobDisplayDefaults struct {
	category    string
	description string
	skills      string
	courses     string
	salary      string
	demand      string
}

// applyJobDefaults replaces zero values on a job row with route defaults.
// The title default is positional so empty rows stay distinguishable.
func applyJobDefaults(job *types.Job, index int, d jobDisplayDefaults) {
	if job.JobID == 0 {
		job.JobID = index + 1
	}
	if job.JobTitle == "" {
		job.JobTitle = fmt.Sprintf("Poste %d", index+1)
	}
	if job.Category == "" {
		job.Category = d.category
	}
	if job.Description == "" {
		job.Description = d.description
	}
	if job.RequiredSkills == "" {
		job.RequiredSkills = d.skills
	}
	if job.RecommendedCourses == "" {
		job.RecommendedCourses = d.courses
	}
	if job.AvgSalaryMAD == "" {
		job.AvgSalaryMAD = d.salary
	}
	if job.DemandLevel == "" {
		job.DemandLevel = d.demand
	}
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}

// truncateRunes shortens s to at most limit runes.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// handleAllJobs returns every job in the dataset without display defaults.
func (s *Server) handleAllJobs(w http.ResponseWriter, _ *http.Request) {
	if s.matcher == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Job matcher not initialized")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.matcher.Store().Jobs())
}

// handleJobsSearch ranks jobs against the query.
func (s *Server) handleJobsSearch(w http.ResponseWriter, r *http.Request) {
	if s.matcher == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Job matcher not initialized")
		return
	}

	query := r.URL.Query().Get("query")
	if strings.TrimSpace(query) == "" {
		s.errorResponse(w, http.StatusBadRequest, "Query cannot be empty")
		return
	}

	topK := 5
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			s.errorResponse(w, http.StatusBadRequest, "top_k must be an integer between 1 and 20")
			return
		}
		topK = parsed
	}

	matches := s.matcher.Search(query, topK)
	results := make([]types.JobMatch, 0, len(matches))
	for _, match := range matches {
		job, err := s.matcher.Store().Job(match.Index)
		if err != nil {
			continue
		}

		// The link falls back to the query, not the positional title.
		linkTitle := job.JobTitle
		if linkTitle == "" {
			linkTitle = query
		}

		applyJobDefaults(&job, match.Index, jobDisplayDefaults{
			category:    "Général",
			description: "Poste correspondant à la recherche: " + query,
			skills:      "Compétences variées",
			courses:     "Formations adaptées au poste",
			salary:      "5000-10000",
			demand:      "Medium",
		})

		results = append(results, types.JobMatch{
			Job:         job,
			MatchScore:  round4(match.Score),
			LinkedInURL: jobs.LinkedInURL(linkTitle, ""),
		})
	}

	s.jsonResponse(w, http.StatusOK, jobSearchResponse{Query: query, TopK: topK, Results: results})
}

// handleJobSearchLink generates external job board links for a title.
func (s *Server) handleJobSearchLink(w http.ResponseWriter, r *http.Request) {
	jobTitle := r.URL.Query().Get("job_title")
	if strings.TrimSpace(jobTitle) == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_title is required")
		return
	}

	s.jsonResponse(w, http.StatusOK, searchLinkResponse{
		JobTitle:         jobTitle,
		LinkedInURL:      jobs.LinkedInURL(jobTitle, ""),
		IndeedURL:        jobs.IndeedURL(jobTitle, ""),
		GoogleURL:        jobs.GoogleJobsURL(jobTitle, ""),
		MarocAnnoncesURL: jobs.MarocAnnoncesURL(jobTitle),
		RekruteURL:       jobs.RekruteURL(jobTitle),
	})
}

// handleJobCategories lists the dataset categories.
func (s *Server) handleJobCategories(w http.ResponseWriter, _ *http.Request) {
	if s.matcher == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Job matcher not initialized")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"categories": s.matcher.Store().Categories()})
}

// handleJobsByCategory returns the jobs filed under one category.
func (s *Server) handleJobsByCategory(w http.ResponseWriter, r *http.Request) {
	if s.matcher == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Job matcher not initialized")
		return
	}
	category := r.PathValue("category_name")
	matched := s.matcher.Store().ByCategory(category)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"category": category,
		"jobs":     matched,
		"count":    len(matched),
	})
}

// handleJobsHealth reports dataset and matcher availability.
func (s *Server) handleJobsHealth(w http.ResponseWriter, _ *http.Request) {
	status := "unhealthy"
	jobsLoaded := 0
	if s.matcher != nil {
		status = "healthy"
		jobsLoaded = s.matcher.Store().Len()
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":              status,
		"jobs_loaded":         jobsLoaded,
		"matcher_initialized": s.matcher != nil,
	})
}

// handleJobsAssistant answers a natural language message with ranked jobs
// and the full assistant analysis.
func (s *Server) handleJobsAssistant(w http.ResponseWriter, r *http.Request) {
	if s.matcher == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Job matcher not initialized")
		return
	}

	message := r.URL.Query().Get("message")
	if strings.TrimSpace(message) == "" {
		s.errorResponse(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	analysis := s.assistant.AnalyzeQuery(message)
	searchQuery := analysis.SearchQuery
	if searchQuery == "" {
		searchQuery = message
	}

	matches := s.matcher.Search(searchQuery, 10)
	results := make([]types.JobResult, 0, len(matches))
	for _, match := range matches {
		job, err := s.matcher.Store().Job(match.Index)
		if err != nil {
			continue
		}

		linkTitle := job.JobTitle
		if linkTitle == "" {
			linkTitle = searchQuery
		}
		urls := jobs.SearchLinks(linkTitle, "")

		applyJobDefaults(&job, match.Index, jobDisplayDefaults{
			category:    "Général",
			description: "Description non disponible",
			skills:      "Compétences variées",
			salary:      "Non spécifié",
			demand:      "Medium",
		})

		results = append(results, types.JobResult{
			JobID:              job.JobID,
			JobTitle:           job.JobTitle,
			Category:           job.Category,
			Description:        job.Description,
			RequiredSkills:     job.RequiredSkills,
			RecommendedCourses: job.RecommendedCourses,
			AvgSalaryMAD:       job.AvgSalaryMAD,
			DemandLevel:        job.DemandLevel,
			MatchScore:         round4(match.Score),
			LinkedInURL:        urls["linkedin_url"],
			SearchURLs:         urls,
		})
	}

	s.jsonResponse(w, http.StatusOK, s.assistant.GenerateResponse(message, results))
}

// jobPreview is the scoreless row shape of /jobs/smart-assistant.
type jobPreview struct {
	JobTitle           string `json:"job_title"`
	Category           string `json:"category"`
	DescriptionPreview string `json:"description_preview"`
	DemandLevel        string `json:"demand_level"`
	SalaryRange        string `json:"salary_range"`
}

// jobLinkSet pairs a title with its two main external search links.
type jobLinkSet struct {
	JobTitle    string `json:"job_title"`
	LinkedInURL string `json:"linkedin_url"`
	RekruteURL  string `json:"rekrute_url"`
}

// handleJobsSmartAssistant runs the rule-based assistant flow: analyze,
// search, and answer with scoreless previews and external links.
func (s *Server) handleJobsSmartAssistant(w http.ResponseWriter, r *http.Request) {
	message := r.URL.Query().Get("message")
	clarification := r.URL.Query().Get("clarification")

	searchQuery := s.assistant.AnalyzeQuery(message).SearchQuery
	if clarification != "" {
		searchQuery = message + " " + clarification
	}

	if strings.TrimSpace(searchQuery) == "" {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"assistant_response":      "",
			"needs_clarification":     true,
			"clarification_questions": []string{"Quel domaine tech précis ?", "Quel type de poste ?"},
			"intent":                  "vague",
		})
		return
	}

	if s.matcher == nil {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"error":               "Job matcher not initialized",
			"assistant_response":  "Désolé, une erreur est survenue.",
			"needs_clarification": false,
		})
		return
	}

	matches := s.matcher.Search(searchQuery, 5)
	previews := make([]jobPreview, 0, len(matches))
	for _, match := range matches {
		job, err := s.matcher.Store().Job(match.Index)
		if err != nil {
			continue
		}

		preview := jobPreview{
			JobTitle:           job.JobTitle,
			Category:           job.Category,
			DescriptionPreview: truncateRunes(job.Description, 100) + "...",
			DemandLevel:        job.DemandLevel,
			SalaryRange:        job.AvgSalaryMAD,
		}
		if preview.JobTitle == "" {
			preview.JobTitle = "Titre inconnu"
		}
		if preview.Category == "" {
			preview.Category = "Non catégorisé"
		}
		if preview.DemandLevel == "" {
			preview.DemandLevel = "Medium"
		}
		if preview.SalaryRange == "" {
			preview.SalaryRange = "Non spécifié"
		}
		previews = append(previews, preview)
	}

	searchURLs := make([]jobLinkSet, 0, 3)
	for _, preview := range previews {
		if len(searchURLs) == 3 {
			break
		}
		searchURLs = append(searchURLs, jobLinkSet{
			JobTitle:    preview.JobTitle,
			LinkedInURL: jobs.LinkedInURL(preview.JobTitle, ""),
			RekruteURL:  jobs.RekruteURL(preview.JobTitle),
		})
	}

	responseMessage := fmt.Sprintf("J'ai trouvé %d offres correspondant à votre recherche.", len(previews))
	if len(previews) > 0 {
		titles := make([]string, 0, 3)
		for i, preview := range previews {
			if i == 3 {
				break
			}
			titles = append(titles, preview.JobTitle)
		}
		responseMessage += fmt.Sprintf(" Par exemple : %s.", strings.Join(titles, ", "))
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"assistant_response":  responseMessage,
		"intent":              "clair",
		"search_query_used":   searchQuery,
		"total_matches":       len(previews),
		"jobs":                previews,
		"search_urls":         searchURLs,
		"next_step":           "Pour une analyse détaillée de compatibilité, uploadez votre CV via /cv/analyze-upload",
		"needs_clarification": false,
	})
}
