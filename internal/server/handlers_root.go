package server

import "net/http"

// handleRoot returns the service descriptor with the endpoint directory.
func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message":     " Career-Match Backend API",
		"version":     "1.0.0",
		"description": "Smart job matching engine for Moroccan job market",
		"endpoints": map[string]string{
			"all_jobs":         "GET /jobs/all",
			"search_jobs":      "GET /jobs/search?query=your_query&top_k=5",
			"job_search_link":  "GET /jobs/search-link?job_title=your_title",
			"categories":       "GET /jobs/categories",
			"jobs_by_category": "GET /jobs/category/{category_name}",
			"health":           "GET /jobs/health",
		},
	})
}

// handleInfo describes the matching engine.
func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"name":    "Career-Match Backend",
		"version": "1.0.0",
		"features": []string{
			"TF-IDF based job matching",
			"Cosine similarity scoring",
			"Moroccan job market focus",
			"Multiple job search platforms integration",
			"RESTful API with per-client rate limiting",
		},
		"matching_algorithm": map[string]any{
			"technique": "TF-IDF + Cosine Similarity",
			"weighted_features": map[string]int{
				"job_title":       3,
				"required_skills": 2,
				"description":     1,
			},
			"preprocessing": "lowercasing, punctuation removal, stop words removal",
		},
	})
}
