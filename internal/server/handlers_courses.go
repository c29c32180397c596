package server

import (
	"net/http"
	"strconv"
	"strings"
)

// handleCourses searches the course platforms for a skill.
func (s *Server) handleCourses(w http.ResponseWriter, r *http.Request) {
	skill := strings.TrimSpace(r.URL.Query().Get("skill"))
	if skill == "" {
		s.errorResponse(w, http.StatusBadRequest, "skill is required")
		return
	}

	maxCourses := 0
	if raw := r.URL.Query().Get("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 20 {
			s.errorResponse(w, http.StatusBadRequest, "max must be an integer between 1 and 20")
			return
		}
		maxCourses = parsed
	}

	found := s.scraper.SearchCourses(r.Context(), skill, maxCourses)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"skill":   skill,
		"courses": found,
		"count":   len(found),
	})
}
