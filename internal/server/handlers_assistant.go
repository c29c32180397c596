package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/ybennani/career-match/internal/jobs"
	"github.com/ybennani/career-match/internal/search"
	"github.com/ybennani/career-match/internal/types"
)

// assistantDebug exposes which queries the cascade tried and how many
// candidates they surfaced before the final cut.
type assistantDebug struct {
	TriedQueries         []string `json:"tried_queries"`
	TotalCandidatesFound int      `json:"total_candidates_found"`
	ReturnedJobs         int      `json:"returned_jobs"`
}

// assistantResponse is the assistant answer with cascade debug metadata.
type assistantResponse struct {
	search.Response
	DebugInfo assistantDebug `json:"debug_info"`
}

// coachLinkSet pairs a job title with the boards the coach points to.
type coachLinkSet struct {
	JobTitle      string `json:"job_title"`
	StagiairesURL string `json:"stagiaires_url"`
	RekruteURL    string `json:"rekrute_url"`
}

// cascadeSearch widens the query until enough candidates are found: the
// analyzed query first, then the analyzer fallbacks when results are thin,
// then generic tech terms when there are none at all, and finally the raw
// message to top up to eight rows. The returned count is the number of
// candidates before the top-up, for debug reporting.
func (s *Server) cascadeSearch(message string) ([]types.JobResult, []string, int, error) {
	if s.matcher == nil {
		return nil, nil, 0, errors.New("job matcher not initialized")
	}

	analysis := s.assistant.AnalyzeQuery(message)
	mainQuery := analysis.SearchQuery
	if mainQuery == "" {
		mainQuery = message
	}

	tried := []string{mainQuery}
	all := s.matcher.Search(mainQuery, 10)

	if len(all) < 5 && len(analysis.FallbackQueries) > 0 {
		seen := matchIndexSet(all)
		fallbacks := analysis.FallbackQueries
		if len(fallbacks) > 3 {
			fallbacks = fallbacks[:3]
		}
		for _, q := range fallbacks {
			tried = append(tried, q)
			for _, m := range s.matcher.Search(q, 5) {
				if seen[m.Index] {
					continue
				}
				seen[m.Index] = true
				all = append(all, m)
			}
		}
	}

	if len(all) == 0 {
		for _, q := range []string{"technologie", "informatique", "digital"} {
			tried = append(tried, q)
			found := s.matcher.Search(q, 3)
			all = append(all, found...)
			if len(found) > 0 {
				break
			}
		}
	}

	sortMatches(all)
	totalCandidates := len(all)

	const minResults = 8
	if len(all) < minResults {
		seen := matchIndexSet(all)
		for _, m := range s.matcher.Search(message, minResults*2) {
			if len(all) >= minResults {
				break
			}
			if seen[m.Index] {
				continue
			}
			seen[m.Index] = true
			all = append(all, m)
		}
		sortMatches(all)
	}

	results := make([]types.JobResult, 0, len(all))
	for _, match := range all {
		job, err := s.matcher.Store().Job(match.Index)
		if err != nil {
			continue
		}

		linkTitle := job.JobTitle
		if linkTitle == "" {
			linkTitle = mainQuery
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
			StagiairesURL:      urls["linkedin_url"],
		})
	}

	return results, tried, totalCandidates, nil
}

// matchIndexSet records which dataset rows a match list already covers.
func matchIndexSet(matches []jobs.Match) map[int]bool {
	seen := make(map[int]bool, len(matches))
	for _, m := range matches {
		seen[m.Index] = true
	}
	return seen
}

func sortMatches(matches []jobs.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
}

func topJobs(results []types.JobResult, n int) []types.JobResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}

// coachLinks builds the per-job link entries a coach response carries.
// Rows without a title are skipped.
func coachLinks(results []types.JobResult) []coachLinkSet {
	links := make([]coachLinkSet, 0, len(results))
	for _, jr := range results {
		if jr.JobTitle == "" {
			continue
		}
		links = append(links, coachLinkSet{
			JobTitle:      jr.JobTitle,
			StagiairesURL: jr.StagiairesURL,
			RekruteURL:    jr.SearchURLs["rekrute_url"],
		})
	}
	return links
}

// questionList keeps clarification questions encodable as a JSON array.
func questionList(qs []string) []string {
	if qs == nil {
		return []string{}
	}
	return qs
}

// handleAssistant answers a natural language message with the cascade
// search results and the rule-based assistant's analysis. The message
// comes from the query string or a JSON body.
func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if s.matcher == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Job matcher not initialized")
		return
	}

	message := strings.TrimSpace(r.URL.Query().Get("message"))
	if message == "" {
		var req types.AssistantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Validate() == nil {
			message = strings.TrimSpace(req.Message)
		}
	}
	if message == "" {
		s.errorResponse(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	results, tried, totalCandidates, err := s.cascadeSearch(message)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Assistant error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, assistantResponse{
		Response: s.assistant.GenerateResponse(message, results),
		DebugInfo: assistantDebug{
			TriedQueries:         tried,
			TotalCandidatesFound: totalCandidates,
			ReturnedJobs:         len(results),
		},
	})
}

// handleSmartAssistant is the coach flow: pure coaching intents answer
// directly, search intents run the cascade and wrap the results in a
// coach reply with external links.
func (s *Server) handleSmartAssistant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	message := strings.TrimSpace(r.URL.Query().Get("message"))
	clarification := r.URL.Query().Get("clarification")
	if message == "" {
		var req types.CoachRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Validate() == nil {
			message = strings.TrimSpace(req.Message)
		}
	}
	if message == "" {
		s.errorResponse(w, http.StatusBadRequest, "Message cannot be empty")
		return
	}

	// A clarification answer means the user already picked a direction,
	// so search the combined query before any further coaching.
	if clarification != "" {
		combined := strings.TrimSpace(message + " " + clarification)
		results, _, _, err := s.cascadeSearch(combined)
		if err == nil {
			var reply string
			if len(results) > 0 {
				reply = s.coach.RespondWithJobsContext(ctx, "L'utilisateur cherche: "+combined, topJobs(results, 5))
			} else {
				reply = s.coach.Thinking(ctx, "L'utilisateur cherche: "+combined).Response
				if reply == "" {
					reply = "Je vais vous aider à trouver les meilleures opportunités."
				}
			}
			s.jsonResponse(w, http.StatusOK, map[string]any{
				"assistant_response":  reply,
				"coaching_advice":     "",
				"intent":              "search",
				"search_query_used":   combined,
				"total_matches":       len(results),
				"jobs":                results,
				"search_urls":         coachLinks(results),
				"needs_clarification": false,
				"is_coaching":         true,
			})
			return
		}
		log.Printf("Smart assistant clarification search failed: %v", err)
	}

	coachResult := s.coach.Thinking(ctx, message)
	intent := coachResult.Intent

	switch intent {
	case "orientation", "comparison", "guidance", "coaching":
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"assistant_response":      coachResult.Response,
			"coaching_advice":         "",
			"needs_clarification":     coachResult.NeedsClarification,
			"clarification_questions": questionList(coachResult.NextQuestions),
			"intent":                  intent,
			"is_coaching":             true,
			"jobs":                    []types.JobResult{},
			"search_urls":             []coachLinkSet{},
		})
		return
	}

	if coachResult.NeedsClarification {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"assistant_response":      coachResult.Response,
			"needs_clarification":     true,
			"clarification_questions": questionList(coachResult.NextQuestions),
			"intent":                  intent,
			"is_coaching":             true,
			"jobs":                    []types.JobResult{},
			"search_urls":             []coachLinkSet{},
		})
		return
	}

	results, _, _, err := s.cascadeSearch(message)
	if err != nil {
		log.Printf("Smart assistant search failed: %v", err)
		fallback := s.coach.FallbackResponse(message)
		reply := fallback.Response
		if reply == "" {
			reply = "Désolé, une erreur est survenue. Laissez-moi vous aider autrement."
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"error":                   err.Error(),
			"assistant_response":      reply,
			"needs_clarification":     fallback.NeedsClarification,
			"clarification_questions": questionList(fallback.NextQuestions),
			"is_coaching":             true,
			"jobs":                    []types.JobResult{},
			"search_urls":             []coachLinkSet{},
		})
		return
	}

	reply := coachResult.Response
	if len(results) > 0 {
		reply = s.coach.RespondWithJobsContext(ctx, message, topJobs(results, 5))
	} else if reply == "" {
		reply = "D'après mon analyse du marché, voici ce que je peux vous conseiller..."
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"assistant_response":  reply,
		"coaching_advice":     "",
		"intent":              intent,
		"search_query_used":   message,
		"total_matches":       len(results),
		"jobs":                results,
		"search_urls":         coachLinks(results),
		"needs_clarification": false,
		"is_coaching":         true,
	})
}
