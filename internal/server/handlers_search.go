package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ybennani/career-match/internal/types"
)

// handleSearch starts a session-backed natural language search. Ambiguous
// queries get a clarification question instead of results.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if s.matcher == nil {
		s.errorResponse(w, http.StatusInternalServerError, "Job matcher not initialized")
		return
	}

	var req types.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	// The only constraint on this request is a non-blank query.
	userQuery := strings.TrimSpace(req.Query)
	if err := req.Validate(); err != nil || userQuery == "" {
		s.errorResponse(w, http.StatusBadRequest, "Query cannot be empty")
		return
	}

	if s.assistant.IsAmbiguous(userQuery) {
		question := s.assistant.BuildClarificationQuestion(userQuery)
		s.sessions.Save(req.SessionID, userQuery, question)
		s.jsonResponse(w, http.StatusOK, map[string]any{"clarify": true, "question": question})
		return
	}

	s.sessions.Save(req.SessionID, userQuery, "")
	s.jsonResponse(w, http.StatusOK, s.runSearchFlow(r.Context(), userQuery, req.SessionID))
}

// runSearchFlow executes the search pipeline and stores the payload on the
// session so /api/results can replay it.
func (s *Server) runSearchFlow(ctx context.Context, userQuery, sessionID string) map[string]any {
	queries := s.assistant.GenerateSearchQueries(userQuery)
	results := s.assistant.BuildJobResults(s.matcher, queries, 5)
	response := s.assistant.GenerateResponse(userQuery, results)

	payload := map[string]any{
		"clarify":        false,
		"search_queries": queries,
		"results":        response,
		"metadata": map[string]string{
			"source":    "assistant_v2",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}

	// When the query names a title the dataset knows, add a conversational
	// coach message on top of the structured results.
	if s.matcher != nil && (s.matcher.HasJobTitle(userQuery) || s.matcher.SemanticMatchTitle(userQuery)) {
		if message := s.coach.Thinking(ctx, userQuery).Response; message != "" {
			payload["assistant_message"] = message
		}
	}

	s.sessions.UpdateResults(sessionID, payload)
	return payload
}

// handleClarify resolves a clarification answer against the stored session.
// Without a session the answer is treated as a fresh query.
func (s *Server) handleClarify(w http.ResponseWriter, r *http.Request) {
	var req types.ClarifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	session, ok := s.sessions.Get(req.SessionID)
	if !ok {
		s.sessions.Save(req.SessionID, req.Answer, "")
		s.jsonResponse(w, http.StatusOK, s.runSearchFlow(r.Context(), req.Answer, req.SessionID))
		return
	}

	refined := strings.TrimSpace(session.OriginalQuery + " " + req.Answer)

	// A direct or semantic title match answers immediately.
	if s.matcher != nil && (s.matcher.HasJobTitle(refined) || s.matcher.SemanticMatchTitle(refined)) {
		s.jsonResponse(w, http.StatusOK, s.runSearchFlow(r.Context(), refined, req.SessionID))
		return
	}

	// Otherwise ask again with a varied question, keeping the original query.
	question := s.assistant.BuildClarificationQuestion(refined)
	s.sessions.Save(req.SessionID, session.OriginalQuery, question)
	s.jsonResponse(w, http.StatusOK, map[string]any{"clarify": true, "question": question})
}

// handleResults replays the last stored payload for a session.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	session, ok := s.sessions.Get(sessionID)
	if !ok || session.LastResults == nil {
		s.errorResponse(w, http.StatusNotFound, "No results stored for this session")
		return
	}
	s.jsonResponse(w, http.StatusOK, session.LastResults)
}
