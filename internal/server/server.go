// Package server provides the HTTP REST API for the career match backend.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ybennani/career-match/internal/compiling"
	"github.com/ybennani/career-match/internal/courses"
	"github.com/ybennani/career-match/internal/evaluation"
	"github.com/ybennani/career-match/internal/jobs"
	"github.com/ybennani/career-match/internal/llm"
	"github.com/ybennani/career-match/internal/parsing"
	"github.com/ybennani/career-match/internal/pipeline"
	"github.com/ybennani/career-match/internal/search"
	"github.com/ybennani/career-match/internal/server/ratelimit"
)

// maxUploadMemory caps the in-memory portion of multipart CV uploads.
const maxUploadMemory = 10 << 20

// courseSearcher finds live course listings for a skill.
type courseSearcher interface {
	SearchCourses(ctx context.Context, skill string, maxCourses int) []courses.Course
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	rateLimiter *ratelimit.Limiter
	llmClient   llm.Client
	matcher     *jobs.Matcher
	assistant   *search.Assistant
	coach       *search.Coach
	sessions    *search.SessionStore
	parser      parsing.Parser
	evaluator   *evaluation.Evaluator
	runner      *pipeline.Runner
	scraper     courseSearcher
}

// Config holds server configuration
type Config struct {
	Port               int
	GeminiAPIKey       string
	ResumeParserAPIKey string
	ResumeParserURL    string
	PdflatexPath       string
	LatexTimeout       time.Duration
	JobsCSV            string
}

// New creates a new server instance. A missing job dataset or Gemini key
// degrades the affected endpoints instead of failing startup, matching the
// per-feature availability the API reports on /jobs/health.
func New(cfg Config) (*Server, error) {
	s := &Server{
		assistant: search.NewAssistant(),
		sessions:  search.NewSessionStore(),
		scraper:   courses.NewScraper(),
	}

	// Initialize the job matcher
	store, err := loadStore(cfg.JobsCSV)
	if err != nil {
		log.Printf("Error initializing job matcher: %v", err)
	} else {
		matcher, err := jobs.NewMatcher(store)
		if err != nil {
			log.Printf("Error initializing job matcher: %v", err)
		} else {
			s.matcher = matcher
		}
	}

	// Initialize the Gemini client when a key is configured
	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(context.Background(), llm.DefaultGeminiConfig(), cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("Gemini client unavailable: %v", err)
		} else {
			s.llmClient = client
		}
	}
	s.coach = search.NewCoach(s.llmClient)
	s.evaluator = evaluation.NewEvaluator(s.llmClient)

	// Initialize the resume parsing backend
	if cfg.ResumeParserAPIKey != "" {
		api := parsing.NewAPIClient(cfg.ResumeParserAPIKey)
		if cfg.ResumeParserURL != "" {
			api = api.WithBaseURL(cfg.ResumeParserURL)
		}
		s.parser = api
	} else if s.llmClient != nil {
		s.parser = parsing.NewLLMParser(s.llmClient)
	}

	// Initialize the resume generation pipeline
	s.runner = pipeline.NewRunner(compiling.NewInvoker(compiling.Config{
		OverridePath: cfg.PdflatexPath,
		Timeout:      cfg.LatexTimeout,
	}))

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Setup router
	mux := http.NewServeMux()

	// Service descriptor
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /info", s.handleInfo)

	// Job matching endpoints
	mux.HandleFunc("GET /jobs/all", s.handleAllJobs)
	mux.HandleFunc("GET /jobs/search", s.handleJobsSearch)
	mux.HandleFunc("GET /jobs/categories", s.handleJobCategories)
	mux.HandleFunc("GET /jobs/category/{category_name}", s.handleJobsByCategory)
	mux.HandleFunc("GET /jobs/health", s.handleJobsHealth)

	// /jobs/{job_title}/search-link would conflict with /jobs/category/{category_name}
	// (both match /jobs/category/search-link), so the title is a query parameter.
	mux.HandleFunc("GET /jobs/search-link", s.handleJobSearchLink)

	// Rule-based assistant endpoints
	mux.HandleFunc("POST /jobs/assistant", s.handleJobsAssistant)
	mux.HandleFunc("POST /jobs/smart-assistant", s.handleJobsSmartAssistant)

	// Assistant v2 search flow with sessions
	mux.HandleFunc("POST /api/search", s.handleSearch)
	mux.HandleFunc("POST /api/clarify", s.handleClarify)
	mux.HandleFunc("GET /api/results", s.handleResults)

	// Cascade search assistant and coach
	mux.HandleFunc("POST /api/assistant", s.handleAssistant)
	mux.HandleFunc("POST /api/smart-assistant", s.handleSmartAssistant)

	// CV analysis endpoints
	mux.HandleFunc("POST /cv/analyze", s.handleCVAnalyze)
	mux.HandleFunc("GET /cv/test", s.handleCVTest)
	mux.HandleFunc("GET /cv/demo", s.handleCVDemo)
	mux.HandleFunc("GET /cv/skills", s.handleCVSkills)
	mux.HandleFunc("POST /cv/analyze-upload", s.handleCVAnalyzeUpload)
	mux.HandleFunc("POST /api/cv_analyser", s.handleCVAnalyser)

	// ATS optimizer endpoints
	mux.HandleFunc("POST /api/ats_cv", s.handleATSCV)
	mux.HandleFunc("POST /api/ats_render", s.handleATSRender)
	mux.HandleFunc("POST /api/ats_evaluate", s.handleATSEvaluate)

	// Course discovery
	mux.HandleFunc("GET /api/courses", s.handleCourses)

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for LaTeX compilation and Gemini calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// loadStore loads the job dataset from the configured CSV path, or the
// embedded dataset when no path is given.
func loadStore(csvPath string) (*jobs.Store, error) {
	if csvPath == "" {
		return jobs.NewStore()
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open jobs dataset: %w", err)
	}
	defer f.Close()
	return jobs.NewStoreFromReader(f)
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.llmClient != nil {
		if err := s.llmClient.Close(); err != nil {
			log.Printf("Error closing Gemini client: %v", err)
		}
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Extract client identifier (IP address)
		clientID := s.extractClientID(r)

		// Check rate limit
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			s.setRateLimitHeaders(w, info)
			// Return 429 Too Many Requests
			s.rateLimitResponse(w, info)
			return
		}

		// Set rate limit headers for successful requests
		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging with a per-request ID
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()[:8]
		w.Header().Set("X-Request-ID", requestID)
		log.Printf("[%s] %s %s %s", requestID, r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s %s completed in %v", requestID, r.Method, r.URL.Path, time.Since(start))
	})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	// Log rate limit hit
	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
