// Package search implements the rule-based career assistant: intent
// analysis of natural language queries, search query generation with
// job board links, result aggregation across queries and clarification
// questions for vague requests.
package search

import (
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/ybennani/career-match/internal/jobs"
	"github.com/ybennani/career-match/internal/types"
)

// tokenPattern splits lowercased messages into words, accents included.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// villePattern captures the city in phrasings like "à casablanca".
var villePattern = regexp.MustCompile(`à ([\p{L}\p{N}_]+)`)

// intentPatterns map user intents to the phrasings that signal them.
// Order fixes the order intents are reported in.
var intentPatterns = []struct {
	intent   string
	patterns []*regexp.Regexp
}{
	{"stage", compilePatterns(`stage`, `stagi`, `intern`, `alternance`, `apprentissage`)},
	{"debutant", compilePatterns(`débutant`, `junior`, `premier emploi`, `sans expérience`)},
	{"remote", compilePatterns(`remote`, `télétravail`, `à distance`, `teletravail`)},
	{"ville", compilePatterns(`à ([\p{L}\p{N}_]+)`, `sur ([\p{L}\p{N}_]+)`, `casablanca`, `rabat`, `marrakech`, `tanger`)},
	{"competences", compilePatterns(`compétence en ([\p{L}\p{N}_]+)`, `savoir ([\p{L}\p{N}_]+)`, `connaissance en ([\p{L}\p{N}_]+)`)},
}

// intentMapping translates detected intents into search query fragments.
var intentMapping = map[string]string{
	"stage":    "stage alternance",
	"debutant": "junior débutant",
	"remote":   "remote télétravail",
	"ville":    "",
}

// competenceKeywords are the profession words scanned for in messages.
var competenceKeywords = []string{
	"développeur", "web", "mobile", "data", "marketing", "design", "comptable", "infirmier",
}

var (
	vagueMarkers = map[string]bool{
		"help": true, "aide": true, "projet": true, "project": true, "issue": true,
		"problème": true, "error": true, "besoin": true, "conseil": true,
	}
	skillMarkers = map[string]bool{
		"developpeur": true, "developer": true, "data": true, "analyste": true,
		"designer": true, "marketing": true, "devops": true, "backend": true, "frontend": true,
	}
)

// clarificationVariants are rotated through by message hash so repeated
// vague queries do not always get the same question.
var clarificationVariants = []string{
	"Juste pour mieux cibler, quel métier ou domaine tu vises ?",
	"Tu pensais à quel rôle exactement (ex: backend, data, design) ?",
	"Dis-m'en un peu plus : quel type de poste veux-tu que je cherche ?",
	"Super ! Quelle famille de métiers t'intéresse (tech, marketing, ops) ?",
	"Top, vers quel job devrais-je orienter la recherche ?",
}

const (
	maxGeneratedQueries = 8
	minGeneratedQueries = 5
	highMatchThreshold  = 0.7
)

func compilePatterns(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, pattern := range patterns {
		compiled[i] = regexp.MustCompile(pattern)
	}
	return compiled
}

// QueryAnalysis is the assistant's reading of one user message.
type QueryAnalysis struct {
	OriginalMessage string   `json:"original_message"`
	Intentions      []string `json:"intentions"`
	Competences     []string `json:"competences"`
	Lieu            string   `json:"lieu,omitempty"`
	TypeContrat     string   `json:"type_contrat"`
	ExperienceLevel string   `json:"experience_level,omitempty"`
	SearchQuery     string   `json:"search_query"`
	FallbackQueries []string `json:"fallback_queries"`
}

// SearchQuery is one generated search with its job board links.
type SearchQuery struct {
	Query      string `json:"query"`
	GoogleLink string `json:"google_link"`
	IndeedLink string `json:"indeed_link"`
}

// ResponseSummary condenses the search outcome.
type ResponseSummary struct {
	TotalMatches       int      `json:"total_matches"`
	HighQualityMatches int      `json:"high_quality_matches"`
	DetectedSkills     []string `json:"detected_skills"`
	DetectedIntentions []string `json:"detected_intentions"`
}

// Response is the assistant's answer with analysis, jobs and suggestions.
type Response struct {
	Analysis        QueryAnalysis     `json:"analysis"`
	Summary         ResponseSummary   `json:"summary"`
	SearchQueryUsed string            `json:"search_query_used"`
	Jobs            []types.JobResult `json:"jobs"`
	Suggestions     []string          `json:"suggestions"`
}

// Assistant turns natural language career questions into job searches
// using keyword and pattern rules, no model calls involved.
type Assistant struct{}

// NewAssistant returns the rule-based assistant.
func NewAssistant() *Assistant {
	return &Assistant{}
}

// AnalyzeQuery extracts intentions, skills, location and a search query
// from a user message.
func (a *Assistant) AnalyzeQuery(message string) QueryAnalysis {
	lower := strings.ToLower(message)

	analysis := QueryAnalysis{
		OriginalMessage: lower,
		Intentions:      []string{},
		Competences:     []string{},
		TypeContrat:     "CDI",
		FallbackQueries: []string{},
	}

	for _, group := range intentPatterns {
		for _, pattern := range group.patterns {
			if pattern.MatchString(lower) {
				analysis.Intentions = append(analysis.Intentions, group.intent)
				break
			}
		}
	}

	for _, keyword := range competenceKeywords {
		if strings.Contains(lower, keyword) {
			analysis.Competences = append(analysis.Competences, keyword)
		}
	}

	if m := villePattern.FindStringSubmatch(lower); m != nil {
		analysis.Lieu = m[1]
	}

	if analysis.Lieu != "" {
		analysis.FallbackQueries = append(analysis.FallbackQueries, fmt.Sprintf("%s %s", lower, analysis.Lieu))
	}
	for _, skill := range analysis.Competences {
		analysis.FallbackQueries = append(analysis.FallbackQueries, fmt.Sprintf("%s emploi maroc", skill))
	}

	var queryParts []string
	queryParts = append(queryParts, analysis.Competences...)
	for _, intent := range analysis.Intentions {
		if mapped := intentMapping[intent]; mapped != "" {
			queryParts = append(queryParts, mapped)
		}
	}
	if len(queryParts) > 0 {
		analysis.SearchQuery = strings.Join(queryParts, " ")
	} else {
		analysis.SearchQuery = lower
	}

	return analysis
}

// IsAmbiguous reports whether a message is too vague to search directly:
// very short, carrying vague markers or naming no profession at all.
func (a *Assistant) IsAmbiguous(message string) bool {
	tokens := tokenPattern.FindAllString(strings.ToLower(message), -1)
	if len(tokens) < 4 {
		return true
	}
	for _, token := range tokens {
		if vagueMarkers[token] {
			return true
		}
	}
	for _, token := range tokens {
		if skillMarkers[token] {
			return false
		}
	}
	return true
}

// GenerateSearchQueries builds between five and eight distinct search
// queries for a message, each with Google and Indeed links.
func (a *Assistant) GenerateSearchQueries(message string) []SearchQuery {
	analysis := a.AnalyzeQuery(message)
	base := analysis.SearchQuery
	if base == "" {
		base = message
	}

	var queries []SearchQuery
	seen := make(map[string]bool)
	add := func(query string) {
		query = strings.TrimSpace(query)
		if query == "" || seen[query] {
			return
		}
		seen[query] = true
		queries = append(queries, a.withLinks(query, analysis.Lieu))
	}

	add(base)
	add(message)

	tokens := make(map[string]bool)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(message), -1) {
		tokens[token] = true
	}
	if tokens["python"] && tokens["backend"] {
		add("developpeur backend python maroc")
		add("python backend developer maroc")
		add(fmt.Sprintf("%s python backend", base))
	}

	if analysis.Lieu != "" {
		add(fmt.Sprintf("%s %s", base, analysis.Lieu))
	}
	if containsString(analysis.Intentions, "remote") {
		add(fmt.Sprintf("%s télétravail", base))
	}
	for _, skill := range analysis.Competences {
		lieu := analysis.Lieu
		if lieu == "" {
			lieu = "maroc"
		}
		add(fmt.Sprintf("offre %s %s", skill, lieu))
		add(fmt.Sprintf("%s junior emploi", skill))
	}

	add(fmt.Sprintf("%s recrutement maroc", base))
	add(fmt.Sprintf("poste %s 2025", base))
	add(fmt.Sprintf("emploi %s casablanca", base))

	extras := []string{
		fmt.Sprintf("%s salaire", base),
		fmt.Sprintf("%s CDI", base),
		fmt.Sprintf("%s stage", base),
		fmt.Sprintf("%s offre d'emploi", base),
		fmt.Sprintf("%s opportunités", base),
	}
	for _, extra := range extras {
		if len(queries) >= minGeneratedQueries {
			break
		}
		add(extra)
	}

	if len(queries) > maxGeneratedQueries {
		queries = queries[:maxGeneratedQueries]
	}
	return queries
}

func (a *Assistant) withLinks(query, lieu string) SearchQuery {
	location := lieu
	if location == "" {
		location = "Morocco"
	}
	return SearchQuery{
		Query:      query,
		GoogleLink: jobs.GoogleJobsURL(query, location),
		IndeedLink: jobs.IndeedURL(query, location),
	}
}

// BuildJobResults runs every generated query against the matcher, keeps the
// best score per job, filters results unrelated to the primary query and
// returns the top rows enriched with search links.
func (a *Assistant) BuildJobResults(matcher *jobs.Matcher, queries []SearchQuery, topK int) []types.JobResult {
	if matcher == nil {
		return nil
	}

	type candidate struct {
		score       float64
		job         types.Job
		sourceQuery string
	}
	aggregated := make(map[int]candidate)
	for _, entry := range queries {
		for _, match := range matcher.Search(entry.Query, topK) {
			job, err := matcher.Store().Job(match.Index)
			if err != nil {
				continue
			}
			if current, ok := aggregated[job.JobID]; !ok || match.Score > current.score {
				aggregated[job.JobID] = candidate{score: match.Score, job: job, sourceQuery: entry.Query}
			}
		}
	}

	ranked := make([]candidate, 0, len(aggregated))
	for _, item := range aggregated {
		ranked = append(ranked, item)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].job.JobID < ranked[j].job.JobID
	})

	primaryQuery := ""
	if len(queries) > 0 {
		primaryQuery = queries[0].Query
	}
	primaryTokens := make(map[string]bool)
	for _, token := range tokenPattern.FindAllString(strings.ToLower(primaryQuery), -1) {
		if len(token) > 2 {
			primaryTokens[token] = true
		}
	}
	isRelevant := func(job types.Job) bool {
		title := strings.ToLower(job.JobTitle)
		skills := strings.ToLower(job.RequiredSkills)
		desc := strings.ToLower(job.Description)
		for token := range primaryTokens {
			if strings.Contains(title, token) || strings.Contains(skills, token) || strings.Contains(desc, token) {
				return true
			}
		}
		return false
	}

	var filtered []candidate
	for _, item := range ranked {
		if isRelevant(item.job) {
			filtered = append(filtered, item)
		}
	}
	// Keep the unfiltered ranking rather than returning nothing.
	if len(filtered) > 0 {
		ranked = filtered
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	results := make([]types.JobResult, 0, len(ranked))
	for _, item := range ranked {
		title := item.job.JobTitle
		if title == "" {
			title = primaryQuery
		}
		urls := jobs.SearchLinks(title, "")
		demand := item.job.DemandLevel
		if demand == "" {
			demand = "Medium"
		}
		results = append(results, types.JobResult{
			JobID:              item.job.JobID,
			JobTitle:           item.job.JobTitle,
			Category:           item.job.Category,
			Description:        item.job.Description,
			RequiredSkills:     item.job.RequiredSkills,
			RecommendedCourses: item.job.RecommendedCourses,
			AvgSalaryMAD:       item.job.AvgSalaryMAD,
			DemandLevel:        demand,
			MatchScore:         round4(item.score),
			LinkedInURL:        urls["linkedin_url"],
			SearchURLs:         urls,
			SourceQuery:        item.sourceQuery,
		})
	}
	return results
}

// BuildClarificationQuestion picks a clarification phrasing by message hash.
func (a *Assistant) BuildClarificationQuestion(message string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(message))
	return clarificationVariants[int(h.Sum32())%len(clarificationVariants)]
}

// GenerateResponse wraps search results with the query analysis, summary
// statistics and follow-up suggestions.
func (a *Assistant) GenerateResponse(message string, results []types.JobResult) Response {
	analysis := a.AnalyzeQuery(message)

	highMatches := 0
	for _, job := range results {
		if job.MatchScore > highMatchThreshold {
			highMatches++
		}
	}

	if results == nil {
		results = []types.JobResult{}
	}
	return Response{
		Analysis: analysis,
		Summary: ResponseSummary{
			TotalMatches:       len(results),
			HighQualityMatches: highMatches,
			DetectedSkills:     analysis.Competences,
			DetectedIntentions: analysis.Intentions,
		},
		SearchQueryUsed: analysis.SearchQuery,
		Jobs:            results,
		Suggestions:     a.generateSuggestions(analysis, results),
	}
}

func (a *Assistant) generateSuggestions(analysis QueryAnalysis, results []types.JobResult) []string {
	if len(results) == 0 {
		return []string{"Aucun emploi trouvé. Essayez d'élargir vos critères de recherche."}
	}

	var suggestions []string
	if len(results) < 3 {
		suggestions = append(suggestions, "Peu de résultats. Essayez avec des termes plus généraux comme 'développeur' ou 'marketing'.")
	}
	if len(analysis.Competences) > 0 {
		suggestions = append(suggestions, fmt.Sprintf("Compétences détectées: %s", strings.Join(analysis.Competences, ", ")))
	}
	if containsString(analysis.Intentions, "stage") {
		stageInTitles := false
		for _, job := range results {
			if strings.Contains(strings.ToLower(job.JobTitle), "stage") {
				stageInTitles = true
				break
			}
		}
		if !stageInTitles {
			suggestions = append(suggestions, "Pour plus de stages, visitez directement les sites des entreprises ou les plateformes spécialisées.")
		}
	}
	return suggestions
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
