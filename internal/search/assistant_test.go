package search

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ybennani/career-match/internal/jobs"
	"github.com/ybennani/career-match/internal/types"
)

func TestAnalyzeQuery_FullExtraction(t *testing.T) {
	assistant := NewAssistant()

	analysis := assistant.AnalyzeQuery("Je cherche un stage de développeur web à Casablanca")

	assert.Equal(t, "je cherche un stage de développeur web à casablanca", analysis.OriginalMessage)
	assert.Equal(t, []string{"stage", "ville"}, analysis.Intentions)
	assert.Equal(t, []string{"développeur", "web"}, analysis.Competences)
	assert.Equal(t, "casablanca", analysis.Lieu)
	assert.Equal(t, "CDI", analysis.TypeContrat)
	assert.Equal(t, "développeur web stage alternance", analysis.SearchQuery)
	assert.Equal(t, []string{
		"je cherche un stage de développeur web à casablanca casablanca",
		"développeur emploi maroc",
		"web emploi maroc",
	}, analysis.FallbackQueries)
}

func TestAnalyzeQuery_NoSignalsFallsBackToMessage(t *testing.T) {
	assistant := NewAssistant()

	analysis := assistant.AnalyzeQuery("Bonjour comment allez vous aujourdhui")

	assert.Empty(t, analysis.Intentions)
	assert.Empty(t, analysis.Competences)
	assert.Empty(t, analysis.Lieu)
	assert.Equal(t, "bonjour comment allez vous aujourdhui", analysis.SearchQuery)
	assert.Empty(t, analysis.FallbackQueries)
}

func TestAnalyzeQuery_DetectsJuniorAndRemote(t *testing.T) {
	assistant := NewAssistant()

	analysis := assistant.AnalyzeQuery("développeur junior en télétravail")

	assert.Equal(t, []string{"debutant", "remote"}, analysis.Intentions)
	assert.Equal(t, []string{"développeur"}, analysis.Competences)
	assert.Equal(t, "développeur junior débutant remote télétravail", analysis.SearchQuery)
}

func TestAnalyzeQuery_SurDetectedButNotCaptured(t *testing.T) {
	assistant := NewAssistant()

	analysis := assistant.AnalyzeQuery("emploi data sur rabat")

	// "sur X" flags the ville intent but only "à X" fills the location.
	assert.Equal(t, []string{"ville"}, analysis.Intentions)
	assert.Empty(t, analysis.Lieu)
	assert.Equal(t, []string{"data"}, analysis.Competences)
	assert.Equal(t, "data", analysis.SearchQuery)
	assert.Equal(t, []string{"data emploi maroc"}, analysis.FallbackQueries)
}

func TestIsAmbiguous_ShortMessage(t *testing.T) {
	assistant := NewAssistant()

	assert.True(t, assistant.IsAmbiguous("aide"))
	assert.True(t, assistant.IsAmbiguous("un travail svp"))
}

func TestIsAmbiguous_VagueMarkerWinsOverSkill(t *testing.T) {
	assistant := NewAssistant()

	assert.True(t, assistant.IsAmbiguous("j'ai besoin d'un developpeur python"))
}

func TestIsAmbiguous_NoProfessionKeyword(t *testing.T) {
	assistant := NewAssistant()

	assert.True(t, assistant.IsAmbiguous("je cherche un travail intéressant"))
}

func TestIsAmbiguous_ClearProfessionQuery(t *testing.T) {
	assistant := NewAssistant()

	assert.False(t, assistant.IsAmbiguous("je cherche un poste de developpeur backend"))
	assert.False(t, assistant.IsAmbiguous("data analyste expérimenté disponible maintenant"))
}

func TestGenerateSearchQueries_SkillOnlyMessage(t *testing.T) {
	assistant := NewAssistant()

	queries := assistant.GenerateSearchQueries("infirmier")

	require.Len(t, queries, 6)
	assert.Equal(t, "infirmier", queries[0].Query)
	assert.Equal(t, "offre infirmier maroc", queries[1].Query)
	assert.Equal(t, "infirmier junior emploi", queries[2].Query)
	assert.Equal(t, "infirmier recrutement maroc", queries[3].Query)
	assert.Equal(t, "poste infirmier 2025", queries[4].Query)
	assert.Equal(t, "emploi infirmier casablanca", queries[5].Query)
}

func TestGenerateSearchQueries_RawMessageComesSecond(t *testing.T) {
	assistant := NewAssistant()

	queries := assistant.GenerateSearchQueries("Data Casablanca")

	require.GreaterOrEqual(t, len(queries), 2)
	assert.Equal(t, "data", queries[0].Query)
	assert.Equal(t, "Data Casablanca", queries[1].Query)
}

func TestGenerateSearchQueries_PythonBackendBoost(t *testing.T) {
	assistant := NewAssistant()

	queries := assistant.GenerateSearchQueries("développeur python backend à casablanca")

	require.Len(t, queries, 8)
	texts := make([]string, 0, len(queries))
	for _, q := range queries {
		texts = append(texts, q.Query)
	}
	assert.Contains(t, texts, "developpeur backend python maroc")
	assert.Contains(t, texts, "python backend developer maroc")
	assert.Contains(t, texts, "développeur python backend")
}

func TestGenerateSearchQueries_NoDuplicates(t *testing.T) {
	assistant := NewAssistant()

	queries := assistant.GenerateSearchQueries("développeur python backend à casablanca")

	seen := make(map[string]bool)
	for _, q := range queries {
		assert.False(t, seen[q.Query], "duplicate query %q", q.Query)
		seen[q.Query] = true
	}
}

func TestGenerateSearchQueries_LinksUseDetectedCity(t *testing.T) {
	assistant := NewAssistant()

	queries := assistant.GenerateSearchQueries("développeur web à rabat")

	require.NotEmpty(t, queries)
	assert.Contains(t, queries[0].GoogleLink, "rabat")
	assert.Contains(t, queries[0].IndeedLink, "l=rabat")
}

func TestGenerateSearchQueries_LinksDefaultToMorocco(t *testing.T) {
	assistant := NewAssistant()

	queries := assistant.GenerateSearchQueries("infirmier")

	require.NotEmpty(t, queries)
	assert.Contains(t, queries[0].GoogleLink, "Morocco")
	assert.Contains(t, queries[0].IndeedLink, "l=Morocco")
}

func TestBuildJobResults_NilMatcher(t *testing.T) {
	assistant := NewAssistant()

	assert.Nil(t, assistant.BuildJobResults(nil, []SearchQuery{{Query: "python"}}, 5))
}

func TestBuildJobResults_RanksAndEnriches(t *testing.T) {
	assistant := NewAssistant()
	matcher := newTestMatcher(t)

	results := assistant.BuildJobResults(matcher, []SearchQuery{{Query: "développeur python"}}, 5)

	require.NotEmpty(t, results)
	assert.LessOrEqual(t, len(results), 5)
	assert.Contains(t, results[0].JobTitle, "Python")
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].MatchScore, results[i].MatchScore)
	}
	for _, result := range results {
		assert.Equal(t, "développeur python", result.SourceQuery)
		assert.NotEmpty(t, result.DemandLevel)
		assert.Len(t, result.SearchURLs, 5)
		assert.Equal(t, result.SearchURLs["linkedin_url"], result.LinkedInURL)
		assert.InDelta(t, result.MatchScore, math.Round(result.MatchScore*10000)/10000, 1e-12)
	}
}

func TestBuildJobResults_AggregatesBestScorePerJob(t *testing.T) {
	assistant := NewAssistant()
	matcher := newTestMatcher(t)
	queries := []SearchQuery{{Query: "python développeur"}, {Query: "développeur python backend"}}

	results := assistant.BuildJobResults(matcher, queries, 10)

	require.NotEmpty(t, results)
	seen := make(map[int]bool)
	for _, result := range results {
		assert.False(t, seen[result.JobID], "job %d returned twice", result.JobID)
		seen[result.JobID] = true
	}
}

func TestBuildJobResults_KeepsRankingWhenFilterRemovesEverything(t *testing.T) {
	assistant := NewAssistant()
	matcher := newTestMatcher(t)
	queries := []SearchQuery{{Query: "zzzintrouvable"}, {Query: "python"}}

	results := assistant.BuildJobResults(matcher, queries, 5)

	// The primary query matches no job text, so the relevance filter
	// drops every candidate and the raw ranking is kept instead.
	require.NotEmpty(t, results)
	for _, result := range results {
		assert.Equal(t, "python", result.SourceQuery)
	}
}

func TestBuildJobResults_RespectsTopK(t *testing.T) {
	assistant := NewAssistant()
	matcher := newTestMatcher(t)

	results := assistant.BuildJobResults(matcher, []SearchQuery{{Query: "développeur"}}, 3)

	assert.LessOrEqual(t, len(results), 3)
}

func TestBuildClarificationQuestion_DeterministicVariant(t *testing.T) {
	assistant := NewAssistant()

	first := assistant.BuildClarificationQuestion("je cherche quelque chose")
	second := assistant.BuildClarificationQuestion("je cherche quelque chose")

	assert.Equal(t, first, second)
	assert.Contains(t, clarificationVariants, first)
}

func TestGenerateResponse_NoResults(t *testing.T) {
	assistant := NewAssistant()

	response := assistant.GenerateResponse("développeur mobile", nil)

	assert.NotNil(t, response.Jobs)
	assert.Empty(t, response.Jobs)
	assert.Zero(t, response.Summary.TotalMatches)
	assert.Equal(t, []string{"Aucun emploi trouvé. Essayez d'élargir vos critères de recherche."}, response.Suggestions)
}

func TestGenerateResponse_SummaryAndSuggestions(t *testing.T) {
	assistant := NewAssistant()
	results := []types.JobResult{
		{JobID: 1, JobTitle: "Développeur Python", MatchScore: 0.85},
		{JobID: 2, JobTitle: "Data Analyst", MatchScore: 0.42},
	}

	response := assistant.GenerateResponse("je cherche un stage de développeur", results)

	assert.Equal(t, 2, response.Summary.TotalMatches)
	assert.Equal(t, 1, response.Summary.HighQualityMatches)
	assert.Equal(t, []string{"développeur"}, response.Summary.DetectedSkills)
	assert.Equal(t, []string{"stage"}, response.Summary.DetectedIntentions)
	assert.Equal(t, "développeur stage alternance", response.SearchQueryUsed)
	assert.Equal(t, []string{
		"Peu de résultats. Essayez avec des termes plus généraux comme 'développeur' ou 'marketing'.",
		"Compétences détectées: développeur",
		"Pour plus de stages, visitez directement les sites des entreprises ou les plateformes spécialisées.",
	}, response.Suggestions)
}

func TestGenerateResponse_NoStageSuggestionWhenTitlesHaveStage(t *testing.T) {
	assistant := NewAssistant()
	results := []types.JobResult{
		{JobID: 1, JobTitle: "Stage Développeur Web", MatchScore: 0.6},
	}

	response := assistant.GenerateResponse("je cherche un stage de développeur", results)

	assert.NotContains(t, response.Suggestions,
		"Pour plus de stages, visitez directement les sites des entreprises ou les plateformes spécialisées.")
}

func TestGenerateResponse_ManyResultsSkipBroadeningTip(t *testing.T) {
	assistant := NewAssistant()
	results := []types.JobResult{
		{JobID: 1, JobTitle: "Développeur Python", MatchScore: 0.9},
		{JobID: 2, JobTitle: "Développeur Java", MatchScore: 0.8},
		{JobID: 3, JobTitle: "Développeur Mobile", MatchScore: 0.7},
	}

	response := assistant.GenerateResponse("développeur confirmé disponible immédiatement", results)

	assert.NotContains(t, response.Suggestions,
		"Peu de résultats. Essayez avec des termes plus généraux comme 'développeur' ou 'marketing'.")
}

func newTestMatcher(t *testing.T) *jobs.Matcher {
	t.Helper()
	store, err := jobs.NewStore()
	require.NoError(t, err)
	matcher, err := jobs.NewMatcher(store)
	require.NoError(t, err)
	return matcher
}
