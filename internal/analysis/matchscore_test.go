package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreMatch_ComputesBlendedScore(t *testing.T) {
	cvText := "Senior Python developer with SQL and Docker experience over the years."
	jobDescription := "Looking for a senior Python developer. SQL required, Docker appreciated."

	result, err := ScoreMatch(cvText, jobDescription, nil)

	require.NoError(t, err)
	assert.Greater(t, result.Score, 30.0)
	assert.LessOrEqual(t, result.Score, 100.0)
	assert.Equal(t, []string{"python", "sql", "docker"}, result.CVKeywords)
	assert.Equal(t, result.JobKeywords, result.MatchedSkills)
	assert.Empty(t, result.MissingSkills)
	assert.Equal(t, "100%", result.Coverage)
	assert.InDelta(t, 100.0, result.CoveragePercentage, 0.01)
}

func TestScoreMatch_ReportsMissingSkills(t *testing.T) {
	result, err := ScoreMatch(
		"Développeur Python avec 3 ans d'expérience.",
		"Python, React et SQL demandés.",
		nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"react", "sql"}, result.MissingSkills)
	assert.Equal(t, "33.3%", result.Coverage)
	assert.InDelta(t, 33.3, result.CoveragePercentage, 0.01)
}

func TestScoreMatch_UsesProvidedSkills(t *testing.T) {
	result, err := ScoreMatch(
		"Profil avec Python, SQL et Docker.",
		"Python demandé.",
		[]string{"python"})

	require.NoError(t, err)
	assert.Equal(t, []string{"python"}, result.CVKeywords)
}

func TestScoreMatch_EachCVSkillSatisfiesOneJobSkill(t *testing.T) {
	result, err := ScoreMatch(
		"Profil node",
		"Stack node.js et express.",
		[]string{"node"})

	require.NoError(t, err)
	assert.Equal(t, []string{"node.js"}, result.MatchedSkills)
	assert.Equal(t, []string{"express"}, result.MissingSkills)
}

func TestScoreMatch_MatchesSynonyms(t *testing.T) {
	result, err := ScoreMatch(
		"Orchestration k8s en production.",
		"Kubernetes requis.",
		[]string{"k8s"})

	require.NoError(t, err)
	assert.Equal(t, []string{"kubernetes"}, result.MatchedSkills)
	assert.Equal(t, "100%", result.Coverage)
}

func TestScoreMatch_CapsKeywordLists(t *testing.T) {
	cvSkills := make([]string, 35)
	for i := range cvSkills {
		cvSkills[i] = fmt.Sprintf("competence%d", i)
	}

	result, err := ScoreMatch("Profil généraliste.", "Python demandé.", cvSkills)

	require.NoError(t, err)
	assert.Len(t, result.CVKeywords, maxKeywords)
}

func TestScoreMatch_ErrorOnEmptyVocabulary(t *testing.T) {
	result, err := ScoreMatch("a b c", "d e f", nil)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestExperienceScore(t *testing.T) {
	assert.InDelta(t, 0.8, experienceScore("Senior lead manager with experience"), 0.001)
	assert.InDelta(t, 1.0, experienceScore("senior junior lead manager intern stage"), 0.001)
	assert.Zero(t, experienceScore("rien de particulier"))
}
