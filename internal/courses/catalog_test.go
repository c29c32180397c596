package courses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendations_PriorityAndSource(t *testing.T) {
	recs := Recommendations([]string{"python", "docker"})

	require.Len(t, recs, 4)
	assert.Equal(t, "python", recs[0].Skill)
	assert.Equal(t, "Python for Everybody", recs[0].CourseName)
	assert.Equal(t, "high", recs[0].Priority)
	assert.Equal(t, "curated_database", recs[0].Source)
	assert.Equal(t, "docker", recs[2].Skill)
	assert.Equal(t, "medium", recs[2].Priority)
}

func TestRecommendations_SkipsUnknownSkills(t *testing.T) {
	recs := Recommendations([]string{"cobol", "sql"})

	require.Len(t, recs, 2)
	assert.Equal(t, "sql", recs[0].Skill)
}

func TestRecommendations_CapsSkills(t *testing.T) {
	recs := Recommendations([]string{"python", "javascript", "react", "sql", "aws"})

	// Only the first four missing skills are considered.
	require.Len(t, recs, 8)
	for _, rec := range recs {
		assert.NotEqual(t, "aws", rec.Skill)
	}
}

func TestCatalogCourses_AnnotatesEntries(t *testing.T) {
	found := CatalogCourses("  Python ")

	require.Len(t, found, 2)
	assert.Equal(t, "Python for Everybody", found[0].Name)
	assert.Equal(t, "  Python ", found[0].Skill)
	assert.Equal(t, "curated_database", found[0].Source)
}

func TestCatalogCourses_UnknownSkill(t *testing.T) {
	assert.Empty(t, CatalogCourses("cobol"))
}
