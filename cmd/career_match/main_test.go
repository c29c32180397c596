package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDatasetCSV = `job_id,job_title,category,description,required_skills,recommended_courses,avg_salary_mad,demand_level
1,Développeur Web,Tech,Développement d'applications web,"HTML, CSS, JavaScript",OpenClassrooms HTML,8000-12000,High
2,Data Analyst,Tech,Analyse et reporting,"Python, SQL, Excel",Coursera Data,10000-15000,High
`

func TestLoadStore_Embedded(t *testing.T) {
	store, err := loadStore("")
	require.NoError(t, err)
	assert.Greater(t, store.Len(), 0)
}

func TestLoadStore_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(path, []byte(testDatasetCSV), 0644))

	store, err := loadStore(path)
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())
}

func TestLoadStore_MissingFile(t *testing.T) {
	_, err := loadStore(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open job dataset")
}

func TestRunSearch_TopKOutOfRange(t *testing.T) {
	searchQuery = "data"
	searchTopK = 0
	searchJobsCSV = ""
	searchVerbose = false

	err := runSearch(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top-k must be between 1 and 20")
}

func TestRunCourses_MaxOutOfRange(t *testing.T) {
	coursesSkill = "python"
	coursesMax = 21

	err := runCourses(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max must be between 1 and 20")
}

func TestRunAnalyze_WritesReport(t *testing.T) {
	dir := t.TempDir()
	cvPath := filepath.Join(dir, "cv.txt")
	jobPath := filepath.Join(dir, "job.txt")
	outPath := filepath.Join(dir, "report.json")

	cv := "Développeur Python avec de l'expérience en Django, SQL et Git sur des projets web."
	job := "Nous cherchons un développeur Python maîtrisant Django, SQL et Docker."
	require.NoError(t, os.WriteFile(cvPath, []byte(cv), 0644))
	require.NoError(t, os.WriteFile(jobPath, []byte(job), 0644))

	analyzeCVFile = cvPath
	analyzeJobFile = jobPath
	analyzeOutputFile = outPath

	require.NoError(t, runAnalyze(nil, nil))

	report, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "match_score")
	assert.Contains(t, string(report), "python")
}

func TestRunAnalyze_MissingCV(t *testing.T) {
	analyzeCVFile = filepath.Join(t.TempDir(), "missing.txt")
	analyzeJobFile = ""
	analyzeOutputFile = ""

	err := runAnalyze(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read CV file")
}

func TestRunRender_WritesLaTeX(t *testing.T) {
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "profile.json")
	texPath := filepath.Join(dir, "resume.tex")

	profile := `{"name": "Sara Alami", "title": "Data Analyst", "skills": ["Python", "SQL"]}`
	require.NoError(t, os.WriteFile(profilePath, []byte(profile), 0644))

	renderInputFile = profilePath
	renderOutputFile = texPath
	renderPDFFile = ""
	renderTemplateFile = ""
	renderVerbose = false

	require.NoError(t, runRender(nil, nil))

	source, err := os.ReadFile(texPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(source), `\documentclass`))
	assert.Contains(t, string(source), "Sara Alami")
}
