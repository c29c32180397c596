package jobs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDatasetCSV = `job_id,job_title,category,description,required_skills,recommended_courses,avg_salary_mad,demand_level
1,Développeur Python,Informatique,"Développement backend en Python, Django et Flask.","Python, Django, SQL",Python for Everybody,10000-18000,High
2,Data Analyst,Data,"Analyse de données et tableaux de bord.","SQL, Excel, Power BI",SQL for Data Science,8000-14000,High
3,Comptable,Finance,"Tenue de la comptabilité générale.","Comptabilité, Excel",Comptabilité générale,6000-11000,Medium
4,Développeur Web,Informatique,"Développement de sites web.","JavaScript, React",The Web Developer Bootcamp,9000-16000,High
`

func TestNewStore_LoadsEmbeddedDataset(t *testing.T) {
	store, err := NewStore()

	require.NoError(t, err)
	assert.Greater(t, store.Len(), 20)

	first := store.Jobs()[0]
	assert.Equal(t, 1, first.JobID)
	assert.Equal(t, "Développeur Python", first.JobTitle)
	assert.Equal(t, "Informatique", first.Category)

	for _, job := range store.Jobs() {
		assert.NotEmpty(t, job.JobTitle)
		assert.NotEmpty(t, job.Category)
		assert.NotEmpty(t, job.Description)
		assert.NotEmpty(t, job.RequiredSkills)
	}
}

func TestNewStoreFromReader_ParsesRows(t *testing.T) {
	store, err := NewStoreFromReader(strings.NewReader(testDatasetCSV))

	require.NoError(t, err)
	require.Equal(t, 4, store.Len())

	job, err := store.Job(1)
	require.NoError(t, err)
	assert.Equal(t, 2, job.JobID)
	assert.Equal(t, "Data Analyst", job.JobTitle)
	assert.Equal(t, "SQL, Excel, Power BI", job.RequiredSkills)
	assert.Equal(t, "8000-14000", job.AvgSalaryMAD)
	assert.Equal(t, "High", job.DemandLevel)
}

func TestNewStoreFromReader_MissingColumns(t *testing.T) {
	csv := "job_id,job_title\n1,Développeur\n"

	_, err := NewStoreFromReader(strings.NewReader(csv))

	var datasetErr *DatasetError
	require.ErrorAs(t, err, &datasetErr)
	assert.Contains(t, datasetErr.Message, "missing columns")
	assert.Contains(t, datasetErr.Message, "required_skills")
}

func TestNewStoreFromReader_DefaultsInvalidJobID(t *testing.T) {
	csv := `job_id,job_title,category,description,required_skills,recommended_courses,avg_salary_mad,demand_level
abc,Développeur,Informatique,Desc,Python,,5000,Medium
`
	store, err := NewStoreFromReader(strings.NewReader(csv))

	require.NoError(t, err)
	job, err := store.Job(0)
	require.NoError(t, err)
	assert.Equal(t, 1, job.JobID)
}

func TestNewStoreFromReader_EmptyInput(t *testing.T) {
	_, err := NewStoreFromReader(strings.NewReader(""))

	var datasetErr *DatasetError
	require.ErrorAs(t, err, &datasetErr)
	assert.Contains(t, datasetErr.Message, "empty")
}

func TestNewStoreFromReader_HeaderOnly(t *testing.T) {
	csv := "job_id,job_title,category,description,required_skills,recommended_courses,avg_salary_mad,demand_level\n"

	_, err := NewStoreFromReader(strings.NewReader(csv))

	var datasetErr *DatasetError
	require.ErrorAs(t, err, &datasetErr)
	assert.Contains(t, datasetErr.Message, "no job rows")
}

func TestStore_Job_OutOfRange(t *testing.T) {
	store, err := NewStoreFromReader(strings.NewReader(testDatasetCSV))
	require.NoError(t, err)

	_, err = store.Job(-1)
	assert.Error(t, err)

	_, err = store.Job(store.Len())
	assert.Error(t, err)
}

func TestStore_Categories_UniqueInDatasetOrder(t *testing.T) {
	store, err := NewStoreFromReader(strings.NewReader(testDatasetCSV))
	require.NoError(t, err)

	categories := store.Categories()

	assert.Equal(t, []string{"Informatique", "Data", "Finance"}, categories)
}

func TestStore_ByCategory_IgnoresCase(t *testing.T) {
	store, err := NewStoreFromReader(strings.NewReader(testDatasetCSV))
	require.NoError(t, err)

	jobs := store.ByCategory("informatique")

	require.Len(t, jobs, 2)
	assert.Equal(t, "Développeur Python", jobs[0].JobTitle)
	assert.Equal(t, "Développeur Web", jobs[1].JobTitle)
}

func TestStore_ByCategory_UnknownCategory(t *testing.T) {
	store, err := NewStoreFromReader(strings.NewReader(testDatasetCSV))
	require.NoError(t, err)

	assert.Empty(t, store.ByCategory("Astronomie"))
}

func TestDatasetError_Error(t *testing.T) {
	err := &DatasetError{Message: "failed to read CSV", Cause: assert.AnError}

	assert.Contains(t, err.Error(), "dataset error: failed to read CSV")
	assert.ErrorIs(t, err, assert.AnError)
}
