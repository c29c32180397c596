// Package jobs implements the job matching engine for the Moroccan job
// market: an embedded dataset of job postings, a TF-IDF vectorizer, and a
// cosine similarity matcher with weighted job features.
package jobs

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ybennani/career-match/internal/types"
)

//go:embed data/jobs_morocco.csv
var embeddedDataset []byte

// datasetColumns lists the required CSV header names in dataset order.
var datasetColumns = []string{
	"job_id",
	"job_title",
	"category",
	"description",
	"required_skills",
	"recommended_courses",
	"avg_salary_mad",
	"demand_level",
}

// DatasetError indicates that the job dataset could not be loaded.
type DatasetError struct {
	Message string
	Cause   error
}

func (e *DatasetError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dataset error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("dataset error: %s", e.Message)
}

func (e *DatasetError) Unwrap() error {
	return e.Cause
}

// Store holds the job dataset in memory, in file order.
type Store struct {
	jobs []types.Job
}

// NewStore loads the embedded Moroccan job dataset.
func NewStore() (*Store, error) {
	return NewStoreFromReader(bytes.NewReader(embeddedDataset))
}

// NewStoreFromReader loads a job dataset from CSV. The first record must be a
// header containing all dataset columns. Empty fields are kept empty; route
// layers decide their own display defaults.
func NewStoreFromReader(r io.Reader) (*Store, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &DatasetError{Message: "failed to read CSV", Cause: err}
	}
	if len(records) == 0 {
		return nil, &DatasetError{Message: "dataset is empty"}
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, name := range datasetColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &DatasetError{Message: fmt.Sprintf("missing columns: %s", strings.Join(missing, ", "))}
	}

	jobs := make([]types.Job, 0, len(records)-1)
	for i, record := range records[1:] {
		field := func(name string) string {
			idx := columns[name]
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		id, err := strconv.Atoi(field("job_id"))
		if err != nil {
			id = i + 1
		}

		jobs = append(jobs, types.Job{
			JobID:              id,
			JobTitle:           field("job_title"),
			Category:           field("category"),
			Description:        field("description"),
			RequiredSkills:     field("required_skills"),
			RecommendedCourses: field("recommended_courses"),
			AvgSalaryMAD:       field("avg_salary_mad"),
			DemandLevel:        field("demand_level"),
		})
	}
	if len(jobs) == 0 {
		return nil, &DatasetError{Message: "dataset has no job rows"}
	}

	return &Store{jobs: jobs}, nil
}

// Jobs returns all jobs in dataset order.
func (s *Store) Jobs() []types.Job {
	return s.jobs
}

// Len returns the number of jobs in the dataset.
func (s *Store) Len() int {
	return len(s.jobs)
}

// Job returns the job at the given dataset index.
func (s *Store) Job(index int) (types.Job, error) {
	if index < 0 || index >= len(s.jobs) {
		return types.Job{}, &DatasetError{Message: fmt.Sprintf("job index %d out of range", index)}
	}
	return s.jobs[index], nil
}

// Categories returns the unique job categories in dataset order.
func (s *Store) Categories() []string {
	seen := make(map[string]bool)
	var categories []string
	for _, job := range s.jobs {
		if !seen[job.Category] {
			seen[job.Category] = true
			categories = append(categories, job.Category)
		}
	}
	return categories
}

// ByCategory returns all jobs whose category matches, ignoring case.
func (s *Store) ByCategory(category string) []types.Job {
	var matched []types.Job
	for _, job := range s.jobs {
		if strings.EqualFold(job.Category, category) {
			matched = append(matched, job)
		}
	}
	return matched
}
