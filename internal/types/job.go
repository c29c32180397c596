//nolint:revive // types is a standard Go package name pattern
package types

// Job is one row of the embedded job dataset.
type Job struct {
	JobID              int    `json:"job_id"`
	JobTitle           string `json:"job_title"`
	Category           string `json:"category"`
	Description        string `json:"description"`
	RequiredSkills     string `json:"required_skills"`
	RecommendedCourses string `json:"recommended_courses"`
	AvgSalaryMAD       string `json:"avg_salary_mad"`
	DemandLevel        string `json:"demand_level"`
}

// JobMatch is a job row paired with its similarity score for a query.
type JobMatch struct {
	Job
	MatchScore  float64 `json:"match_score"`
	LinkedInURL string  `json:"linkedin_url,omitempty"`
}

// JobResult is the enriched row returned by the search assistant, carrying
// the external search links and the query that surfaced it.
type JobResult struct {
	JobID              int               `json:"job_id"`
	JobTitle           string            `json:"job_title"`
	Category           string            `json:"category"`
	Description        string            `json:"description"`
	RequiredSkills     string            `json:"required_skills"`
	RecommendedCourses string            `json:"recommended_courses"`
	AvgSalaryMAD       string            `json:"avg_salary_mad"`
	DemandLevel        string            `json:"demand_level"`
	MatchScore         float64           `json:"match_score"`
	LinkedInURL        string            `json:"linkedin_url,omitempty"`
	SearchURLs         map[string]string `json:"all_search_urls,omitempty"`
	StagiairesURL      string            `json:"stagiaires_url,omitempty"`
	SourceQuery        string            `json:"source_query,omitempty"`
}
