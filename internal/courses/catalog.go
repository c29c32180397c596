// Package courses recommends training for missing skills, from a curated
// catalog and from live searches on course platforms.
package courses

import "strings"

// Course describes one course offering on an external platform. Skill and
// Source say where a result came from.
type Course struct {
	Platform string `json:"platform"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Duration string `json:"duration"`
	Level    string `json:"level"`
	Skill    string `json:"skill,omitempty"`
	Source   string `json:"source,omitempty"`
	Free     bool   `json:"free,omitempty"`
}

// Recommendation is a course suggested for one missing skill.
type Recommendation struct {
	Skill      string `json:"skill"`
	Platform   string `json:"platform"`
	CourseName string `json:"course_name"`
	URL        string `json:"url"`
	Duration   string `json:"duration"`
	Level      string `json:"level"`
	Source     string `json:"source"`
	Priority   string `json:"priority"`
}

const (
	maxRecommendedSkills = 4
	maxCoursesPerSkill   = 2

	catalogSource = "curated_database"
)

// highPrioritySkills get priority "high" in recommendations.
var highPrioritySkills = map[string]bool{
	"python":     true,
	"javascript": true,
	"sql":        true,
}

// catalog maps skills to curated course offerings.
var catalog = map[string][]Course{
	"python": {
		{Platform: "Coursera", Name: "Python for Everybody", URL: "https://coursera.org/specializations/python", Duration: "3 months", Level: "Beginner"},
		{Platform: "Udemy", Name: "Complete Python Bootcamp", URL: "https://www.udemy.com/course/complete-python-bootcamp/", Duration: "22 hours", Level: "Beginner"},
	},
	"javascript": {
		{Platform: "Coursera", Name: "JavaScript Basics", URL: "https://coursera.org/learn/javascript", Duration: "1 month", Level: "Beginner"},
		{Platform: "freeCodeCamp", Name: "JavaScript Algorithms", URL: "https://freecodecamp.org/learn/javascript-algorithms", Duration: "300 hours", Level: "Intermediate"},
	},
	"react": {
		{Platform: "Coursera", Name: "Front-End with React", URL: "https://coursera.org/learn/react", Duration: "1 month", Level: "Intermediate"},
		{Platform: "Scrimba", Name: "Learn React", URL: "https://scrimba.com/learn/learnreact", Duration: "12 hours", Level: "Beginner"},
	},
	"sql": {
		{Platform: "Coursera", Name: "SQL for Data Science", URL: "https://coursera.org/learn/sql-for-data-science", Duration: "1 month", Level: "Beginner"},
		{Platform: "Khan Academy", Name: "Intro to SQL", URL: "https://khanacademy.org/computing/computer-programming/sql", Duration: "15 hours", Level: "Beginner"},
	},
	"aws": {
		{Platform: "Coursera", Name: "AWS Fundamentals", URL: "https://coursera.org/specializations/aws-fundamentals", Duration: "2 months", Level: "Beginner"},
		{Platform: "AWS Training", Name: "AWS Cloud Practitioner", URL: "https://aws.amazon.com/training/", Duration: "6 hours", Level: "Beginner"},
	},
	"docker": {
		{Platform: "Udemy", Name: "Docker Mastery", URL: "https://www.udemy.com/course/docker-mastery/", Duration: "20 hours", Level: "Intermediate"},
		{Platform: "Docker Docs", Name: "Get Started with Docker", URL: "https://docs.docker.com/get-started/", Duration: "3 hours", Level: "Beginner"},
	},
	"machine learning": {
		{Platform: "Coursera", Name: "Machine Learning by Andrew Ng", URL: "https://coursera.org/learn/machine-learning", Duration: "3 months", Level: "Intermediate"},
		{Platform: "fast.ai", Name: "Practical Deep Learning", URL: "https://course.fast.ai/", Duration: "2 months", Level: "Intermediate"},
	},
}

// CatalogCourses returns the curated offerings for a skill, annotated like
// live results. The lookup key is the lowercased trimmed skill; unknown
// skills return nil.
func CatalogCourses(skill string) []Course {
	offerings := catalog[strings.ToLower(strings.TrimSpace(skill))]
	annotated := make([]Course, 0, len(offerings))
	for _, course := range offerings {
		course.Skill = skill
		course.Source = catalogSource
		annotated = append(annotated, course)
	}
	return annotated
}

// Recommendations returns curated courses for the first few missing skills,
// up to two courses per skill. Skills without catalog entries are skipped.
func Recommendations(missingSkills []string) []Recommendation {
	if len(missingSkills) > maxRecommendedSkills {
		missingSkills = missingSkills[:maxRecommendedSkills]
	}

	var recommendations []Recommendation
	for _, skill := range missingSkills {
		offerings, ok := catalog[skill]
		if !ok {
			continue
		}
		if len(offerings) > maxCoursesPerSkill {
			offerings = offerings[:maxCoursesPerSkill]
		}
		priority := "medium"
		if highPrioritySkills[skill] {
			priority = "high"
		}
		for _, course := range offerings {
			recommendations = append(recommendations, Recommendation{
				Skill:      skill,
				Platform:   course.Platform,
				CourseName: course.Name,
				URL:        course.URL,
				Duration:   course.Duration,
				Level:      course.Level,
				Source:     catalogSource,
				Priority:   priority,
			})
		}
	}
	return recommendations
}
