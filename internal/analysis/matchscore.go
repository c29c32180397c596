package analysis

import (
	"fmt"
	"math"
	"strings"
)

// MatchResult is the normalized CV versus job description score returned by
// the analyser endpoint.
type MatchResult struct {
	Score              float64  `json:"score"`
	CVKeywords         []string `json:"cv_keywords"`
	JobKeywords        []string `json:"job_keywords"`
	MatchedSkills      []string `json:"matched_skills"`
	MissingSkills      []string `json:"missing_skills"`
	Coverage           string   `json:"coverage"`
	CoveragePercentage float64  `json:"coverage_percentage"`
}

// experienceMarkers signal seniority language in either text.
var experienceMarkers = []string{
	"senior", "junior", "lead", "manager", "intern",
	"alternance", "stage", "experience", "expérience", "years",
}

const (
	matchSemanticWeight   = 0.6
	matchSkillsWeight     = 0.2
	matchExperienceWeight = 0.2

	maxKeywords          = 30
	experienceMarkersCap = 5
)

// ScoreMatch computes the blended score used by the CV analyser endpoint:
// 60% full-text similarity, 20% intelligent skill coverage, 20% experience
// alignment, scaled to 0-100. Pass nil cvSkills to extract them from the CV
// text.
func ScoreMatch(cvText, jobDescription string, cvSkills []string) (*MatchResult, error) {
	if len(cvSkills) == 0 {
		cvSkills = ExtractSkills(cvText)
	}
	jobSkills := ExtractJobSkills(jobDescription)

	semantic, err := pairSimilarity(cvText, jobDescription, englishStopWords, 1500)
	if err != nil {
		return nil, err
	}

	// Each CV skill can satisfy at most one job skill.
	matcher := NewSkillMatcher()
	usedCVSkills := make(map[string]bool)
	var matched []string
	for _, jobSkill := range jobSkills {
		for _, cvSkill := range cvSkills {
			if usedCVSkills[cvSkill] {
				continue
			}
			if matcher.Match(cvSkill, jobSkill) {
				matched = append(matched, jobSkill)
				usedCVSkills[cvSkill] = true
				break
			}
		}
	}

	matchedSet := stringSet(matched)
	var missing []string
	for _, skill := range jobSkills {
		if !matchedSet[skill] {
			missing = append(missing, skill)
		}
	}

	skillsMatch := 0.0
	if len(jobSkills) > 0 {
		skillsMatch = float64(len(matched)) / float64(len(jobSkills))
	}
	coveragePct := round1(skillsMatch * 100)

	experience := (experienceScore(cvText) + experienceScore(jobDescription)) / 2

	final := matchSemanticWeight*semantic + matchSkillsWeight*skillsMatch + matchExperienceWeight*experience

	return &MatchResult{
		Score:              round2(final * 100),
		CVKeywords:         capStrings(cvSkills, maxKeywords),
		JobKeywords:        capStrings(jobSkills, maxKeywords),
		MatchedSkills:      capStrings(matched, maxKeywords),
		MissingSkills:      capStrings(missing, maxKeywords),
		Coverage:           fmt.Sprintf("%s%%", formatNumber(coveragePct)),
		CoveragePercentage: coveragePct,
	}, nil
}

func experienceScore(text string) float64 {
	lower := strings.ToLower(text)
	hits := 0
	for _, marker := range experienceMarkers {
		if strings.Contains(lower, marker) {
			hits++
		}
	}
	return math.Min(1, float64(hits)/experienceMarkersCap)
}

// capStrings limits a list and keeps it encodable as a JSON array.
func capStrings(values []string, limit int) []string {
	if values == nil {
		return []string{}
	}
	if len(values) > limit {
		return values[:limit]
	}
	return values
}
