package rendering

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ybennani/career-match/internal/types"
)

// educationPriority ranks degrees so the highest level sorts first.
// The key is the first word of the degree name, lowercased.
var educationPriority = map[string]int{
	"phd": 1, "doctorate": 1, "ph.d": 1,
	"master": 2, "masters": 2, "msc": 2, "ma": 2, "ms": 2, "mba": 2,
	"bachelor": 3, "bachelors": 3, "bs": 3, "ba": 3,
	"associate": 4, "diploma": 5, "certificate": 6,
}

const unrankedDegree = 99

// presentSortKey makes open-ended positions sort ahead of any dated one.
const presentSortKey = "9999-12-31"

// Format normalizes a raw parsed resume into the canonical record the
// section generators consume. Missing fields default to empty values, skills
// are deduplicated preserving first-seen order, experience is ordered most
// recent first, and education is ordered highest degree first. Every
// free-text field in the returned record is LaTeX-escaped; the generators
// perform layout only. Format never fails: malformed input degrades to
// empty fields.
func Format(raw types.ParsedResume) types.CanonicalResume {
	resume := types.CanonicalResume{
		Name:           EscapeLaTeX(raw.Name),
		Title:          EscapeLaTeX(raw.Title),
		Email:          EscapeLaTeX(raw.Contact.Email),
		Phone:          EscapeLaTeX(raw.Contact.Phone),
		Location:       EscapeLaTeX(formatLocation(raw.Contact)),
		Summary:        EscapeLaTeX(raw.Brief),
		Experience:     formatExperience(raw.EmploymentHistory),
		Education:      formatEducation(raw.Education),
		Skills:         escapeAll(DedupeSkills(raw.Skills)),
		Languages:      escapeAll(raw.Languages),
		Certifications: escapeAll(formatCertifications(raw)),
		Projects:       formatProjects(raw.Projects),
	}
	return resume
}

// formatLocation joins the present city/state/country parts with commas.
func formatLocation(contact types.ParsedContact) string {
	parts := make([]string, 0, 3)
	if contact.LocationCity != "" {
		parts = append(parts, contact.LocationCity)
	}
	if contact.LocationState != "" {
		parts = append(parts, contact.LocationState)
	}
	if contact.LocationCountry != "" {
		parts = append(parts, contact.LocationCountry)
	}
	return strings.Join(parts, ", ")
}

// formatExperience keeps every employment entry that has a position or at
// least one bullet, sorted most recent first. All bullets are preserved
// verbatim, with no truncation and no deduplication.
func formatExperience(history []types.ParsedEmployment) []types.ExperienceEntry {
	sorted := make([]types.ParsedEmployment, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return experienceSortKey(sorted[i]) > experienceSortKey(sorted[j])
	})

	entries := make([]types.ExperienceEntry, 0, len(sorted))
	for _, job := range sorted {
		endDate := job.EndDate
		if endDate == "" {
			endDate = "Present"
		}
		bullets := make([]string, 0, len(job.Responsibilities))
		for _, bullet := range job.Responsibilities {
			bullets = append(bullets, EscapeLaTeX(bullet))
		}
		if job.Title == "" && len(bullets) == 0 {
			continue
		}
		entries = append(entries, types.ExperienceEntry{
			Position:  EscapeLaTeX(job.Title),
			Company:   EscapeLaTeX(job.Company),
			Location:  EscapeLaTeX(job.Location),
			StartDate: EscapeLaTeX(job.StartDate),
			EndDate:   EscapeLaTeX(endDate),
			Bullets:   bullets,
		})
	}
	return entries
}

func experienceSortKey(job types.ParsedEmployment) string {
	end := job.EndDate
	if end == "" || strings.EqualFold(end, "present") {
		return presentSortKey
	}
	return end
}

// formatEducation keeps every education entry, sorted by degree level with
// the highest first. Extra detail lines are built from the field of study
// and GPA when present.
func formatEducation(education []types.ParsedEducation) []types.EducationEntry {
	sorted := make([]types.ParsedEducation, len(education))
	copy(sorted, education)
	sort.SliceStable(sorted, func(i, j int) bool {
		return degreeRank(sorted[i].Degree) < degreeRank(sorted[j].Degree)
	})

	entries := make([]types.EducationEntry, 0, len(sorted))
	for _, edu := range sorted {
		dates := strings.Trim(edu.StartDate+" - "+edu.EndDate, " -")
		details := make([]string, 0, 2)
		if edu.FieldOfStudy != "" {
			details = append(details, EscapeLaTeX(fmt.Sprintf("Field: %s", edu.FieldOfStudy)))
		}
		if edu.GPA != "" {
			details = append(details, EscapeLaTeX(fmt.Sprintf("GPA: %s", edu.GPA)))
		}
		entries = append(entries, types.EducationEntry{
			Degree:      EscapeLaTeX(edu.Degree),
			Institution: EscapeLaTeX(edu.InstitutionName),
			Dates:       EscapeLaTeX(dates),
			Location:    EscapeLaTeX(edu.InstitutionCountry),
			Details:     details,
		})
	}
	return entries
}

func degreeRank(degree string) int {
	if degree == "" {
		return unrankedDegree
	}
	first := strings.Fields(strings.ToLower(degree))
	if len(first) == 0 {
		return unrankedDegree
	}
	if rank, ok := educationPriority[first[0]]; ok {
		return rank
	}
	return unrankedDegree
}

// formatCertifications prefers the courses list and falls back to the
// certifications list when no courses are present.
func formatCertifications(raw types.ParsedResume) []string {
	if len(raw.Courses) > 0 {
		return raw.Courses
	}
	return raw.Certifications
}

func formatProjects(projects []types.ParsedProject) []types.ProjectEntry {
	entries := make([]types.ProjectEntry, 0, len(projects))
	for _, project := range projects {
		entries = append(entries, types.ProjectEntry{
			Title:        EscapeLaTeX(project.Title),
			Technologies: EscapeLaTeX(project.Technologies),
			Description:  EscapeLaTeX(project.Description),
			Achievements: escapeAll(project.Achievements),
		})
	}
	return entries
}

// DedupeSkills removes duplicate skills case-insensitively while preserving
// first-seen order and casing.
func DedupeSkills(skills []string) []string {
	unique := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, skill := range skills {
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, skill)
	}
	return unique
}

func escapeAll(values []string) []string {
	escaped := make([]string, 0, len(values))
	for _, value := range values {
		if value == "" {
			continue
		}
		escaped = append(escaped, EscapeLaTeX(value))
	}
	return escaped
}
