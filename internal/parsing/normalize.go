package parsing

import "strings"

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":           "Go",
	"go lang":          "Go",
	"javascript":       "JavaScript",
	"js":               "JavaScript",
	"typescript":       "TypeScript",
	"ts":               "TypeScript",
	"k8s":              "Kubernetes",
	"kubernetes":       "Kubernetes",
	"react.js":         "React",
	"reactjs":          "React",
	"vue.js":           "Vue",
	"vuejs":            "Vue",
	"node.js":          "Node.js",
	"nodejs":           "Node.js",
	"node":             "Node.js",
	"py":               "Python",
	"python":           "Python",
	"python3":          "Python",
	"ml":               "Machine Learning",
	"machine learning": "Machine Learning",
	"deep learning":    "Deep Learning",
	"postgres":         "PostgreSQL",
	"postgresql":       "PostgreSQL",
	"mysql":            "MySQL",
	"mongodb":          "MongoDB",
	"mongo":            "MongoDB",
	"sql":              "SQL",
	"nosql":            "NoSQL",
	"html":             "HTML",
	"css":              "CSS",
	"php":              "PHP",
	"aws":              "AWS",
	"gcp":              "GCP",
	"api":              "API",
	"rest":             "REST",
	"ci/cd":            "CI/CD",
	"power bi":         "Power BI",
	"powerbi":          "Power BI",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	if skillName == "" {
		return ""
	}

	// Trim whitespace
	normalized := strings.TrimSpace(skillName)

	// Check for exact match in normalization map (case-insensitive)
	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// For all-caps single words without a canonical form, capitalize
	// first letter only
	if normalized == strings.ToUpper(normalized) && len(normalized) > 1 {
		if !strings.Contains(lower, " ") {
			return strings.ToUpper(normalized[:1]) + strings.ToLower(normalized[1:])
		}
	}

	// Already has mixed case, return as-is
	if normalized != strings.ToUpper(normalized) && normalized != strings.ToLower(normalized) {
		return normalized
	}

	// If all lowercase and single word, capitalize first letter
	if normalized == strings.ToLower(normalized) && !strings.Contains(normalized, " ") && len(normalized) > 0 {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}

	return normalized
}

// NormalizeSkills canonicalizes skill names and deduplicates the list
// while preserving order
func NormalizeSkills(skills []string) []string {
	if len(skills) == 0 {
		return skills
	}

	normalized := make([]string, 0, len(skills))
	seen := make(map[string]bool)

	for _, skill := range skills {
		canonical := NormalizeSkillName(skill)
		if canonical == "" {
			continue // Skip empty skill names
		}

		key := strings.ToLower(canonical)
		if seen[key] {
			continue
		}
		seen[key] = true
		normalized = append(normalized, canonical)
	}

	return normalized
}
