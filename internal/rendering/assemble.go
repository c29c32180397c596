package rendering

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"github.com/ybennani/career-match/internal/types"
)

//go:embed templates/ats_resume.tex
var defaultTemplate string

// Placeholder names recognized by the default template. Each appears in the
// template exactly once, wrapped as "{{ <name> }}".
const (
	PlaceholderName           = "name"
	PlaceholderHeader         = "HEADER"
	PlaceholderProfile        = "PROFILE"
	PlaceholderEducation      = "EDUCATION"
	PlaceholderExperience     = "EXPERIENCE"
	PlaceholderSkills         = "SKILLS"
	PlaceholderProjects       = "PROJECTS"
	PlaceholderCertifications = "CERTIFICATIONS"
	PlaceholderLanguages      = "LANGUAGES"
)

// DefaultTemplate returns the embedded ATS resume template.
func DefaultTemplate() string {
	return defaultTemplate
}

// placeholderPattern matches any unreplaced placeholder token. Escaped user
// text can never produce a bare "{{" so leftover matches are real tokens.
var placeholderPattern = regexp.MustCompile(`\{\{\s*[A-Za-z_]+\s*\}\}`)

// Assemble substitutes each fragment into its placeholder token in the
// template. Every fragment key must have a matching token and the result
// must contain no leftover tokens; either mismatch is a TemplateError.
func Assemble(template string, fragments map[string]string) (string, error) {
	document := template
	for _, name := range []string{
		PlaceholderName,
		PlaceholderHeader,
		PlaceholderProfile,
		PlaceholderEducation,
		PlaceholderExperience,
		PlaceholderSkills,
		PlaceholderProjects,
		PlaceholderCertifications,
		PlaceholderLanguages,
	} {
		fragment, ok := fragments[name]
		if !ok {
			continue
		}
		token := "{{ " + name + " }}"
		if !strings.Contains(document, token) {
			return "", &TemplateError{
				Message: fmt.Sprintf("placeholder %q not found in template", token),
			}
		}
		document = strings.Replace(document, token, fragment, 1)
	}

	if leftover := placeholderPattern.FindString(document); leftover != "" {
		return "", &TemplateError{
			Message: fmt.Sprintf("placeholder %q was not substituted", leftover),
		}
	}
	return document, nil
}

// SectionFragments generates every section fragment from a canonical resume,
// keyed by placeholder name.
func SectionFragments(resume types.CanonicalResume) map[string]string {
	return map[string]string{
		PlaceholderName:           resume.Name,
		PlaceholderHeader:         GenerateHeader(resume),
		PlaceholderProfile:        GenerateProfile(resume.Summary),
		PlaceholderEducation:      GenerateEducation(resume.Education),
		PlaceholderExperience:     GenerateExperience(resume.Experience),
		PlaceholderSkills:         GenerateSkills(resume.Skills),
		PlaceholderProjects:       GenerateProjects(resume.Projects),
		PlaceholderCertifications: GenerateCertifications(resume.Certifications),
		PlaceholderLanguages:      GenerateLanguages(resume.Languages),
	}
}

// RenderDocument generates all sections for the resume and assembles them
// into the template, producing a complete LaTeX document.
func RenderDocument(template string, resume types.CanonicalResume) (string, error) {
	if template == "" {
		template = defaultTemplate
	}
	return Assemble(template, SectionFragments(resume))
}
