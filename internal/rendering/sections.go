package rendering

import (
	"fmt"
	"strings"

	"github.com/ybennani/career-match/internal/types"
)

// Section generators are pure: canonical (already escaped) input in, LaTeX
// fragment out, no I/O. An empty input produces an empty fragment with no
// heading, so empty sections vanish from the document entirely.

// GenerateHeader renders the name, optional title line, and a contact line
// with separators only between the fields actually present.
func GenerateHeader(resume types.CanonicalResume) string {
	var b strings.Builder
	b.WriteString("\\begin{center}\n")
	b.WriteString(fmt.Sprintf("    {\\Large \\textbf{%s}}\\\\\n", resume.Name))
	if resume.Title != "" {
		b.WriteString(fmt.Sprintf("    \\textit{%s}\\\\\n", resume.Title))
	}
	b.WriteString("    \\vspace{1pt}\n")
	b.WriteString("    \\small ")

	contact := make([]string, 0, 3)
	if resume.Location != "" {
		contact = append(contact, resume.Location)
	}
	if resume.Email != "" {
		contact = append(contact, fmt.Sprintf("\\href{mailto:%s}{%s}", resume.Email, resume.Email))
	}
	if resume.Phone != "" {
		contact = append(contact, resume.Phone)
	}
	b.WriteString(strings.Join(contact, " | "))
	b.WriteString("\n\\end{center}\n")
	b.WriteString("\\vspace{3pt}\n")
	return b.String()
}

// GenerateProfile renders the summary paragraph.
func GenerateProfile(summary string) string {
	if summary == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("\\section*{Profil}\n")
	b.WriteString(fmt.Sprintf("\\small %s\n", summary))
	b.WriteString("\\vspace{2pt}\n")
	return b.String()
}

// GenerateEducation renders one entry per degree, highest first. Entries
// missing both degree and institution are skipped.
func GenerateEducation(entries []types.EducationEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\\section*{Formation}\n")
	for i, edu := range entries {
		if edu.Degree == "" && edu.Institution == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("\\cventry{%s}{%s}{%s}{%s}\n", edu.Degree, edu.Dates, edu.Institution, edu.Location))
		if len(edu.Details) > 0 {
			b.WriteString("\\begin{itemize}\n")
			for _, detail := range edu.Details {
				b.WriteString(fmt.Sprintf("    \\item %s\n", detail))
			}
			b.WriteString("\\end{itemize}\n")
		}
		if i < len(entries)-1 {
			b.WriteString("\\vspace{1pt}\n")
		}
	}
	return b.String()
}

// GenerateExperience renders one block per position in input order, one
// itemize line per bullet. Every bullet is emitted; there is no cap on
// bullet count or length.
func GenerateExperience(entries []types.ExperienceEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\\section*{Expériences Professionnelles}\n")
	for i, exp := range entries {
		if exp.Position == "" || exp.Company == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("\\cventry{%s}{%s - %s}{%s}{%s}\n", exp.Position, exp.StartDate, exp.EndDate, exp.Company, exp.Location))
		b.WriteString("\\begin{itemize}[leftmargin=*,itemsep=0pt,parsep=0pt,topsep=1pt]\n")
		for _, bullet := range exp.Bullets {
			if bullet == "" {
				continue
			}
			b.WriteString(fmt.Sprintf("    \\item %s\n", bullet))
		}
		b.WriteString("\\end{itemize}\n")
		if i < len(entries)-1 {
			b.WriteString("\\vspace{2pt}\n")
		}
	}
	return b.String()
}

// GenerateSkills renders the deduplicated skill list as a pipe-separated
// line. Duplicates are removed here as well in case the caller skipped
// canonical formatting.
func GenerateSkills(skills []string) string {
	unique := DedupeSkills(skills)
	if len(unique) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\\section*{Compétences Techniques}\n")
	b.WriteString("\\small\n")
	b.WriteString("\\noindent\n")
	b.WriteString(strings.Join(unique, " | "))
	b.WriteString("\n\\vspace{2pt}\n")
	return b.String()
}

// GenerateProjects renders one block per project. Entries without a title
// are skipped.
func GenerateProjects(entries []types.ProjectEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\\section*{Projets}\n")
	for i, project := range entries {
		if project.Title == "" {
			continue
		}
		if project.Technologies != "" {
			b.WriteString(fmt.Sprintf("\\textbf{%s} - %s\\\\\n", project.Title, project.Technologies))
		} else {
			b.WriteString(fmt.Sprintf("\\textbf{%s}\\\\\n", project.Title))
		}
		if project.Description != "" {
			b.WriteString(project.Description + "\n")
		}
		if len(project.Achievements) > 0 {
			b.WriteString("\\begin{itemize}\n")
			for _, achievement := range project.Achievements {
				b.WriteString(fmt.Sprintf("    \\item %s\n", achievement))
			}
			b.WriteString("\\end{itemize}\n")
		}
		if i < len(entries)-1 {
			b.WriteString("\\vspace{2pt}\n")
		}
	}
	return b.String()
}

// GenerateCertifications renders certifications as a bullet list.
func GenerateCertifications(certifications []string) string {
	if len(certifications) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\\section*{Certificats}\n")
	b.WriteString("\\begin{itemize}\n")
	for _, cert := range certifications {
		if cert == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("    \\item %s\n", cert))
	}
	b.WriteString("\\end{itemize}\n")
	b.WriteString("\\vspace{2pt}\n")
	return b.String()
}

// GenerateLanguages renders languages as a pipe-separated line.
func GenerateLanguages(languages []string) string {
	if len(languages) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\\section*{Langues}\n")
	b.WriteString("\\small\n")
	b.WriteString("\\noindent\n")
	b.WriteString(strings.Join(languages, " | "))
	b.WriteString("\n")
	return b.String()
}
