// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/ybennani/career-match/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMatches outputs the top job matches with scores and required skills.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMatches(matches []types.JobMatch) {
	if len(matches) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO MATCHING JOBS")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total matches: %d\n\n", len(matches)))

	count := min(len(matches), maxItemsToShow)
	for i := 0; i < count; i++ {
		match := matches[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, match.JobTitle))
		sb.WriteString(fmt.Sprintf("    Score: %.3f", match.MatchScore))
		if match.Category != "" {
			sb.WriteString(fmt.Sprintf("  [%s]", match.Category))
		}
		sb.WriteString("\n")
		if match.RequiredSkills != "" {
			skills := match.RequiredSkills
			if len(skills) > 40 {
				skills = skills[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", skills))
		}
		if match.AvgSalaryMAD != "" {
			sb.WriteString(fmt.Sprintf("    Salary: %s MAD\n", match.AvgSalaryMAD))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(matches) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more matches", len(matches)-maxItemsToShow))
	}

	p.printBox("TOP JOB MATCHES", sb.String())
}

// PrintParsedResume outputs a human-readable summary of the parsed CV.
func (p *Printer) PrintParsedResume(resume *types.ParsedResume) {
	if resume == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Name:   %s\n", resume.Name))
	sb.WriteString(fmt.Sprintf("Title:  %s\n", resume.Title))
	if resume.Contact.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:  %s\n", resume.Contact.Email))
	}
	sb.WriteString("\n")

	if len(resume.EmploymentHistory) > 0 {
		sb.WriteString("Experience:\n")
		count := min(len(resume.EmploymentHistory), maxItemsToShow)
		for i := 0; i < count; i++ {
			entry := resume.EmploymentHistory[i]
			line := entry.Title
			if entry.Company != "" {
				line += " @ " + entry.Company
			}
			if len(line) > 50 {
				line = line[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • %s\n", line))
		}
		if len(resume.EmploymentHistory) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(resume.EmploymentHistory)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(resume.Skills) > 0 {
		skills := strings.Join(resume.Skills, ", ")
		if len(skills) > 45 {
			skills = skills[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Skills (%d): %s\n", len(resume.Skills), skills))
	}
	if len(resume.Languages) > 0 {
		sb.WriteString(fmt.Sprintf("Languages: %s\n", strings.Join(resume.Languages, ", ")))
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEvaluation outputs the ATS review score and the flagged categories.
func (p *Printer) PrintEvaluation(eval *types.ATSEvaluation) {
	if eval == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ATS Score: %d/100\n\n", eval.ATSScore))

	// Stable report order; only categories with findings are listed.
	flagged := []string{}
	for _, name := range types.EvaluationCategories {
		if feedback, ok := eval.Categories[name]; ok && len(feedback.Negatives) > 0 {
			flagged = append(flagged, name)
		}
	}

	if len(flagged) == 0 {
		sb.WriteString("✅ No issues flagged")
		p.printBox("ATS EVALUATION", sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Flagged categories (%d):\n", len(flagged)))
	count := min(len(flagged), maxItemsToShow)
	for i := 0; i < count; i++ {
		name := flagged[i]
		feedback := eval.Categories[name]
		sb.WriteString(fmt.Sprintf("⚠ %s\n", name))
		detail := feedback.Negatives[0]
		if len(detail) > 45 {
			detail = detail[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("  %s\n", detail))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(flagged) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more categories", len(flagged)-maxItemsToShow))
	}

	p.printBox("ATS EVALUATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPipelineResult outputs the outcome of a resume render run.
func (p *Printer) PrintPipelineResult(result *types.PipelineResult) {
	if result == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("LaTeX source: %d bytes\n", len(result.DocumentSource)))
	if result.ArtifactAvailable {
		sb.WriteString("PDF: available\n")
	} else {
		sb.WriteString("PDF: not available\n")
		if result.Reason != "" {
			reason := result.Reason
			if len(reason) > 45 {
				reason = reason[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("  %s\n", reason))
		}
	}
	sb.WriteString("\n")

	meta := result.Metadata
	sb.WriteString("Rendered sections:\n")
	sb.WriteString(fmt.Sprintf("  Experience:     %d\n", meta.ExperienceCount))
	sb.WriteString(fmt.Sprintf("  Education:      %d\n", meta.EducationCount))
	sb.WriteString(fmt.Sprintf("  Skills:         %d\n", meta.SkillsCount))
	sb.WriteString(fmt.Sprintf("  Languages:      %d\n", meta.LanguagesCount))
	sb.WriteString(fmt.Sprintf("  Certifications: %d", meta.CertificationsCount))

	p.printBox("RESUME RENDER", sb.String())
}
