package ingestion

import (
	"regexp"
	"strings"
	"unicode"
)

// CleanText cleans and normalizes extracted CV text while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	// 2. Drop control characters left behind by PDF/DOCX extraction
	content = scrubControl(content)

	// 3. Process each line
	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := cleanLine(line)
		cleanedLines = append(cleanedLines, cleaned)
	}

	// 4. Join lines
	result := strings.Join(cleanedLines, "\n")

	// 5. Remove excessive blank lines (max 2 consecutive)
	result = removeExcessiveBlankLines(result)

	// 6. Trim leading/trailing whitespace from entire content
	result = strings.TrimSpace(result)

	return result
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	// Handle empty lines
	if strings.TrimSpace(line) == "" {
		return ""
	}

	// Preserve bullet lists, normalizing the marker spacing
	if isBulletLine(line) {
		trimmed := strings.TrimLeft(line, " \t")
		marker := trimmed[:len(trimmed)-len(strings.TrimLeft(trimmed, "-*•·"))]
		rest := strings.TrimSpace(trimmed[len(marker):])
		rest = regexp.MustCompile(`\s+`).ReplaceAllString(rest, " ")
		if rest == "" {
			return ""
		}
		return marker + " " + rest
	}

	// For regular lines, normalize multiple spaces to single space
	content := strings.TrimSpace(line)
	content = regexp.MustCompile(`\s+`).ReplaceAllString(content, " ")
	return content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// removeExcessiveBlankLines reduces consecutive blank lines to max 2
func removeExcessiveBlankLines(content string) string {
	// Replace 3+ consecutive newlines with 2 newlines
	re := regexp.MustCompile(`\n\n\n+`)
	return re.ReplaceAllString(content, "\n\n")
}

// scrubControl removes control characters, keeping newlines and tabs
func scrubControl(content string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, content)
}
