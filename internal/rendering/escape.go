// Package rendering turns parsed resume data into a complete LaTeX document.
package rendering

import "strings"

// EscapeLaTeX escapes characters reserved by LaTeX in free text.
// Reserved characters: \ { } $ & % # ^ _ ~ | < >
// CR/LF line breaks become explicit LaTeX line-break tokens.
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	// Normalize line endings before the single escaping pass.
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var result strings.Builder
	result.Grow(len(text) * 2) // Pre-allocate space for potential escaping

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		case '$':
			result.WriteString(`\$`)
		case '&':
			result.WriteString(`\&`)
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '_':
			result.WriteString(`\_`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '|':
			result.WriteString(`\|`)
		case '<':
			result.WriteString(`\textless{}`)
		case '>':
			result.WriteString(`\textgreater{}`)
		case '\n':
			result.WriteString("\\\\\n")
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// unescapeReplacer inverts EscapeLaTeX. Multi-character macros are listed
// before the single-backslash escapes so they are matched first.
var unescapeReplacer = strings.NewReplacer(
	`\textbackslash{}`, `\`,
	`\textasciicircum{}`, `^`,
	`\textasciitilde{}`, `~`,
	`\textless{}`, `<`,
	`\textgreater{}`, `>`,
	"\\\\\n", "\n",
	`\{`, `{`,
	`\}`, `}`,
	`\$`, `$`,
	`\&`, `&`,
	`\%`, `%`,
	`\#`, `#`,
	`\_`, `_`,
	`\|`, `|`,
)

// UnescapeLaTeX recovers the original text from EscapeLaTeX output.
func UnescapeLaTeX(text string) string {
	if text == "" {
		return ""
	}
	return unescapeReplacer.Replace(text)
}
