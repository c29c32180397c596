package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX_EmptyString(t *testing.T) {
	result := EscapeLaTeX("")
	assert.Equal(t, "", result)
}

func TestEscapeLaTeX_NoSpecialCharacters(t *testing.T) {
	text := "This is normal text with no special characters"
	result := EscapeLaTeX(text)
	assert.Equal(t, text, result)
}

func TestEscapeLaTeX_Backslash(t *testing.T) {
	result := EscapeLaTeX("test\\backslash")
	assert.Equal(t, "test\\textbackslash{}backslash", result)
}

func TestEscapeLaTeX_CurlyBraces(t *testing.T) {
	result := EscapeLaTeX("text{with}braces")
	assert.Equal(t, "text\\{with\\}braces", result)
}

func TestEscapeLaTeX_DollarSign(t *testing.T) {
	result := EscapeLaTeX("cost $100")
	assert.Equal(t, "cost \\$100", result)
}

func TestEscapeLaTeX_Ampersand(t *testing.T) {
	result := EscapeLaTeX("A & B")
	assert.Equal(t, "A \\& B", result)
}

func TestEscapeLaTeX_Percent(t *testing.T) {
	result := EscapeLaTeX("100% complete")
	assert.Equal(t, "100\\% complete", result)
}

func TestEscapeLaTeX_Hash(t *testing.T) {
	result := EscapeLaTeX("issue #123")
	assert.Equal(t, "issue \\#123", result)
}

func TestEscapeLaTeX_Caret(t *testing.T) {
	result := EscapeLaTeX("x^2")
	assert.Equal(t, "x\\textasciicircum{}2", result)
}

func TestEscapeLaTeX_Underscore(t *testing.T) {
	result := EscapeLaTeX("variable_name")
	assert.Equal(t, "variable\\_name", result)
}

func TestEscapeLaTeX_Tilde(t *testing.T) {
	result := EscapeLaTeX("~approx")
	assert.Equal(t, "\\textasciitilde{}approx", result)
}

func TestEscapeLaTeX_Pipe(t *testing.T) {
	result := EscapeLaTeX("a | b")
	assert.Equal(t, "a \\| b", result)
}

func TestEscapeLaTeX_AngleBrackets(t *testing.T) {
	result := EscapeLaTeX("<tag>")
	assert.Equal(t, "\\textless{}tag\\textgreater{}", result)
}

func TestEscapeLaTeX_Newline(t *testing.T) {
	result := EscapeLaTeX("line one\nline two")
	assert.Equal(t, "line one\\\\\nline two", result)
}

func TestEscapeLaTeX_CarriageReturnNewline(t *testing.T) {
	result := EscapeLaTeX("line one\r\nline two")
	assert.Equal(t, "line one\\\\\nline two", result)
}

func TestEscapeLaTeX_BareCarriageReturn(t *testing.T) {
	result := EscapeLaTeX("line one\rline two")
	assert.Equal(t, "line one\\\\\nline two", result)
}

func TestEscapeLaTeX_MetricsBullet(t *testing.T) {
	result := EscapeLaTeX("50% increase & $2M saved")
	assert.Equal(t, "50\\% increase \\& \\$2M saved", result)
}

func TestEscapeLaTeX_UnicodeCharacters(t *testing.T) {
	text := "résumé with unicode: α β γ"
	result := EscapeLaTeX(text)
	assert.Equal(t, text, result)
}

func TestUnescapeLaTeX_EmptyString(t *testing.T) {
	result := UnescapeLaTeX("")
	assert.Equal(t, "", result)
}

func TestUnescapeLaTeX_RoundTripSpecialCharacters(t *testing.T) {
	original := "test${}~&%#^_\\|<>"
	assert.Equal(t, original, UnescapeLaTeX(EscapeLaTeX(original)))
}

func TestUnescapeLaTeX_RoundTripLineBreaks(t *testing.T) {
	original := "shipped v2\nran migration"
	assert.Equal(t, original, UnescapeLaTeX(EscapeLaTeX(original)))
}

func TestUnescapeLaTeX_RoundTripMixedContent(t *testing.T) {
	original := "Built system handling $1M+ requests/day with 99.9% uptime & <5ms p99"
	assert.Equal(t, original, UnescapeLaTeX(EscapeLaTeX(original)))
}

func TestUnescapeLaTeX_RoundTripLiteralMacroText(t *testing.T) {
	original := "wrote \\textbackslash{} by hand"
	assert.Equal(t, original, UnescapeLaTeX(EscapeLaTeX(original)))
}
