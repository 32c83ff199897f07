package chunker

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// C0 and C1 control characters, minus tab/newline which the whitespace
	// collapse already handles.
	controlRe = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f-\x9f]`)

	ligatures = strings.NewReplacer(
		"ﬁ", "fi",
		"ﬂ", "fl",
	)
)

// CleanText normalizes extracted document text: collapses whitespace runs to a
// single space, strips control characters, and maps the fi/fl ligature glyphs
// PDF extractors tend to emit back to plain ASCII.
func CleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = controlRe.ReplaceAllString(text, "")
	text = ligatures.Replace(text)
	return strings.TrimSpace(text)
}
