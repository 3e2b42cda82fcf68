// Package extract derives display metadata from raw page text.
//
// All functions are pure: no I/O, no clock, no side effects. Unreadable
// content is the caller's concern; passing empty text yields fallback
// values rather than errors.
package extract

import (
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// HeaderDelimiter marks the start of a metadata header block.
	HeaderDelimiter = "---"

	previewLines = 3
	previewLimit = 200
)

// Result holds the metadata derived from a page's text.
type Result struct {
	Title     string
	Preview   string
	WordCount int
}

// Extract derives a title, preview, and word count from text.
//
// Title is the first non-blank line, verbatim. If every line is blank the
// title falls back to fallbackName with its extension stripped. Preview
// joins the first three non-blank lines with single spaces and truncates
// to 200 characters, with no regard for word boundaries. Word count is
// the number of whitespace-delimited tokens in the full text that carry
// at least one letter or digit; bare markup such as "#" or "---" does
// not count as a word.
func Extract(text, fallbackName string) Result {
	lines := nonBlankLines(text, previewLines)

	title := strings.TrimSuffix(fallbackName, filepath.Ext(fallbackName))
	if len(lines) > 0 {
		title = lines[0]
	}

	preview := strings.Join(lines, " ")
	if runes := []rune(preview); len(runes) > previewLimit {
		preview = string(runes[:previewLimit])
	}

	return Result{
		Title:     title,
		Preview:   preview,
		WordCount: countWords(text),
	}
}

func countWords(text string) int {
	n := 0
	for _, tok := range strings.Fields(text) {
		if strings.ContainsFunc(tok, isWordRune) {
			n++
		}
	}
	return n
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// HasHeaderBlock reports whether text begins with the header-block
// delimiter.
func HasHeaderBlock(text string) bool {
	return strings.HasPrefix(text, HeaderDelimiter)
}

// nonBlankLines returns up to max non-blank lines of text, trimmed of
// surrounding whitespace.
func nonBlankLines(text string, max int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
		if len(out) == max {
			break
		}
	}
	return out
}
