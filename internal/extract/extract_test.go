package extract

import (
	"strings"
	"testing"
)

func TestExtract_TitleIsFirstNonBlankLine(t *testing.T) {
	r := Extract("# Hello\nWorld", "a.md")
	if r.Title != "# Hello" {
		t.Errorf("title = %q, want %q", r.Title, "# Hello")
	}
}

func TestExtract_TitleSkipsBlankLines(t *testing.T) {
	r := Extract("\n\n  \nFirst real line\nSecond", "a.md")
	if r.Title != "First real line" {
		t.Errorf("title = %q", r.Title)
	}
}

func TestExtract_TitleFallsBackToNameSansExtension(t *testing.T) {
	cases := []struct {
		text string
		name string
		want string
	}{
		{"", "meeting-notes.md", "meeting-notes"},
		{"\n \n\t\n", "a.md", "a"},
		{"", "no-extension", "no-extension"},
	}
	for _, tc := range cases {
		r := Extract(tc.text, tc.name)
		if r.Title != tc.want {
			t.Errorf("Extract(%q, %q).Title = %q, want %q", tc.text, tc.name, r.Title, tc.want)
		}
	}
}

func TestExtract_PreviewJoinsFirstThreeNonBlankLines(t *testing.T) {
	r := Extract("one\n\ntwo\n\nthree\nfour", "a.md")
	if r.Preview != "one two three" {
		t.Errorf("preview = %q", r.Preview)
	}
}

func TestExtract_PreviewTruncatedTo200(t *testing.T) {
	long := strings.Repeat("x", 300)
	r := Extract(long, "a.md")
	if len([]rune(r.Preview)) != 200 {
		t.Errorf("preview length = %d, want 200", len([]rune(r.Preview)))
	}
}

func TestExtract_PreviewTruncationIsNotWordAware(t *testing.T) {
	// 7-rune period, so the cut at 200 (= 28*7 + 4) lands mid-token.
	line := strings.Repeat("abcdef ", 40)
	r := Extract(line, "a.md")
	if len([]rune(r.Preview)) != 200 {
		t.Fatalf("preview length = %d", len([]rune(r.Preview)))
	}
	if !strings.HasSuffix(r.Preview, "abcd") {
		t.Errorf("expected a mid-word cut, got %q...", r.Preview[190:])
	}
}

func TestExtract_WordCountCoversFullText(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"# Hello\nWorld", 2},
		{"one  two\tthree\nfour", 4},
		{"one\n\ntwo\n\nthree\nfour\nfive", 5}, // beyond the preview window
		{"--- # * //", 0},                     // bare markup is not a word
		{"## Heading\n- item one\n- item 2", 5},
		{"don't stop", 2},
	}
	for _, tc := range cases {
		r := Extract(tc.text, "a.md")
		if r.WordCount != tc.want {
			t.Errorf("WordCount(%q) = %d, want %d", tc.text, r.WordCount, tc.want)
		}
	}
}

func TestHasHeaderBlock(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"---\ntitle: x\n---\nbody", true},
		{"---", true},
		{"# Hello\nWorld", false},
		{"\n---\n", false}, // must be at the very start
		{"", false},
	}
	for _, tc := range cases {
		if got := HasHeaderBlock(tc.text); got != tc.want {
			t.Errorf("HasHeaderBlock(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}
