package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestTruncateRunesHelper(t *testing.T) {
	tests := []struct {
		in     string
		max    int
		suffix string
		want   string
	}{
		{"short", 10, "…", "short"},
		{"exactly10!", 10, "…", "exactly10!"},
		{"this is too long", 8, "…", "this is…"},
		{"anything", 0, "…", ""},
		{"日本語テキスト", 6, "…", "日本…"},
	}
	for _, tt := range tests {
		got := truncateRunesHelper(tt.in, tt.max, tt.suffix)
		if got != tt.want {
			t.Errorf("truncateRunesHelper(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if runewidth.StringWidth(got) > tt.max {
			t.Errorf("result %q exceeds %d cells", got, tt.max)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("Martha is turning 65 and still works full time", 12)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 12 {
			t.Errorf("line %q longer than 12", line)
		}
	}
	if wrapText("unchanged", 0) != "unchanged" {
		t.Error("zero width should not wrap")
	}
}

func TestTrimTrailingBlankLines(t *testing.T) {
	if got := trimTrailingBlankLines("a\nb\n  \n\x1b[0m  \n"); got != "a\nb" {
		t.Errorf("got %q", got)
	}
}
