package textutil

import (
	"reflect"
	"testing"
)

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo world", 5); got != "héllo" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("short", 100); got != "short" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("unchanged", 0); got != "unchanged" {
		t.Fatalf("Truncate = %q", got)
	}
}

func TestTruncateWithEllipsis(t *testing.T) {
	if got := TruncateWithEllipsis("a long title here", 8); got != "a long…" {
		t.Fatalf("TruncateWithEllipsis = %q", got)
	}
	if got := TruncateWithEllipsis("fits", 10); got != "fits" {
		t.Fatalf("TruncateWithEllipsis = %q", got)
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("  one two\n three\tfour  "); got != 4 {
		t.Fatalf("WordCount = %d", got)
	}
	if got := WordCount("   "); got != 0 {
		t.Fatalf("WordCount blank = %d", got)
	}
}

func TestNonBlankLines(t *testing.T) {
	body := "first\n\n  second  \n\t\nthird\nfourth\nfifth\nsixth\n"
	got := NonBlankLines(body, 5)
	want := []string{"first", "second", "third", "fourth", "fifth"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NonBlankLines = %v, want %v", got, want)
	}
	if lines := NonBlankLines("", 5); len(lines) != 0 {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

func TestTitleCase(t *testing.T) {
	if got := TitleCase("change request"); got != "Change Request" {
		t.Fatalf("TitleCase = %q", got)
	}
}
