package classify

import (
	"strings"
	"testing"
)

func TestExtractContext_MiddleOfLog(t *testing.T) {
	log := "a\nb\nc\nMATCH here\nd\ne\nf\n"
	offset := strings.Index(log, "MATCH")

	got := ExtractContext(log, offset, 3)
	want := "a\nb\nc\nMATCH here\nd\ne"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExtractContext_OffsetZero(t *testing.T) {
	log := "first\nsecond\nthird\nfourth\n"
	got := ExtractContext(log, 0, 3)
	want := "first\nsecond\nthird"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExtractContext_OffsetAtEnd(t *testing.T) {
	log := "first\nsecond\nthird\n"
	got := ExtractContext(log, len(log), 2)
	want := "second\nthird"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExtractContext_EmptyText(t *testing.T) {
	if got := ExtractContext("", 0, 3); got != "" {
		t.Errorf("expected empty context, got %q", got)
	}
}

func TestExtractContext_OffsetOutOfRange(t *testing.T) {
	log := "only line\n"
	if got := ExtractContext(log, 9999, 3); got != "only line" {
		t.Errorf("expected clamped offset, got %q", got)
	}
	if got := ExtractContext(log, -5, 3); got != "only line" {
		t.Errorf("expected clamped negative offset, got %q", got)
	}
}

func TestExtractContext_ShortWindows(t *testing.T) {
	log := "a\nb\n"
	// Fewer lines available than the window asks for.
	if got := ExtractContext(log, 0, 10); got != "a\nb" {
		t.Errorf("expected all lines, got %q", got)
	}
	// Zero-size window.
	if got := ExtractContext(log, 2, 0); got != "" {
		t.Errorf("expected empty context for window 0, got %q", got)
	}
}

func TestExtractContext_MidLineOffset(t *testing.T) {
	log := "one\ntwo three\nfour\n"
	offset := strings.Index(log, "three")

	got := ExtractContext(log, offset, 1)
	// The partial prefix counts as the last "before" line; the remainder of
	// the match's line leads the "after" segment.
	want := "two \nthree"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
