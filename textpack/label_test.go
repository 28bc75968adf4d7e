package textpack

import "testing"

func TestDisplayWidthASCII(t *testing.T) {
	if w := DisplayWidth("hello"); w != 5 {
		t.Fatalf("DisplayWidth(hello) = %d, want 5", w)
	}
}

func TestDisplayWidthWideRunes(t *testing.T) {
	if w := DisplayWidth("日本語"); w != 6 {
		t.Fatalf("DisplayWidth(日本語) = %d, want 6", w)
	}
}

func TestTruncateToWidthASCII(t *testing.T) {
	if got := TruncateToWidth("hello world", 5); got != "hello" {
		t.Fatalf("TruncateToWidth = %q, want %q", got, "hello")
	}
}

func TestTruncateToWidthZeroOrNegative(t *testing.T) {
	if got := TruncateToWidth("hello", 0); got != "" {
		t.Fatalf("TruncateToWidth with maxWidth=0 = %q, want empty", got)
	}
}

func TestTruncateToWidthWideRunesStopsAtBoundary(t *testing.T) {
	// Each wide rune costs 2 cells; a budget of 3 fits one wide rune (2)
	// but not a second (would be 4).
	got := TruncateToWidth("日本語", 3)
	if DisplayWidth(got) > 3 {
		t.Fatalf("TruncateToWidth exceeded budget: %q has width %d", got, DisplayWidth(got))
	}
}
