//go:build darwin

package darwin

import (
	"testing"

	"github.com/clipilot/clipilot/internal/platform"
)

func TestParseWindowList(t *testing.T) {
	out := "501\tclaude — 80x24\n" +
		"7702\tSafari\n" +
		"no tab here\n" +
		"notanumber\ttitle\n" +
		"\n"

	refs := parseWindowList(out)
	want := []platform.WindowRef{
		{PID: 501, Title: "claude — 80x24"},
		{PID: 7702, Title: "Safari"},
	}
	if len(refs) != len(want) {
		t.Fatalf("parsed %d windows, want %d: %v", len(refs), len(want), refs)
	}
	for i, w := range want {
		if refs[i] != w {
			t.Errorf("window %d = %+v, want %+v", i, refs[i], w)
		}
	}
}

func TestLocatorStrategyOrder(t *testing.T) {
	strategies := NewLocator().Strategies()
	want := []string{
		"windows owned by launched pid",
		"title substring match",
		"Terminal.app windows",
	}
	if len(strategies) != len(want) {
		t.Fatalf("got %d strategies, want %d", len(strategies), len(want))
	}
	for i, w := range want {
		if got := strategies[i].Name(); got != w {
			t.Errorf("strategy %d = %q, want %q", i, got, w)
		}
	}
}
