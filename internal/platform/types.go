package platform

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrUnsupported is returned on platforms without a registered backend.
var ErrUnsupported = fmt.Errorf("clipilot is not supported on %s/%s; supported: windows, darwin, linux (X11)", runtime.GOOS, runtime.GOARCH)

// SessionHandle identifies a launched target session. It is created by
// the Launcher and immutable afterwards.
type SessionHandle struct {
	PID        int
	WindowID   uint64 // native window handle when the launcher knows it, 0 otherwise
	LaunchedAt time.Time
}

// ActivationTarget carries the caller's discovery hints for finding the
// session window when the launch handle alone is not enough.
type ActivationTarget struct {
	PIDHint        int
	TitleSubstring string
	CommandLine    string // substring matched against the owning process's command line
}

// WindowRef is a window found by a LocateStrategy.
type WindowRef struct {
	ID    uint64 // native handle (HWND on Windows, X11 window id, AX index on macOS)
	PID   int
	Title string
}

func (w WindowRef) String() string {
	return fmt.Sprintf("window %d (pid %d, title %q)", w.ID, w.PID, w.Title)
}

// TitleMatches reports whether a window title contains the given
// substring, case-insensitively. An empty substring never matches: a
// locator must not claim every window on the desktop.
func TitleMatches(title, substring string) bool {
	if substring == "" {
		return false
	}
	return strings.Contains(strings.ToLower(title), strings.ToLower(substring))
}

// FilterByPID returns the refs owned by pid, preserving order.
func FilterByPID(refs []WindowRef, pid int) []WindowRef {
	var out []WindowRef
	for _, r := range refs {
		if r.PID == pid {
			out = append(out, r)
		}
	}
	return out
}

// FilterByTitle returns the refs whose title matches the substring.
func FilterByTitle(refs []WindowRef, substring string) []WindowRef {
	var out []WindowRef
	for _, r := range refs {
		if TitleMatches(r.Title, substring) {
			out = append(out, r)
		}
	}
	return out
}
