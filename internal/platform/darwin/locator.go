//go:build darwin

package darwin

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clipilot/clipilot/internal/platform"
)

// Locator finds session windows through the System Events process
// table. macOS has no stable cross-process window handles without the
// AX C API, so refs carry the owning PID and title; activation works
// from those.
type Locator struct{}

// NewLocator returns the macOS window locator.
func NewLocator() *Locator {
	return &Locator{}
}

func (l *Locator) Strategies() []platform.LocateStrategy {
	return []platform.LocateStrategy{
		byPID{},
		byTitle{},
		byTerminalApp{},
	}
}

const listWindowsScript = `tell application "System Events"
	set out to ""
	repeat with p in (application processes whose background only is false)
		set ppid to unix id of p
		repeat with w in windows of p
			set out to out & ppid & "	" & (name of w) & linefeed
		end repeat
	end repeat
end tell
return out`

// listWindows returns one ref per visible window, tab-separated
// "pid<TAB>title" lines from System Events.
func listWindows() ([]platform.WindowRef, error) {
	out, err := exec.Command("osascript", "-e", listWindowsScript).Output()
	if err != nil {
		return nil, fmt.Errorf("osascript list windows: %w", err)
	}
	return parseWindowList(string(out)), nil
}

func parseWindowList(out string) []platform.WindowRef {
	var refs []platform.WindowRef
	for _, line := range strings.Split(out, "\n") {
		pidStr, title, ok := strings.Cut(line, "\t")
		if !ok {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(pidStr))
		if err != nil {
			continue
		}
		refs = append(refs, platform.WindowRef{PID: pid, Title: strings.TrimSpace(title)})
	}
	return refs
}

type byPID struct{}

func (byPID) Name() string { return "windows owned by launched pid" }

func (byPID) Locate(target platform.ActivationTarget, handle *platform.SessionHandle) ([]platform.WindowRef, error) {
	refs, err := listWindows()
	if err != nil {
		return nil, err
	}
	pid := handle.PID
	if target.PIDHint != 0 {
		pid = target.PIDHint
	}
	return platform.FilterByPID(refs, pid), nil
}

type byTitle struct{}

func (byTitle) Name() string { return "title substring match" }

func (byTitle) Locate(target platform.ActivationTarget, handle *platform.SessionHandle) ([]platform.WindowRef, error) {
	refs, err := listWindows()
	if err != nil {
		return nil, err
	}
	return platform.FilterByTitle(refs, target.TitleSubstring), nil
}

// byTerminalApp is the best-effort fallback: the launcher always hosts
// the session in Terminal.app, so take its windows matching the
// command-line hint, or all of them when no hint is given.
type byTerminalApp struct{}

func (byTerminalApp) Name() string { return "Terminal.app windows" }

func (byTerminalApp) Locate(target platform.ActivationTarget, handle *platform.SessionHandle) ([]platform.WindowRef, error) {
	out, err := exec.Command("osascript", "-e",
		`tell application "System Events" to get unix id of first process whose name is "Terminal"`).Output()
	if err != nil {
		return nil, fmt.Errorf("osascript: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return nil, err
	}
	refs, err := listWindows()
	if err != nil {
		return nil, err
	}
	refs = platform.FilterByPID(refs, pid)
	if target.CommandLine != "" {
		if matched := platform.FilterByTitle(refs, target.CommandLine); len(matched) > 0 {
			return matched, nil
		}
	}
	return refs, nil
}
