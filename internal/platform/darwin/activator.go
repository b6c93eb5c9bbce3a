//go:build darwin

package darwin

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clipilot/clipilot/internal/platform"
)

// Activator brings a session window to foreground focus via System
// Events. The OS may refuse cooperative requests under focus
// protection, hence the ladder.
type Activator struct{}

// NewActivator returns the macOS activator.
func NewActivator() *Activator {
	return &Activator{}
}

func (a *Activator) Strategies() []platform.ActivateStrategy {
	return []platform.ActivateStrategy{
		cooperativeActivate{},
		titleReactivate{},
		forcedActivate{},
	}
}

// frontmostPID re-queries which process currently owns focus.
func frontmostPID() (int, bool) {
	out, err := exec.Command("osascript", "-e",
		`tell application "System Events" to get unix id of first process whose frontmost is true`).Output()
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil {
		return 0, false
	}
	return pid, true
}

type cooperativeActivate struct{}

func (cooperativeActivate) Name() string { return "cooperative activation request" }

func (cooperativeActivate) Activate(ref platform.WindowRef) (bool, error) {
	script := fmt.Sprintf(
		`tell application "System Events" to set frontmost of (first process whose unix id is %d) to true`, ref.PID)
	if err := exec.Command("osascript", "-e", script).Run(); err != nil {
		return false, fmt.Errorf("osascript frontmost: %w", err)
	}
	pid, ok := frontmostPID()
	return ok && pid == ref.PID, nil
}

type titleReactivate struct{}

func (titleReactivate) Name() string { return "re-resolve by title and raise" }

func (titleReactivate) Activate(ref platform.WindowRef) (bool, error) {
	if ref.Title == "" {
		return false, nil
	}
	script := fmt.Sprintf(`tell application "System Events"
	repeat with p in (application processes whose background only is false)
		repeat with w in windows of p
			if name of w contains "%s" then
				set frontmost of p to true
				perform action "AXRaise" of w
				return unix id of p
			end if
		end repeat
	end repeat
end tell
return 0`, escapeAppleScript(ref.Title))
	out, err := exec.Command("osascript", "-e", script).Output()
	if err != nil {
		return false, fmt.Errorf("osascript raise: %w", err)
	}
	raised, err := strconv.Atoi(strings.TrimSpace(string(out)))
	if err != nil || raised == 0 {
		return false, nil
	}
	pid, ok := frontmostPID()
	return ok && pid == raised, nil
}

// forcedActivate falls back to activating the hosting Terminal
// application outright; its frontmost window is the newest session.
type forcedActivate struct{}

func (forcedActivate) Name() string { return "activate hosting terminal app" }

func (forcedActivate) Activate(ref platform.WindowRef) (bool, error) {
	if err := exec.Command("osascript", "-e", `tell application "Terminal" to activate`).Run(); err != nil {
		return false, fmt.Errorf("osascript activate Terminal: %w", err)
	}
	out, err := exec.Command("osascript", "-e",
		`tell application "System Events" to get name of first process whose frontmost is true`).Output()
	if err != nil {
		return false, nil
	}
	return strings.TrimSpace(string(out)) == "Terminal", nil
}
