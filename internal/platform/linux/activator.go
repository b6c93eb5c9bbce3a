//go:build linux

package linux

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clipilot/clipilot/internal/platform"
)

// Activator brings a session window to foreground focus.
type Activator struct{}

// NewActivator returns the X11 activator.
func NewActivator() *Activator {
	return &Activator{}
}

// Strategies returns the activation ladder: a cooperative request
// first, then title re-resolution (the launch-time window id may be
// stale), then a forced map-raise-focus sequence.
func (a *Activator) Strategies() []platform.ActivateStrategy {
	return []platform.ActivateStrategy{
		cooperativeActivate{},
		titleReactivate{},
		forcedActivate{},
	}
}

// isActiveWindow re-queries the window manager instead of trusting the
// activation call's exit status, which can succeed while the WM
// silently refuses the focus change.
func isActiveWindow(id uint64) bool {
	out, err := exec.Command("xdotool", "getactivewindow").Output()
	if err != nil {
		return false
	}
	active, err := strconv.ParseUint(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return false
	}
	return active == id
}

type cooperativeActivate struct{}

func (cooperativeActivate) Name() string { return "cooperative activation request" }

func (cooperativeActivate) Activate(ref platform.WindowRef) (bool, error) {
	if err := exec.Command("wmctrl", "-ia", fmt.Sprintf("0x%08x", ref.ID)).Run(); err != nil {
		return false, fmt.Errorf("wmctrl -ia: %w", err)
	}
	return isActiveWindow(ref.ID), nil
}

type titleReactivate struct{}

func (titleReactivate) Name() string { return "re-resolve by title and activate" }

func (titleReactivate) Activate(ref platform.WindowRef) (bool, error) {
	if ref.Title == "" {
		return false, nil
	}
	out, err := exec.Command("xdotool", "search", "--name", ref.Title).Output()
	if err != nil {
		return false, fmt.Errorf("xdotool search: %w", err)
	}
	lines := strings.Fields(strings.TrimSpace(string(out)))
	if len(lines) == 0 {
		return false, nil
	}
	// Newest window last; that is the one the stale handle refers to.
	id, err := strconv.ParseUint(lines[len(lines)-1], 10, 64)
	if err != nil {
		return false, err
	}
	if err := exec.Command("xdotool", "windowactivate", strconv.FormatUint(id, 10)).Run(); err != nil {
		return false, fmt.Errorf("xdotool windowactivate: %w", err)
	}
	return isActiveWindow(id), nil
}

type forcedActivate struct{}

func (forcedActivate) Name() string { return "forced raise and focus" }

func (forcedActivate) Activate(ref platform.WindowRef) (bool, error) {
	id := strconv.FormatUint(ref.ID, 10)
	// Already-mapped windows make windowmap fail; not significant.
	_ = exec.Command("xdotool", "windowmap", id).Run()
	if err := exec.Command("xdotool", "windowraise", id).Run(); err != nil {
		return false, fmt.Errorf("xdotool windowraise: %w", err)
	}
	if err := exec.Command("xdotool", "windowactivate", "--sync", id).Run(); err != nil {
		return false, fmt.Errorf("xdotool windowactivate: %w", err)
	}
	if err := exec.Command("xdotool", "windowfocus", id).Run(); err != nil {
		return false, fmt.Errorf("xdotool windowfocus: %w", err)
	}
	return isActiveWindow(ref.ID), nil
}
