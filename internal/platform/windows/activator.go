//go:build windows

package windows

import (
	"fmt"

	"golang.org/x/sys/windows"

	"github.com/clipilot/clipilot/internal/platform"
)

// Activator brings a session window to the foreground. Windows
// enforces focus-stealing prevention for cooperative requests, so the
// last rung attaches to the target's input thread to bypass it.
type Activator struct{}

// NewActivator returns the Windows activator.
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

type cooperativeActivate struct{}

func (cooperativeActivate) Name() string { return "cooperative SetForegroundWindow" }

func (cooperativeActivate) Activate(ref platform.WindowRef) (bool, error) {
	if ref.ID == 0 {
		return false, nil
	}
	hwnd := uintptr(ref.ID)
	procShowWindow.Call(hwnd, swRestore)
	procSetForegroundWindow.Call(hwnd)
	// The call can report success while the shell refuses the focus
	// change; trust only the re-queried foreground window.
	return foregroundWindow() == hwnd, nil
}

type titleReactivate struct{}

func (titleReactivate) Name() string { return "re-resolve by title and focus" }

func (titleReactivate) Activate(ref platform.WindowRef) (bool, error) {
	if ref.Title == "" {
		return false, nil
	}
	matches := platform.FilterByTitle(listWindows(), ref.Title)
	if len(matches) == 0 {
		return false, nil
	}
	hwnd := uintptr(matches[0].ID)
	procShowWindow.Call(hwnd, swRestore)
	procSetForegroundWindow.Call(hwnd)
	return foregroundWindow() == hwnd, nil
}

type forcedActivate struct{}

func (forcedActivate) Name() string { return "forced activation via AttachThreadInput" }

func (forcedActivate) Activate(ref platform.WindowRef) (bool, error) {
	if ref.ID == 0 {
		return false, nil
	}
	hwnd := uintptr(ref.ID)
	target := windowThreadID(hwnd)
	if target == 0 {
		return false, fmt.Errorf("window %d has no input thread", ref.ID)
	}
	current := windows.GetCurrentThreadId()

	attached := false
	if current != target {
		r, _, _ := procAttachThreadInput.Call(uintptr(current), uintptr(target), 1)
		attached = r != 0
	}
	procShowWindow.Call(hwnd, swShow)
	procBringWindowToTop.Call(hwnd)
	procSetForegroundWindow.Call(hwnd)
	if attached {
		procAttachThreadInput.Call(uintptr(current), uintptr(target), 0)
	}
	return foregroundWindow() == hwnd, nil
}
