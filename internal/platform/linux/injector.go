//go:build linux

package linux

import (
	"fmt"
	"os/exec"
	"strconv"

	"github.com/clipilot/clipilot/internal/platform"
)

// Injector synthesizes keystrokes with xdotool.
type Injector struct{}

// NewInjector returns the X11 key injector.
func NewInjector() *Injector {
	return &Injector{}
}

// Paste sends Ctrl+V to the focused window.
func (i *Injector) Paste() error {
	if err := exec.Command("xdotool", "key", "--clearmodifiers", "ctrl+v").Run(); err != nil {
		return fmt.Errorf("xdotool key ctrl+v: %w", err)
	}
	return nil
}

// ConfirmCursor presses End so the target program processes the pasted
// text before submit.
func (i *Injector) ConfirmCursor() error {
	if err := exec.Command("xdotool", "key", "--clearmodifiers", "End").Run(); err != nil {
		return fmt.Errorf("xdotool key End: %w", err)
	}
	return nil
}

// SubmitStrategies returns the submit ladder: Return through the
// regular event queue, keypad Enter, then a keystroke addressed
// straight to the window id, sidestepping the focus-dependent queue.
func (i *Injector) SubmitStrategies() []platform.SubmitStrategy {
	return []platform.SubmitStrategy{
		submitReturn{},
		submitKeypadEnter{},
		submitDirectToWindow{},
	}
}

type submitReturn struct{}

func (submitReturn) Name() string { return "Return key" }

func (submitReturn) Submit(ref platform.WindowRef) (bool, error) {
	if err := exec.Command("xdotool", "key", "--clearmodifiers", "Return").Run(); err != nil {
		return false, fmt.Errorf("xdotool key Return: %w", err)
	}
	return true, nil
}

type submitKeypadEnter struct{}

func (submitKeypadEnter) Name() string { return "keypad Enter key" }

func (submitKeypadEnter) Submit(ref platform.WindowRef) (bool, error) {
	if err := exec.Command("xdotool", "key", "--clearmodifiers", "KP_Enter").Run(); err != nil {
		return false, fmt.Errorf("xdotool key KP_Enter: %w", err)
	}
	return true, nil
}

type submitDirectToWindow struct{}

func (submitDirectToWindow) Name() string { return "Return addressed to window" }

func (submitDirectToWindow) Submit(ref platform.WindowRef) (bool, error) {
	if ref.ID == 0 {
		return false, nil
	}
	id := strconv.FormatUint(ref.ID, 10)
	if err := exec.Command("xdotool", "key", "--window", id, "--clearmodifiers", "Return").Run(); err != nil {
		return false, fmt.Errorf("xdotool key --window: %w", err)
	}
	return true, nil
}
