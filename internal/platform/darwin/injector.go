//go:build darwin

package darwin

import (
	"fmt"
	"os/exec"

	"github.com/clipilot/clipilot/internal/platform"
)

// Injector synthesizes keystrokes through System Events. Requires the
// Accessibility permission for the hosting process.
type Injector struct{}

// NewInjector returns the macOS key injector.
func NewInjector() *Injector {
	return &Injector{}
}

func keystroke(script string) error {
	full := fmt.Sprintf(`tell application "System Events" to %s`, script)
	if err := exec.Command("osascript", "-e", full).Run(); err != nil {
		return fmt.Errorf("osascript keystroke: %w", err)
	}
	return nil
}

// Paste sends Cmd+V to the focused window.
func (i *Injector) Paste() error {
	return keystroke(`keystroke "v" using command down`)
}

// ConfirmCursor presses End (key code 119) so the target program
// processes the pasted text before submit.
func (i *Injector) ConfirmCursor() error {
	return keystroke(`key code 119`)
}

// SubmitStrategies returns the submit ladder: the return keystroke,
// the raw Return key code, then keypad Enter, which some terminal
// programs handle on a separate code path.
func (i *Injector) SubmitStrategies() []platform.SubmitStrategy {
	return []platform.SubmitStrategy{
		submitKeystrokeReturn{},
		submitKeyCodeReturn{},
		submitKeypadEnter{},
	}
}

type submitKeystrokeReturn struct{}

func (submitKeystrokeReturn) Name() string { return "return keystroke" }

func (submitKeystrokeReturn) Submit(ref platform.WindowRef) (bool, error) {
	if err := keystroke(`keystroke return`); err != nil {
		return false, err
	}
	return true, nil
}

type submitKeyCodeReturn struct{}

func (submitKeyCodeReturn) Name() string { return "Return key code" }

func (submitKeyCodeReturn) Submit(ref platform.WindowRef) (bool, error) {
	if err := keystroke(`key code 36`); err != nil {
		return false, err
	}
	return true, nil
}

type submitKeypadEnter struct{}

func (submitKeypadEnter) Name() string { return "keypad Enter key code" }

func (submitKeypadEnter) Submit(ref platform.WindowRef) (bool, error) {
	if err := keystroke(`key code 76`); err != nil {
		return false, err
	}
	return true, nil
}
