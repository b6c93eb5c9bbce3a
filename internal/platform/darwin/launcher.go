//go:build darwin

package darwin

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/clipilot/clipilot/internal/platform"
)

// Launcher starts the target command in a new Terminal.app window.
type Launcher struct{}

// NewLauncher returns the macOS launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Launch opens a new Terminal window running the command. The returned
// PID is the osascript spawner's, not the shell inside the window, so
// callers must expect the title-based locator strategies to do the
// real work on this platform.
func (l *Launcher) Launch(command string) (*platform.SessionHandle, error) {
	script := fmt.Sprintf(`tell application "Terminal"
	do script "echo 'Session ready for automation...' && %s"
	activate
end tell`, escapeAppleScript(command))

	cmd := exec.Command("osascript", "-e", script)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("osascript: %w", err)
	}
	go func() { _ = cmd.Wait() }()

	return &platform.SessionHandle{
		PID:        cmd.Process.Pid,
		LaunchedAt: time.Now(),
	}, nil
}

// escapeAppleScript escapes a string for embedding in a double-quoted
// AppleScript literal.
func escapeAppleScript(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' || r == '\\' {
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
