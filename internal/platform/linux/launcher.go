//go:build linux

package linux

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/clipilot/clipilot/internal/platform"
)

// terminal is one terminal emulator candidate. args wraps a shell
// command so the window stays open after the command exits.
type terminal struct {
	bin  string
	args func(command string) []string
}

// terminalCandidates are tried in order until one is on PATH.
var terminalCandidates = []terminal{
	{"x-terminal-emulator", func(c string) []string { return []string{"-e", "bash", "-c", keepOpen(c)} }},
	{"gnome-terminal", func(c string) []string { return []string{"--", "bash", "-c", keepOpen(c)} }},
	{"konsole", func(c string) []string { return []string{"-e", "bash", "-c", keepOpen(c)} }},
	{"xterm", func(c string) []string { return []string{"-e", "bash", "-c", keepOpen(c)} }},
}

func keepOpen(command string) string {
	return fmt.Sprintf("echo 'Session ready for automation...' && %s; exec bash", command)
}

// Launcher starts the target command in a new terminal window.
type Launcher struct{}

// NewLauncher returns the X11 launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Launch spawns the first available terminal emulator hosting the
// command. The preferred terminal from configuration, if any, is tried
// first.
func (l *Launcher) Launch(command string) (*platform.SessionHandle, error) {
	ordered := make([]terminal, 0, len(terminalCandidates))
	rest := make([]terminal, 0, len(terminalCandidates))
	for _, c := range terminalCandidates {
		if c.bin == platform.PreferredTerminal {
			ordered = append(ordered, c)
		} else {
			rest = append(rest, c)
		}
	}
	ordered = append(ordered, rest...)

	var lastErr error
	for _, c := range ordered {
		if _, err := exec.LookPath(c.bin); err != nil {
			lastErr = err
			continue
		}
		cmd := exec.Command(c.bin, c.args(command)...)
		if err := cmd.Start(); err != nil {
			lastErr = fmt.Errorf("%s: %w", c.bin, err)
			continue
		}
		// The terminal process is intentionally not waited on; reap it
		// in the background so it does not linger as a zombie.
		go func() { _ = cmd.Wait() }()
		return &platform.SessionHandle{
			PID:        cmd.Process.Pid,
			LaunchedAt: time.Now(),
		}, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no terminal emulator found")
	}
	return nil, fmt.Errorf("launch terminal: %w", lastErr)
}
