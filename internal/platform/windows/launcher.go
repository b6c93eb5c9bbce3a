//go:build windows

package windows

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/clipilot/clipilot/internal/platform"
)

// Launcher starts the target command in a new cmd window.
type Launcher struct{}

// NewLauncher returns the Windows launcher.
func NewLauncher() *Launcher {
	return &Launcher{}
}

// Launch opens a fresh console window hosting the command via
// `cmd /c start cmd /k`. The returned PID belongs to the outer cmd
// spawner; the locator ladder resolves the actual console window.
func (l *Launcher) Launch(command string) (*platform.SessionHandle, error) {
	wrapped := fmt.Sprintf("echo Session ready for automation... && %s", command)
	cmd := exec.Command("cmd", "/c", "start", "cmd", "/k", wrapped)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start cmd: %w", err)
	}
	go func() { _ = cmd.Wait() }()

	return &platform.SessionHandle{
		PID:        cmd.Process.Pid,
		LaunchedAt: time.Now(),
	}, nil
}
