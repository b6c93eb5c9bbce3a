//go:build linux

package linux

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/clipilot/clipilot/internal/platform"
)

// Locator finds session windows via wmctrl and xdotool.
type Locator struct{}

// NewLocator returns the X11 window locator.
func NewLocator() *Locator {
	return &Locator{}
}

// Strategies returns the discovery ladder: owning PID first, then
// title substring, then a best-effort scan of windows whose owning
// process matches the command-line hint and started after launch.
func (l *Locator) Strategies() []platform.LocateStrategy {
	return []platform.LocateStrategy{
		byPID{},
		byTitle{},
		byCommandLine{},
	}
}

// listWindows shells out to `wmctrl -lp` and parses the result.
func listWindows() ([]platform.WindowRef, error) {
	out, err := exec.Command("wmctrl", "-lp").Output()
	if err != nil {
		return nil, fmt.Errorf("wmctrl -lp: %w", err)
	}
	return parseWindowList(string(out)), nil
}

// parseWindowList parses `wmctrl -lp` output. Each line is
//
//	0x03400003  0 2412   host Window Title Here
//
// window id, desktop, owning pid, hostname, then the title (which may
// contain spaces).
func parseWindowList(out string) []platform.WindowRef {
	var refs []platform.WindowRef
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimPrefix(fields[0], "0x"), 16, 64)
		if err != nil {
			continue
		}
		pid, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		title := ""
		if len(fields) > 4 {
			title = strings.Join(fields[4:], " ")
		}
		refs = append(refs, platform.WindowRef{ID: id, PID: pid, Title: title})
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

type byCommandLine struct{}

func (byCommandLine) Name() string { return "command line of owning process" }

func (byCommandLine) Locate(target platform.ActivationTarget, handle *platform.SessionHandle) ([]platform.WindowRef, error) {
	if target.CommandLine == "" {
		return nil, nil
	}
	refs, err := listWindows()
	if err != nil {
		return nil, err
	}
	var out []platform.WindowRef
	for _, r := range refs {
		if !processStartedAfter(r.PID, handle.LaunchedAt) {
			continue
		}
		cmdline, err := readCmdline(r.PID)
		if err != nil {
			continue
		}
		if strings.Contains(cmdline, target.CommandLine) {
			out = append(out, r)
		}
	}
	return out, nil
}

// readCmdline returns the process command line with NUL separators
// replaced by spaces.
func readCmdline(pid int) (string, error) {
	raw, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ReplaceAll(string(raw), "\x00", " ")), nil
}

// processStartedAfter approximates the process start time from the
// /proc entry's modification time. Good enough to exclude windows that
// predate the launch.
func processStartedAfter(pid int, t time.Time) bool {
	info, err := os.Stat(fmt.Sprintf("/proc/%d", pid))
	if err != nil {
		return false
	}
	return info.ModTime().After(t.Add(-time.Second))
}
