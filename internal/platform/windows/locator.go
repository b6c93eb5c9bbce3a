//go:build windows

package windows

import (
	"strings"
	"time"

	"golang.org/x/sys/windows"

	"github.com/clipilot/clipilot/internal/platform"
)

// Locator finds session windows by enumerating top-level windows.
type Locator struct{}

// NewLocator returns the Windows window locator.
func NewLocator() *Locator {
	return &Locator{}
}

func (l *Locator) Strategies() []platform.LocateStrategy {
	return []platform.LocateStrategy{
		byPID{},
		byTitle{},
		byImagePath{},
	}
}

func listWindows() []platform.WindowRef {
	infos := enumWindows()
	refs := make([]platform.WindowRef, 0, len(infos))
	for _, w := range infos {
		refs = append(refs, platform.WindowRef{
			ID:    uint64(w.hwnd),
			PID:   w.pid,
			Title: w.title,
		})
	}
	return refs
}

type byPID struct{}

func (byPID) Name() string { return "windows owned by launched pid" }

func (byPID) Locate(target platform.ActivationTarget, handle *platform.SessionHandle) ([]platform.WindowRef, error) {
	pid := handle.PID
	if target.PIDHint != 0 {
		pid = target.PIDHint
	}
	return platform.FilterByPID(listWindows(), pid), nil
}

type byTitle struct{}

func (byTitle) Name() string { return "title substring match" }

func (byTitle) Locate(target platform.ActivationTarget, handle *platform.SessionHandle) ([]platform.WindowRef, error) {
	return platform.FilterByTitle(listWindows(), target.TitleSubstring), nil
}

// byImagePath is the best-effort fallback: windows of processes whose
// executable path contains the command-line hint and that started
// after the session launch.
type byImagePath struct{}

func (byImagePath) Name() string { return "image path of owning process" }

func (byImagePath) Locate(target platform.ActivationTarget, handle *platform.SessionHandle) ([]platform.WindowRef, error) {
	if target.CommandLine == "" {
		return nil, nil
	}
	var out []platform.WindowRef
	for _, r := range listWindows() {
		path, created, err := processImage(uint32(r.PID))
		if err != nil {
			continue
		}
		if created.Before(handle.LaunchedAt.Add(-time.Second)) {
			continue
		}
		if strings.Contains(strings.ToLower(path), strings.ToLower(target.CommandLine)) {
			out = append(out, r)
		}
	}
	return out, nil
}

// processImage returns the executable path and creation time of pid.
func processImage(pid uint32) (string, time.Time, error) {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return "", time.Time{}, err
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return "", time.Time{}, err
	}

	var creation, exit, kernel, user windows.Filetime
	if err := windows.GetProcessTimes(h, &creation, &exit, &kernel, &user); err != nil {
		return "", time.Time{}, err
	}
	return windows.UTF16ToString(buf[:size]), time.Unix(0, creation.Nanoseconds()), nil
}
