package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipilot/clipilot/internal/output"
	"github.com/clipilot/clipilot/internal/platform"
	"github.com/clipilot/clipilot/internal/session"
)

// FocusResult is the output of a focus attempt, including the strategy
// trail so a failure explains itself.
type FocusResult struct {
	OK     bool     `yaml:"ok"               json:"ok"`
	Action string   `yaml:"action"           json:"action"`
	Window string   `yaml:"window,omitempty" json:"window,omitempty"`
	PID    int      `yaml:"pid,omitempty"    json:"pid,omitempty"`
	Trail  []string `yaml:"trail,omitempty"  json:"trail,omitempty"`
}

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Locate a session window and bring it to the foreground",
	Long: `Find a window by title substring or PID using the discovery ladder
and run the activation ladder against it. Prints which strategies were
tried and which one succeeded.`,
	RunE: runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
	focusCmd.Flags().String("title", "", "Window title substring")
	focusCmd.Flags().Int("pid", 0, "Owning process ID")
	focusCmd.Flags().String("cmdline", "", "Command-line substring of the owning process")
}

func runFocus(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	pid, _ := cmd.Flags().GetInt("pid")
	cmdline, _ := cmd.Flags().GetString("cmdline")

	if title == "" && pid == 0 && cmdline == "" {
		return fmt.Errorf("specify --title, --pid, or --cmdline")
	}

	target := platform.ActivationTarget{
		PIDHint:        pid,
		TitleSubstring: title,
		CommandLine:    cmdline,
	}
	// Discovery strategies compare against a launch handle; synthesize
	// one for the standalone command.
	handle := &platform.SessionHandle{PID: pid, LaunchedAt: time.Time{}}

	var trail []session.StrategyResult

	var ref platform.WindowRef
	located := false
	for i, s := range provider.Locator.Strategies() {
		refs, err := s.Locate(target, handle)
		res := session.StrategyResult{Stage: session.StageLocate, Index: i + 1, Name: s.Name(), Succeeded: len(refs) > 0}
		if err != nil {
			res.Error = err.Error()
		} else if len(refs) == 0 {
			res.Error = "no matching windows"
		}
		trail = append(trail, res)
		if res.Succeeded {
			ref = refs[0]
			located = true
			break
		}
	}

	activated := false
	if located {
		for i, s := range provider.Activator.Strategies() {
			ok, err := s.Activate(ref)
			res := session.StrategyResult{Stage: session.StageActivate, Index: i + 1, Name: s.Name(), Succeeded: ok && err == nil}
			if err != nil {
				res.Error = err.Error()
			} else if !ok {
				res.Error = "focus request refused"
			}
			trail = append(trail, res)
			if res.Succeeded {
				activated = true
				break
			}
		}
	}

	lines := make([]string, 0, len(trail))
	for _, r := range trail {
		lines = append(lines, r.String())
	}

	result := FocusResult{
		OK:     activated,
		Action: "focus",
		Window: ref.Title,
		PID:    ref.PID,
		Trail:  lines,
	}
	if err := output.Print(result); err != nil {
		return err
	}
	if !located {
		return fmt.Errorf("no window found")
	}
	if !activated {
		return fmt.Errorf("could not focus %s", ref)
	}
	return nil
}
