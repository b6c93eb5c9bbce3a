package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clipilot/clipilot/internal/output"
	"github.com/clipilot/clipilot/internal/platform"
	"github.com/clipilot/clipilot/internal/session"
)

// RunResult is the output of a full automation session.
type RunResult struct {
	OK           bool     `yaml:"ok"              json:"ok"`
	Action       string   `yaml:"action"          json:"action"`
	Session      string   `yaml:"session"         json:"session"`
	FinalState   string   `yaml:"final_state"     json:"final_state"`
	StageReached string   `yaml:"stage_reached"   json:"stage_reached"`
	PID          int      `yaml:"pid,omitempty"   json:"pid,omitempty"`
	Message      string   `yaml:"message"         json:"message"`
	Trail        []string `yaml:"trail,omitempty" json:"trail,omitempty"`
}

var runCmd = &cobra.Command{
	Use:   "run [payload]",
	Short: "Launch the target session and deliver a payload into it",
	Long: `Launch the configured command in a new terminal window, bring that
window to the foreground, paste the payload from the clipboard, verify
the paste, and submit it.

The payload comes from the positional argument, --payload,
--payload-file, or stdin, in that order of precedence.

A MANUAL_FALLBACK result is not an error: the payload is on the
clipboard (and usually already pasted) and the trail says what to
finish by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("payload", "", "Payload text to deliver")
	runCmd.Flags().String("payload-file", "", "Read the payload from a file")
	runCmd.Flags().String("command", "", "Command to launch (default from config)")
	runCmd.Flags().String("title", "", "Window title substring hint for window discovery")
	runCmd.Flags().Int("pid", 0, "Process ID hint for window discovery")
	runCmd.Flags().String("cmdline", "", "Command-line substring hint for window discovery")
	runCmd.Flags().Bool("queue", false, "Wait for an in-flight session instead of failing busy")
	runCmd.Flags().Bool("no-submit-on-unverified", false, "Stop before submit when clipboard verification fails")
	runCmd.Flags().Duration("process-ready", 0, "Override the post-launch initialization delay")
	runCmd.Flags().Duration("pre-submit", 0, "Override the deliberate pause before submit")
}

func runRun(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	payload, err := resolvePayload(cmd, args)
	if err != nil {
		return err
	}

	command, _ := cmd.Flags().GetString("command")
	if command == "" {
		command = cfg.Launch.Command
	}
	title, _ := cmd.Flags().GetString("title")
	pid, _ := cmd.Flags().GetInt("pid")
	cmdline, _ := cmd.Flags().GetString("cmdline")
	queue, _ := cmd.Flags().GetBool("queue")
	noSubmitUnverified, _ := cmd.Flags().GetBool("no-submit-on-unverified")

	timing := cfg.Timing
	if d, _ := cmd.Flags().GetDuration("process-ready"); d > 0 {
		timing.ProcessReady = d
	}
	if d, _ := cmd.Flags().GetDuration("pre-submit"); d > 0 {
		timing.PreSubmit = d
	}

	target := platform.ActivationTarget{
		PIDHint:        pid,
		TitleSubstring: title,
		CommandLine:    cmdline,
	}
	if target.TitleSubstring == "" {
		// The launch wrappers echo a recognizable banner and run the
		// command, so the command name usually lands in the title.
		target.TitleSubstring = firstWord(command)
	}

	runner := session.NewRunner(provider, session.Options{
		Timing:                   timing,
		MinVerifyLen:             cfg.Verify.MinLength,
		ProceedOnUnverifiedPaste: cfg.Verify.ProceedOnFailure && !noSubmitUnverified,
		QueueOnBusy:              queue || cfg.Automation.QueueOnBusy,
		Logger:                   logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	outcome, runErr := runner.Run(ctx, payload, target, command)
	if outcome == nil {
		if errors.Is(runErr, session.ErrBusy) {
			return fmt.Errorf("%w; retry with --queue", runErr)
		}
		return runErr
	}

	result := RunResult{
		OK:           outcome.FinalState == session.StateDone,
		Action:       "run",
		Session:      outcome.ID,
		FinalState:   string(outcome.FinalState),
		StageReached: string(outcome.StageReached),
		PID:          outcome.PID,
		Message:      outcome.Message,
		Trail:        outcome.Trail(),
	}
	if err := output.Print(result); err != nil {
		return err
	}
	// FAILED propagates for a non-zero exit code; MANUAL_FALLBACK is a
	// normal outcome.
	return runErr
}

// resolvePayload picks the payload source: positional arg, --payload,
// --payload-file, then piped stdin.
func resolvePayload(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if text, _ := cmd.Flags().GetString("payload"); text != "" {
		return text, nil
	}
	if file, _ := cmd.Flags().GetString("payload-file"); file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read payload file: %w", err)
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			return "", fmt.Errorf("payload file %s is empty", file)
		}
		return text, nil
	}
	if stat, err := os.Stdin.Stat(); err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read payload from stdin: %w", err)
		}
		text := strings.TrimSpace(string(raw))
		if text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("specify a payload as an argument, --payload, --payload-file, or stdin")
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
