package cmd

import (
	"github.com/spf13/cobra"

	"github.com/clipilot/clipilot/internal/output"
	"github.com/clipilot/clipilot/internal/platform"
)

// LaunchResult is the output of a successful launch.
type LaunchResult struct {
	OK      bool   `yaml:"ok"      json:"ok"`
	Action  string `yaml:"action"  json:"action"`
	Command string `yaml:"command" json:"command"`
	PID     int    `yaml:"pid"     json:"pid"`
}

var launchCmd = &cobra.Command{
	Use:   "launch",
	Short: "Start the target session in a new terminal window",
	Long: `Start the configured command in a new terminal window without
driving it. Returns as soon as the OS confirms process creation; the
program inside the window may still be initializing.`,
	RunE: runLaunch,
}

func init() {
	rootCmd.AddCommand(launchCmd)
	launchCmd.Flags().String("command", "", "Command to launch (default from config)")
}

func runLaunch(cmd *cobra.Command, args []string) error {
	provider, err := platform.NewProvider()
	if err != nil {
		return err
	}

	command, _ := cmd.Flags().GetString("command")
	if command == "" {
		command = cfg.Launch.Command
	}

	handle, err := provider.Launcher.Launch(command)
	if err != nil {
		return err
	}

	return output.Print(LaunchResult{
		OK:      true,
		Action:  "launch",
		Command: command,
		PID:     handle.PID,
	})
}
