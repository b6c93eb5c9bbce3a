// Package config loads clipilot configuration: the timing profile,
// verification policy, and launch preferences. Values come from
// defaults, then ~/.clipilot.yaml, then CLIPILOT_* environment
// variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/clipilot/clipilot/internal/session"
)

// Config is the complete clipilot configuration.
type Config struct {
	Timing     session.Timing   `mapstructure:"timing"`
	Verify     VerifyConfig     `mapstructure:"verify"`
	Launch     LaunchConfig     `mapstructure:"launch"`
	Automation AutomationConfig `mapstructure:"automation"`
}

// VerifyConfig controls clipboard verification after paste.
type VerifyConfig struct {
	// MinLength is the clipboard length threshold. Content equality is
	// never checked.
	MinLength int `mapstructure:"min_length"`
	// ProceedOnFailure continues to submit even when verification
	// fails, matching the historical behavior of this flow.
	ProceedOnFailure bool `mapstructure:"proceed_on_failure"`
}

// LaunchConfig controls how the target session is started.
type LaunchConfig struct {
	// Command is the default command to run in the new terminal.
	Command string `mapstructure:"command"`
	// Terminal is the preferred terminal emulator (Linux only).
	Terminal string `mapstructure:"terminal"`
}

// AutomationConfig controls session-level behavior.
type AutomationConfig struct {
	// QueueOnBusy makes a second run wait for the in-flight session
	// instead of being rejected.
	QueueOnBusy bool `mapstructure:"queue_on_busy"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Timing: session.DefaultTiming(),
		Verify: VerifyConfig{
			MinLength:        session.MinVerifyLen,
			ProceedOnFailure: true,
		},
		Launch: LaunchConfig{
			Command: "claude",
		},
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	d := Default()

	viper.SetDefault("timing.process_ready", d.Timing.ProcessReady)
	viper.SetDefault("timing.pre_activation", d.Timing.PreActivation)
	viper.SetDefault("timing.post_activation_settle", d.Timing.PostActivationSettle)
	viper.SetDefault("timing.paste_propagation", d.Timing.PastePropagation)
	viper.SetDefault("timing.cursor_confirm", d.Timing.CursorConfirm)
	viper.SetDefault("timing.post_paste_settle", d.Timing.PostPasteSettle)
	viper.SetDefault("timing.pre_submit", d.Timing.PreSubmit)

	viper.SetDefault("verify.min_length", d.Verify.MinLength)
	viper.SetDefault("verify.proceed_on_failure", d.Verify.ProceedOnFailure)

	viper.SetDefault("launch.command", d.Launch.Command)
	viper.SetDefault("launch.terminal", d.Launch.Terminal)

	viper.SetDefault("automation.queue_on_busy", d.Automation.QueueOnBusy)
}

// Load reads the configuration from file and environment.
func Load() (Config, error) {
	SetDefaults()

	viper.SetConfigName(".clipilot")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.AddConfigPath(filepath.Join(home, ".config", "clipilot"))
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("CLIPILOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; anything else is not.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
