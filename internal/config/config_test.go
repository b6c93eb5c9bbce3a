package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Verify.MinLength != 10 {
		t.Errorf("Verify.MinLength = %d, want 10", cfg.Verify.MinLength)
	}
	if !cfg.Verify.ProceedOnFailure {
		t.Error("Verify.ProceedOnFailure should default to true")
	}
	if cfg.Launch.Command != "claude" {
		t.Errorf("Launch.Command = %q, want claude", cfg.Launch.Command)
	}
	if cfg.Automation.QueueOnBusy {
		t.Error("Automation.QueueOnBusy should default to false")
	}
	if cfg.Timing.ProcessReady != 2*time.Second {
		t.Errorf("Timing.ProcessReady = %v, want 2s", cfg.Timing.ProcessReady)
	}
	if cfg.Timing.PreSubmit != 2*time.Second {
		t.Errorf("Timing.PreSubmit = %v, want 2s", cfg.Timing.PreSubmit)
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() without overrides = %+v, want defaults %+v", cfg, Default())
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("CLIPILOT_VERIFY_MIN_LENGTH", "25")
	t.Setenv("CLIPILOT_VERIFY_PROCEED_ON_FAILURE", "false")
	t.Setenv("CLIPILOT_LAUNCH_COMMAND", "claude --resume")
	t.Setenv("CLIPILOT_TIMING_PRE_SUBMIT", "3500ms")
	t.Setenv("CLIPILOT_AUTOMATION_QUEUE_ON_BUSY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Verify.MinLength != 25 {
		t.Errorf("Verify.MinLength = %d, want 25", cfg.Verify.MinLength)
	}
	if cfg.Verify.ProceedOnFailure {
		t.Error("Verify.ProceedOnFailure should be overridden to false")
	}
	if cfg.Launch.Command != "claude --resume" {
		t.Errorf("Launch.Command = %q", cfg.Launch.Command)
	}
	if cfg.Timing.PreSubmit != 3500*time.Millisecond {
		t.Errorf("Timing.PreSubmit = %v, want 3.5s", cfg.Timing.PreSubmit)
	}
	if !cfg.Automation.QueueOnBusy {
		t.Error("Automation.QueueOnBusy should be overridden to true")
	}
}
