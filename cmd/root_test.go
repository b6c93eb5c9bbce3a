package cmd

import (
	"strings"
	"testing"
)

func TestSubcommandsRegistered(t *testing.T) {
	want := []string{"run", "launch", "focus", "clipboard", "serve"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestClipboardSubcommands(t *testing.T) {
	want := []string{"read", "write", "clear", "verify"}
	for _, name := range want {
		found := false
		for _, c := range clipboardCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("clipboard subcommand %q not registered", name)
		}
	}
}

func TestRootVersionSet(t *testing.T) {
	if rootCmd.Version == "" {
		t.Error("root command version should be set")
	}
	if !strings.Contains(rootCmd.Version, "commit:") {
		t.Errorf("version %q should carry the commit", rootCmd.Version)
	}
}

func TestPersistentFlags(t *testing.T) {
	for _, name := range []string{"format", "pretty", "debug"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("persistent flag --%s not registered", name)
		}
	}
}
