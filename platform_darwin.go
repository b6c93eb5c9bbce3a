//go:build darwin

package main

// Registers the macOS backend via its init().
import _ "github.com/clipilot/clipilot/internal/platform/darwin"
