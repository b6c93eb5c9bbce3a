//go:build linux

package main

// Registers the X11 backend via its init().
import _ "github.com/clipilot/clipilot/internal/platform/linux"
