//go:build windows

package main

// Registers the Win32 backend via its init().
import _ "github.com/clipilot/clipilot/internal/platform/windows"
