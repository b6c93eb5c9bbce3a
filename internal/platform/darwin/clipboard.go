//go:build darwin

package darwin

import (
	"fmt"
	"os/exec"
	"strings"
)

// Clipboard talks to the macOS pasteboard via pbcopy/pbpaste.
type Clipboard struct{}

// NewClipboard returns the macOS clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// GetText reads the current text content from the pasteboard.
func (c *Clipboard) GetText() (string, error) {
	out, err := exec.Command("pbpaste").Output()
	if err != nil {
		return "", fmt.Errorf("pbpaste: %w", err)
	}
	return string(out), nil
}

// SetText writes text to the pasteboard.
func (c *Clipboard) SetText(text string) error {
	cmd := exec.Command("pbcopy")
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pbcopy: %w", err)
	}
	return nil
}

// Clear empties the pasteboard.
func (c *Clipboard) Clear() error {
	return c.SetText("")
}
