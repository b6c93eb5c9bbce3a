//go:build linux

package linux

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Clipboard talks to the X11 clipboard via xclip, falling back to xsel
// when xclip is not installed.
type Clipboard struct{}

// NewClipboard returns the X11 clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

func clipTool() (string, []string, []string, error) {
	if _, err := exec.LookPath("xclip"); err == nil {
		return "xclip", []string{"-selection", "clipboard", "-in"}, []string{"-selection", "clipboard", "-out"}, nil
	}
	if _, err := exec.LookPath("xsel"); err == nil {
		return "xsel", []string{"--clipboard", "--input"}, []string{"--clipboard", "--output"}, nil
	}
	return "", nil, nil, fmt.Errorf("no clipboard tool found (install xclip or xsel)")
}

// GetText reads the current text content from the system clipboard.
func (c *Clipboard) GetText() (string, error) {
	tool, _, outArgs, err := clipTool()
	if err != nil {
		return "", err
	}
	out, err := exec.Command(tool, outArgs...).Output()
	if err != nil {
		// An empty clipboard makes xclip exit non-zero; report empty.
		if len(out) == 0 {
			return "", nil
		}
		return "", fmt.Errorf("%s: %w", tool, err)
	}
	return string(out), nil
}

// SetText writes text to the system clipboard.
func (c *Clipboard) SetText(text string) error {
	tool, inArgs, _, err := clipTool()
	if err != nil {
		return err
	}
	cmd := exec.Command(tool, inArgs...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", tool, err)
	}
	return nil
}

// Clear empties the system clipboard.
func (c *Clipboard) Clear() error {
	tool, inArgs, _, err := clipTool()
	if err != nil {
		return err
	}
	cmd := exec.Command(tool, inArgs...)
	cmd.Stdin = bytes.NewReader(nil)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", tool, err)
	}
	return nil
}
