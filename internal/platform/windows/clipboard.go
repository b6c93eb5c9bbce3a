//go:build windows

package windows

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Clipboard talks to the Windows clipboard through user32. Another
// process can hold the clipboard open at any moment, so opening is
// retried briefly before giving up.
type Clipboard struct{}

// NewClipboard returns the Windows clipboard.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

const (
	clipboardOpenAttempts = 5
	clipboardOpenBackoff  = 50 * time.Millisecond
)

func openClipboard() error {
	for i := 0; i < clipboardOpenAttempts; i++ {
		r, _, _ := procOpenClipboard.Call(0)
		if r != 0 {
			return nil
		}
		time.Sleep(clipboardOpenBackoff)
	}
	return fmt.Errorf("clipboard is held open by another process")
}

func closeClipboard() {
	procCloseClipboard.Call()
}

// GetText reads the current text content from the system clipboard.
func (c *Clipboard) GetText() (string, error) {
	if err := openClipboard(); err != nil {
		return "", err
	}
	defer closeClipboard()

	h, _, _ := procGetClipboardData.Call(cfUnicodeText)
	if h == 0 {
		return "", nil
	}
	p, _, _ := procGlobalLock.Call(h)
	if p == 0 {
		return "", fmt.Errorf("GlobalLock failed")
	}
	defer procGlobalUnlock.Call(h)

	var text []uint16
	for offset := uintptr(0); ; offset += 2 {
		ch := *(*uint16)(unsafe.Pointer(p + offset))
		if ch == 0 {
			break
		}
		text = append(text, ch)
	}
	return windows.UTF16ToString(text), nil
}

// SetText writes text to the system clipboard. Failure here is fatal
// for an automation session: without clipboard content the paste chord
// does nothing.
func (c *Clipboard) SetText(text string) error {
	utf16, err := windows.UTF16FromString(text)
	if err != nil {
		return fmt.Errorf("encode clipboard text: %w", err)
	}

	if err := openClipboard(); err != nil {
		return err
	}
	defer closeClipboard()

	if r, _, _ := procEmptyClipboard.Call(); r == 0 {
		return fmt.Errorf("EmptyClipboard failed")
	}

	size := uintptr(len(utf16) * 2)
	h, _, _ := procGlobalAlloc.Call(gmemMoveable, size)
	if h == 0 {
		return fmt.Errorf("GlobalAlloc failed")
	}
	p, _, _ := procGlobalLock.Call(h)
	if p == 0 {
		procGlobalFree.Call(h)
		return fmt.Errorf("GlobalLock failed")
	}
	for i, ch := range utf16 {
		*(*uint16)(unsafe.Pointer(p + uintptr(i)*2)) = ch
	}
	procGlobalUnlock.Call(h)

	// On success the system owns the allocation.
	if r, _, _ := procSetClipboardData.Call(cfUnicodeText, h); r == 0 {
		procGlobalFree.Call(h)
		return fmt.Errorf("SetClipboardData failed")
	}
	return nil
}

// Clear empties the system clipboard.
func (c *Clipboard) Clear() error {
	if err := openClipboard(); err != nil {
		return err
	}
	defer closeClipboard()
	if r, _, _ := procEmptyClipboard.Call(); r == 0 {
		return fmt.Errorf("EmptyClipboard failed")
	}
	return nil
}
