//go:build windows

package windows

import (
	"fmt"
	"time"

	"github.com/clipilot/clipilot/internal/platform"
)

// Injector synthesizes keystrokes for the foregrounded console.
type Injector struct{}

// NewInjector returns the Windows key injector.
func NewInjector() *Injector {
	return &Injector{}
}

// Paste sends the Ctrl+V chord.
func (i *Injector) Paste() error {
	keybdEvent(vkControl, 0)
	keybdEvent(vkV, 0)
	keybdEvent(vkV, keyeventfKeyup)
	keybdEvent(vkControl, keyeventfKeyup)
	return nil
}

// ConfirmCursor presses End so the console processes the pasted text
// before submit.
func (i *Injector) ConfirmCursor() error {
	keybdEvent(vkEnd, 0)
	keybdEvent(vkEnd, keyeventfKeyup)
	return nil
}

// SubmitStrategies returns the submit ladder: Enter through SendInput,
// Enter through the legacy keybd_event queue, then a raw pair plus a
// character message posted straight to the window, bypassing the
// event queue entirely.
func (i *Injector) SubmitStrategies() []platform.SubmitStrategy {
	return []platform.SubmitStrategy{
		submitSendInput{},
		submitKeybdEvent{},
		submitPostMessage{},
	}
}

type submitSendInput struct{}

func (submitSendInput) Name() string { return "Enter via SendInput" }

func (submitSendInput) Submit(ref platform.WindowRef) (bool, error) {
	if !sendInputKey(vkReturn) {
		return false, fmt.Errorf("SendInput swallowed the Enter events")
	}
	return true, nil
}

type submitKeybdEvent struct{}

func (submitKeybdEvent) Name() string { return "Enter via keybd_event" }

func (submitKeybdEvent) Submit(ref platform.WindowRef) (bool, error) {
	keybdEvent(vkReturn, 0)
	time.Sleep(50 * time.Millisecond)
	keybdEvent(vkReturn, keyeventfKeyup)
	return true, nil
}

// submitPostMessage posts WM_KEYDOWN/WM_CHAR/WM_KEYUP with the Enter
// character code directly to the target window.
type submitPostMessage struct{}

func (submitPostMessage) Name() string { return "Enter posted to window" }

func (submitPostMessage) Submit(ref platform.WindowRef) (bool, error) {
	hwnd := uintptr(ref.ID)
	if hwnd == 0 {
		hwnd = foregroundWindow()
	}
	if hwnd == 0 {
		return false, fmt.Errorf("no window to post to")
	}
	if r, _, _ := procPostMessageW.Call(hwnd, wmKeydown, vkReturn, 0); r == 0 {
		return false, fmt.Errorf("PostMessage WM_KEYDOWN failed")
	}
	time.Sleep(50 * time.Millisecond)
	procPostMessageW.Call(hwnd, wmChar, 13, 0)
	procPostMessageW.Call(hwnd, wmKeyup, vkReturn, 0)
	return true, nil
}
