//go:build windows

package windows

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW     = user32.NewProc("GetWindowTextLengthW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procIsWindowVisible          = user32.NewProc("IsWindowVisible")
	procSetForegroundWindow      = user32.NewProc("SetForegroundWindow")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procShowWindow               = user32.NewProc("ShowWindow")
	procBringWindowToTop         = user32.NewProc("BringWindowToTop")
	procAttachThreadInput        = user32.NewProc("AttachThreadInput")
	procKeybdEvent               = user32.NewProc("keybd_event")
	procSendInput                = user32.NewProc("SendInput")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procOpenClipboard            = user32.NewProc("OpenClipboard")
	procCloseClipboard           = user32.NewProc("CloseClipboard")
	procEmptyClipboard           = user32.NewProc("EmptyClipboard")
	procSetClipboardData         = user32.NewProc("SetClipboardData")
	procGetClipboardData         = user32.NewProc("GetClipboardData")

	procGlobalAlloc  = kernel32.NewProc("GlobalAlloc")
	procGlobalLock   = kernel32.NewProc("GlobalLock")
	procGlobalUnlock = kernel32.NewProc("GlobalUnlock")
	procGlobalFree   = kernel32.NewProc("GlobalFree")
)

const (
	swRestore = 9
	swShow    = 5

	vkControl = 0x11
	vkV       = 0x56
	vkEnd     = 0x23
	vkReturn  = 0x0D

	keyeventfKeyup = 0x0002

	wmKeydown = 0x0100
	wmKeyup   = 0x0101
	wmChar    = 0x0102

	cfUnicodeText = 13
	gmemMoveable  = 0x0002
)

// enumWindows collects visible, titled top-level windows.
func enumWindows() []winInfo {
	var out []winInfo
	cb := syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		if visible, _, _ := procIsWindowVisible.Call(hwnd); visible == 0 {
			return 1
		}
		length, _, _ := procGetWindowTextLengthW.Call(hwnd)
		if length == 0 {
			return 1
		}
		buf := make([]uint16, length+1)
		procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), length+1)
		var pid uint32
		procGetWindowThreadProcessId.Call(hwnd, uintptr(unsafe.Pointer(&pid)))
		out = append(out, winInfo{
			hwnd:  hwnd,
			pid:   int(pid),
			title: windows.UTF16ToString(buf),
		})
		return 1
	})
	procEnumWindows.Call(cb, 0)
	return out
}

type winInfo struct {
	hwnd  uintptr
	pid   int
	title string
}

func foregroundWindow() uintptr {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return hwnd
}

func windowThreadID(hwnd uintptr) uint32 {
	tid, _, _ := procGetWindowThreadProcessId.Call(hwnd, 0)
	return uint32(tid)
}

func keybdEvent(vk byte, flags uint32) {
	procKeybdEvent.Call(uintptr(vk), 0, uintptr(flags), 0)
}

// keybdInput mirrors the Win32 KEYBDINPUT struct.
type keybdInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// input mirrors the Win32 INPUT struct for keyboard events, padded to
// the size of the full union on 64-bit.
type input struct {
	Type uint32
	_    uint32
	Ki   keybdInput
	_    [8]byte
}

const inputKeyboard = 1

// sendInputKey injects a key-down/key-up pair through SendInput.
// Returns false when the system swallowed the events.
func sendInputKey(vk uint16) bool {
	events := []input{
		{Type: inputKeyboard, Ki: keybdInput{Vk: vk}},
		{Type: inputKeyboard, Ki: keybdInput{Vk: vk, Flags: keyeventfKeyup}},
	}
	n, _, _ := procSendInput.Call(
		uintptr(len(events)),
		uintptr(unsafe.Pointer(&events[0])),
		unsafe.Sizeof(events[0]))
	return n == uintptr(len(events))
}
