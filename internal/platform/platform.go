package platform

// Launcher starts the target session in a new terminal window.
type Launcher interface {
	// Launch spawns the command and returns as soon as the OS confirms
	// process creation. It does not wait for the program inside the
	// terminal to finish initializing.
	Launch(command string) (*SessionHandle, error)
}

// LocateStrategy is one way of finding the windows that belong to a
// launched session. Strategies are tried in priority order; the first
// one that returns a non-empty slice wins. An empty result is not an
// error.
type LocateStrategy interface {
	Name() string
	Locate(target ActivationTarget, handle *SessionHandle) ([]WindowRef, error)
}

// Locator exposes the ordered ladder of window discovery strategies.
type Locator interface {
	Strategies() []LocateStrategy
}

// ActivateStrategy is one way of bringing a window to foreground input
// focus. Attempt returns true only when the strategy believes the
// window now holds focus; where the OS allows it, implementations
// re-query the foreground window instead of trusting the call's return
// value.
type ActivateStrategy interface {
	Name() string
	Activate(ref WindowRef) (bool, error)
}

// Activator exposes the ordered ladder of activation strategies.
type Activator interface {
	Strategies() []ActivateStrategy
}

// ClipboardManager reads and writes the system clipboard.
type ClipboardManager interface {
	GetText() (string, error)
	SetText(text string) error
	Clear() error
}

// SubmitStrategy is one way of delivering the submit keystroke to the
// foregrounded window.
type SubmitStrategy interface {
	Name() string
	Submit(ref WindowRef) (bool, error)
}

// Injector synthesizes keyboard input for the foregrounded window.
type Injector interface {
	// Paste sends the platform paste chord (Ctrl+V / Cmd+V). Single
	// strategy: paste is a simple, low-risk synthetic event.
	Paste() error

	// ConfirmCursor nudges the text cursor (an End keypress) so the
	// target program processes the paste before submit. Best-effort.
	ConfirmCursor() error

	// SubmitStrategies returns the ordered submit ladder.
	SubmitStrategies() []SubmitStrategy
}

// Provider bundles all platform backends for the current OS.
type Provider struct {
	Launcher  Launcher
	Locator   Locator
	Activator Activator
	Clipboard ClipboardManager
	Injector  Injector
}

// PreferredTerminal is the terminal emulator to try first when
// launching the target session, set by the root command from
// configuration. Only meaningful on platforms with more than one
// common terminal (Linux).
var PreferredTerminal string

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/linux/init.go for the X11 registration.
var NewProviderFunc func() (*Provider, error)

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
