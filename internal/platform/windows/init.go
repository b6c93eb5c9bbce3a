//go:build windows

package windows

import "github.com/clipilot/clipilot/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		return &platform.Provider{
			Launcher:  NewLauncher(),
			Locator:   NewLocator(),
			Activator: NewActivator(),
			Clipboard: NewClipboard(),
			Injector:  NewInjector(),
		}, nil
	}
}
