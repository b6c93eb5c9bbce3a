package session

import "time"

// Timing holds the settle delays between automation stages. Synthetic
// input races with the target program's own event loop, so every value
// here is empirically tuned rather than protocol-guaranteed, and must
// stay adjustable. Tests inject a no-op sleep instead of zeroing these.
type Timing struct {
	// ProcessReady is how long the target session gets to initialize
	// after launch before automation proceeds.
	ProcessReady time.Duration `mapstructure:"process_ready" yaml:"process_ready"`

	// PreActivation runs between window discovery and the first
	// activation attempt.
	PreActivation time.Duration `mapstructure:"pre_activation" yaml:"pre_activation"`

	// PostActivationSettle runs after focus is confirmed, before paste.
	PostActivationSettle time.Duration `mapstructure:"post_activation_settle" yaml:"post_activation_settle"`

	// PastePropagation runs after the paste chord, before the cursor
	// confirmation keystroke.
	PastePropagation time.Duration `mapstructure:"paste_propagation" yaml:"paste_propagation"`

	// CursorConfirm runs after the cursor confirmation keystroke,
	// before the clipboard is re-read for verification.
	CursorConfirm time.Duration `mapstructure:"cursor_confirm" yaml:"cursor_confirm"`

	// PostPasteSettle lets the target program finish ingesting the
	// pasted text.
	PostPasteSettle time.Duration `mapstructure:"post_paste_settle" yaml:"post_paste_settle"`

	// PreSubmit is a deliberate pause before the submit keystroke so
	// the target program finishes rendering the pasted text.
	PreSubmit time.Duration `mapstructure:"pre_submit" yaml:"pre_submit"`
}

// DefaultTiming returns the tuned defaults.
func DefaultTiming() Timing {
	return Timing{
		ProcessReady:         2000 * time.Millisecond,
		PreActivation:        500 * time.Millisecond,
		PostActivationSettle: 300 * time.Millisecond,
		PastePropagation:     600 * time.Millisecond,
		CursorConfirm:        200 * time.Millisecond,
		PostPasteSettle:      1200 * time.Millisecond,
		PreSubmit:            2000 * time.Millisecond,
	}
}
