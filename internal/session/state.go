package session

import "fmt"

// State is a position in the automation state machine. The flow is
// linear; ManualFallback and Failed are the two terminal exits.
type State string

const (
	StateInit           State = "INIT"
	StateLaunched       State = "LAUNCHED"
	StateReady          State = "READY"
	StateLocated        State = "LOCATED"
	StateActivated      State = "ACTIVATED"
	StatePasted         State = "PASTED"
	StateVerified       State = "VERIFIED"
	StateSettled        State = "SETTLED"
	StateSubmitted      State = "SUBMITTED"
	StateDone           State = "DONE"
	StateManualFallback State = "MANUAL_FALLBACK"
	StateFailed         State = "FAILED"
)

// Terminal reports whether the state ends a session run.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateManualFallback, StateFailed:
		return true
	}
	return false
}

// Stage names the capability a strategy attempt belongs to.
type Stage string

const (
	StageLaunch   Stage = "launch"
	StageLocate   Stage = "locate"
	StageActivate Stage = "activate"
	StagePaste    Stage = "paste"
	StageVerify   Stage = "verify"
	StageSubmit   Stage = "submit"
)

// StrategyResult records one strategy attempt within a stage ladder.
// Index is the 1-based position of the strategy in its ladder.
type StrategyResult struct {
	Stage     Stage  `yaml:"stage"           json:"stage"`
	Index     int    `yaml:"index"           json:"index"`
	Name      string `yaml:"name"            json:"name"`
	Succeeded bool   `yaml:"succeeded"       json:"succeeded"`
	Error     string `yaml:"error,omitempty" json:"error,omitempty"`
}

func (r StrategyResult) String() string {
	if r.Succeeded {
		return fmt.Sprintf("%s[%d] %s: ok", r.Stage, r.Index, r.Name)
	}
	if r.Error != "" {
		return fmt.Sprintf("%s[%d] %s: failed (%s)", r.Stage, r.Index, r.Name, r.Error)
	}
	return fmt.Sprintf("%s[%d] %s: failed", r.Stage, r.Index, r.Name)
}

// Outcome is the immutable result of one session run.
type Outcome struct {
	ID           string           `yaml:"id"                 json:"id"`
	FinalState   State            `yaml:"final_state"        json:"final_state"`
	StageReached State            `yaml:"stage_reached"      json:"stage_reached"`
	Attempts     []StrategyResult `yaml:"attempts,omitempty" json:"attempts,omitempty"`
	Message      string           `yaml:"message"            json:"message"`
	PID          int              `yaml:"pid,omitempty"      json:"pid,omitempty"`
}

// Trail renders the attempt list as one human-readable line per
// attempt, for operators finishing the job by hand.
func (o *Outcome) Trail() []string {
	lines := make([]string, 0, len(o.Attempts))
	for _, a := range o.Attempts {
		lines = append(lines, a.String())
	}
	return lines
}
