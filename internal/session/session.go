// Package session drives one payload through an external interactive
// terminal program: launch, find the window, focus it, paste from the
// clipboard, verify, submit. There is no API contract with the target
// program, so every stage runs a ladder of platform strategies and the
// whole flow is best-effort with an operator fallback.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clipilot/clipilot/internal/platform"
)

// MinVerifyLen is the default clipboard verification threshold. The
// payload is opaque; verification only checks that the clipboard still
// holds something at least this long.
const MinVerifyLen = 10

// Options configures a Runner.
type Options struct {
	Timing Timing

	// MinVerifyLen overrides the clipboard verification threshold.
	// Zero means MinVerifyLen.
	MinVerifyLen int

	// ProceedOnUnverifiedPaste continues to the submit stage even when
	// clipboard verification fails, matching the historical behavior.
	// When false, an unverified paste ends the run in MANUAL_FALLBACK.
	ProceedOnUnverifiedPaste bool

	// QueueOnBusy waits for an in-flight session to finish instead of
	// returning ErrBusy.
	QueueOnBusy bool

	Logger *zap.Logger
}

// sharedLock serializes sessions process-wide. Input focus and the
// clipboard are machine-global resources.
var sharedLock = NewLock()

// Runner executes automation sessions against a platform provider.
// Stages run strictly sequentially; the configured delays are the only
// suspension points.
type Runner struct {
	provider *platform.Provider
	opts     Options
	lock     *Lock
	log      *zap.Logger

	// sleep is swapped for a no-op in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewRunner returns a Runner sharing the process-wide session lock.
func NewRunner(provider *platform.Provider, opts Options) *Runner {
	if opts.MinVerifyLen <= 0 {
		opts.MinVerifyLen = MinVerifyLen
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		provider: provider,
		opts:     opts,
		lock:     sharedLock,
		log:      log,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes one full session: launch the command, locate and
// activate its window, paste the payload via the clipboard, verify,
// and submit.
//
// MANUAL_FALLBACK is a normal outcome, returned with a nil error: the
// automation ladders were exhausted but the operator can finish by
// hand. A non-nil error always corresponds to FinalState FAILED (or to
// ErrBusy before the session started).
func (r *Runner) Run(ctx context.Context, payload string, target platform.ActivationTarget, launchCommand string) (*Outcome, error) {
	if r.opts.QueueOnBusy {
		if err := r.lock.Acquire(ctx); err != nil {
			return nil, fmt.Errorf("waiting for session lock: %w", err)
		}
	} else if !r.lock.TryAcquire() {
		return nil, ErrBusy
	}
	defer r.lock.Release()

	o := &Outcome{
		ID:           uuid.NewString(),
		FinalState:   StateFailed,
		StageReached: StateInit,
	}
	r.log.Info("session starting",
		zap.String("session", o.ID),
		zap.String("command", launchCommand),
		zap.Int("payload_len", len(payload)))

	// Launch. A launch error is fatal: nothing to automate.
	handle, err := r.provider.Launcher.Launch(launchCommand)
	if err != nil {
		o.Message = fmt.Sprintf("failed to launch %q: %v", launchCommand, err)
		return o, fmt.Errorf("launch: %w", err)
	}
	o.PID = handle.PID
	r.reach(o, StateLaunched)

	if out, err := r.pause(ctx, o, r.opts.Timing.ProcessReady, false); out {
		return o, err
	}
	r.reach(o, StateReady)

	// Locate: first non-empty strategy result wins.
	ref, found := r.locate(o, target, handle)
	if !found {
		return r.fallback(o, "could not find the session window; activate it manually, paste with the clipboard shortcut, then press Enter"), nil
	}
	r.reach(o, StateLocated)

	if out, err := r.pause(ctx, o, r.opts.Timing.PreActivation, false); out {
		return o, err
	}

	// Activate. Paste and submit are never attempted without confirmed
	// focus; synthesized keys would land in whatever window has it.
	if !r.activate(o, ref) {
		return r.fallback(o, fmt.Sprintf("could not focus %s; click it, paste with the clipboard shortcut, then press Enter", ref)), nil
	}
	r.reach(o, StateActivated)

	if out, err := r.pause(ctx, o, r.opts.Timing.PostActivationSettle, false); out {
		return o, err
	}

	// Clipboard write failure is fatal: without clipboard content the
	// paste chord is meaningless.
	if err := r.provider.Clipboard.SetText(payload); err != nil {
		o.Message = fmt.Sprintf("clipboard write failed: %v", err)
		return o, fmt.Errorf("clipboard write: %w", err)
	}

	if err := r.provider.Injector.Paste(); err != nil {
		o.Message = fmt.Sprintf("paste keystroke failed: %v", err)
		return o, fmt.Errorf("paste: %w", err)
	}
	r.reach(o, StatePasted)

	if out, err := r.pause(ctx, o, r.opts.Timing.PastePropagation, true); out {
		return o, err
	}

	// Cursor nudge is best-effort; it only exists to make the target
	// program process the paste before submit.
	if err := r.provider.Injector.ConfirmCursor(); err != nil {
		r.log.Warn("cursor confirmation failed", zap.String("session", o.ID), zap.Error(err))
	}
	if out, err := r.pause(ctx, o, r.opts.Timing.CursorConfirm, true); out {
		return o, err
	}

	if r.verify(o) {
		r.reach(o, StateVerified)
	} else if !r.opts.ProceedOnUnverifiedPaste {
		return r.fallback(o, "clipboard verification failed after paste; check the window contents, then press Enter manually"), nil
	}

	if out, err := r.pause(ctx, o, r.opts.Timing.PostPasteSettle, true); out {
		return o, err
	}
	r.reach(o, StateSettled)

	if out, err := r.pause(ctx, o, r.opts.Timing.PreSubmit, true); out {
		return o, err
	}

	if !r.submit(o, ref) {
		return r.fallback(o, "payload is pasted into the session; press Enter manually to submit"), nil
	}
	r.reach(o, StateSubmitted)

	o.FinalState = StateDone
	o.Message = "payload pasted and submitted"
	r.log.Info("session done", zap.String("session", o.ID))
	return o, nil
}

// reach advances the bookkeeping to a newly completed state.
func (r *Runner) reach(o *Outcome, s State) {
	o.StageReached = s
	r.log.Debug("stage reached", zap.String("session", o.ID), zap.String("state", string(s)))
}

// pause sleeps between stages and handles abort. Returns done=true
// when the run must stop. An abort after the payload has been pasted
// is MANUAL_FALLBACK (the content is delivered, the operator decides
// whether to submit); before that it is FAILED.
func (r *Runner) pause(ctx context.Context, o *Outcome, d time.Duration, pasted bool) (done bool, err error) {
	if err := r.sleep(ctx, d); err != nil {
		if pasted {
			r.fallback(o, "aborted after paste; payload is in the session window, press Enter manually to submit")
			return true, nil
		}
		o.FinalState = StateFailed
		o.Message = "aborted before paste"
		return true, fmt.Errorf("aborted: %w", err)
	}
	return false, nil
}

func (r *Runner) fallback(o *Outcome, msg string) *Outcome {
	o.FinalState = StateManualFallback
	o.Message = msg
	r.log.Warn("manual fallback", zap.String("session", o.ID), zap.String("reason", msg))
	return o
}

func (r *Runner) locate(o *Outcome, target platform.ActivationTarget, handle *platform.SessionHandle) (platform.WindowRef, bool) {
	for i, s := range r.provider.Locator.Strategies() {
		refs, err := s.Locate(target, handle)
		res := StrategyResult{Stage: StageLocate, Index: i + 1, Name: s.Name(), Succeeded: len(refs) > 0}
		if err != nil {
			res.Error = err.Error()
		} else if len(refs) == 0 {
			res.Error = "no matching windows"
		}
		o.Attempts = append(o.Attempts, res)
		r.logAttempt(o, res)
		if res.Succeeded {
			return refs[0], true
		}
	}
	return platform.WindowRef{}, false
}

func (r *Runner) activate(o *Outcome, ref platform.WindowRef) bool {
	for i, s := range r.provider.Activator.Strategies() {
		ok, err := s.Activate(ref)
		res := StrategyResult{Stage: StageActivate, Index: i + 1, Name: s.Name(), Succeeded: ok && err == nil}
		if err != nil {
			res.Error = err.Error()
		} else if !ok {
			res.Error = "focus request refused"
		}
		o.Attempts = append(o.Attempts, res)
		r.logAttempt(o, res)
		if res.Succeeded {
			return true
		}
	}
	return false
}

// verify re-reads the clipboard and checks a length threshold only.
// Content equality is deliberately not checked: paste-completion
// signals can alter clipboard state indirectly on some platforms.
func (r *Runner) verify(o *Outcome) bool {
	text, err := r.provider.Clipboard.GetText()
	ok := err == nil && len(text) >= r.opts.MinVerifyLen
	if !ok {
		r.log.Warn("clipboard verification failed",
			zap.String("session", o.ID),
			zap.Int("got_len", len(text)),
			zap.Int("min_len", r.opts.MinVerifyLen),
			zap.Error(err))
	}
	return ok
}

func (r *Runner) submit(o *Outcome, ref platform.WindowRef) bool {
	for i, s := range r.provider.Injector.SubmitStrategies() {
		ok, err := s.Submit(ref)
		res := StrategyResult{Stage: StageSubmit, Index: i + 1, Name: s.Name(), Succeeded: ok && err == nil}
		if err != nil {
			res.Error = err.Error()
		} else if !ok {
			res.Error = "keystroke not delivered"
		}
		o.Attempts = append(o.Attempts, res)
		r.logAttempt(o, res)
		if res.Succeeded {
			return true
		}
	}
	return false
}

func (r *Runner) logAttempt(o *Outcome, res StrategyResult) {
	r.log.Debug("strategy attempt",
		zap.String("session", o.ID),
		zap.String("stage", string(res.Stage)),
		zap.Int("index", res.Index),
		zap.String("strategy", res.Name),
		zap.Bool("succeeded", res.Succeeded),
		zap.String("error", res.Error))
}
