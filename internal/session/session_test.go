package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/clipilot/clipilot/internal/platform"
)

// callLog records the order of side-effecting calls across the whole
// fake provider, so tests can assert strict ladder ordering.
type callLog struct {
	calls []string
}

func (l *callLog) add(name string) { l.calls = append(l.calls, name) }

type fakeLauncher struct {
	log *callLog
	err error
	// onLaunch lets a test trigger an abort at a precise point.
	onLaunch func()
}

func (f *fakeLauncher) Launch(command string) (*platform.SessionHandle, error) {
	f.log.add("launch:" + command)
	if f.onLaunch != nil {
		f.onLaunch()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &platform.SessionHandle{PID: 4321, LaunchedAt: time.Now()}, nil
}

type fakeLocateStrategy struct {
	log  *callLog
	name string
	refs []platform.WindowRef
	err  error
}

func (f *fakeLocateStrategy) Name() string { return f.name }
func (f *fakeLocateStrategy) Locate(target platform.ActivationTarget, handle *platform.SessionHandle) ([]platform.WindowRef, error) {
	f.log.add("locate:" + f.name)
	return f.refs, f.err
}

type fakeLocator struct{ strategies []platform.LocateStrategy }

func (f *fakeLocator) Strategies() []platform.LocateStrategy { return f.strategies }

type fakeActivateStrategy struct {
	log  *callLog
	name string
	ok   bool
	err  error
}

func (f *fakeActivateStrategy) Name() string { return f.name }
func (f *fakeActivateStrategy) Activate(ref platform.WindowRef) (bool, error) {
	f.log.add("activate:" + f.name)
	return f.ok, f.err
}

type fakeActivator struct{ strategies []platform.ActivateStrategy }

func (f *fakeActivator) Strategies() []platform.ActivateStrategy { return f.strategies }

type fakeClipboard struct {
	log      *callLog
	setErr   error
	readback string
	onSet    func()
}

func (f *fakeClipboard) SetText(text string) error {
	f.log.add("clipboard.set")
	if f.onSet != nil {
		f.onSet()
	}
	if f.setErr != nil {
		return f.setErr
	}
	if f.readback == "" {
		f.readback = text
	}
	return nil
}

func (f *fakeClipboard) GetText() (string, error) {
	f.log.add("clipboard.get")
	return f.readback, nil
}

func (f *fakeClipboard) Clear() error {
	f.log.add("clipboard.clear")
	f.readback = ""
	return nil
}

type fakeSubmitStrategy struct {
	log  *callLog
	name string
	ok   bool
	err  error
}

func (f *fakeSubmitStrategy) Name() string { return f.name }
func (f *fakeSubmitStrategy) Submit(ref platform.WindowRef) (bool, error) {
	f.log.add("submit:" + f.name)
	return f.ok, f.err
}

type fakeInjector struct {
	log        *callLog
	pasteErr   error
	strategies []platform.SubmitStrategy
}

func (f *fakeInjector) Paste() error {
	f.log.add("paste")
	return f.pasteErr
}

func (f *fakeInjector) ConfirmCursor() error {
	f.log.add("cursor")
	return nil
}

func (f *fakeInjector) SubmitStrategies() []platform.SubmitStrategy { return f.strategies }

// fixture builds a provider where every ladder succeeds on its first
// strategy. Tests mutate pieces before running.
type fixture struct {
	log       *callLog
	launcher  *fakeLauncher
	locator   *fakeLocator
	activator *fakeActivator
	clipboard *fakeClipboard
	injector  *fakeInjector
}

func newFixture() *fixture {
	log := &callLog{}
	ref := platform.WindowRef{ID: 7, PID: 4321, Title: "claude session"}
	return &fixture{
		log:      log,
		launcher: &fakeLauncher{log: log},
		locator: &fakeLocator{strategies: []platform.LocateStrategy{
			&fakeLocateStrategy{log: log, name: "by pid", refs: []platform.WindowRef{ref}},
			&fakeLocateStrategy{log: log, name: "by title"},
			&fakeLocateStrategy{log: log, name: "by cmdline"},
		}},
		activator: &fakeActivator{strategies: []platform.ActivateStrategy{
			&fakeActivateStrategy{log: log, name: "cooperative", ok: true},
			&fakeActivateStrategy{log: log, name: "title", ok: true},
			&fakeActivateStrategy{log: log, name: "forced", ok: true},
		}},
		clipboard: &fakeClipboard{log: log},
		injector: &fakeInjector{log: log, strategies: []platform.SubmitStrategy{
			&fakeSubmitStrategy{log: log, name: "terminator", ok: true},
			&fakeSubmitStrategy{log: log, name: "enter", ok: true},
			&fakeSubmitStrategy{log: log, name: "raw", ok: true},
		}},
	}
}

func (f *fixture) provider() *platform.Provider {
	return &platform.Provider{
		Launcher:  f.launcher,
		Locator:   f.locator,
		Activator: f.activator,
		Clipboard: f.clipboard,
		Injector:  f.injector,
	}
}

func (f *fixture) runner(opts Options) *Runner {
	r := NewRunner(f.provider(), opts)
	// Isolate tests from the process-wide lock and from real delays.
	r.lock = NewLock()
	r.sleep = func(ctx context.Context, d time.Duration) error { return ctx.Err() }
	return r
}

const testPayload = "Confirm system ready" // 20 chars

func TestRun_HappyPath(t *testing.T) {
	f := newFixture()
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.FinalState != StateDone {
		t.Fatalf("final state = %s, want DONE", o.FinalState)
	}
	if o.StageReached != StateSubmitted {
		t.Errorf("stage reached = %s, want SUBMITTED", o.StageReached)
	}

	want := []StrategyResult{
		{Stage: StageLocate, Index: 1, Name: "by pid", Succeeded: true},
		{Stage: StageActivate, Index: 1, Name: "cooperative", Succeeded: true},
		{Stage: StageSubmit, Index: 1, Name: "terminator", Succeeded: true},
	}
	if len(o.Attempts) != len(want) {
		t.Fatalf("attempts = %v, want %v", o.Attempts, want)
	}
	for i, w := range want {
		if o.Attempts[i] != w {
			t.Errorf("attempt %d = %+v, want %+v", i, o.Attempts[i], w)
		}
	}
	if o.ID == "" {
		t.Error("outcome should carry a session id")
	}
}

func TestRun_LaddersStopAtFirstSuccess(t *testing.T) {
	f := newFixture()
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	if _, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, unexpected := range []string{"locate:by title", "locate:by cmdline", "activate:title", "activate:forced", "submit:enter", "submit:raw"} {
		for _, c := range f.log.calls {
			if c == unexpected {
				t.Errorf("strategy %q attempted after an earlier success", unexpected)
			}
		}
	}
}

func TestRun_StaleHandleSecondActivateStrategySucceeds(t *testing.T) {
	f := newFixture()
	f.activator.strategies[0] = &fakeActivateStrategy{log: f.log, name: "cooperative", err: errors.New("window closed")}
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.FinalState != StateDone {
		t.Fatalf("final state = %s, want DONE", o.FinalState)
	}

	var activations []StrategyResult
	for _, a := range o.Attempts {
		if a.Stage == StageActivate {
			activations = append(activations, a)
		}
	}
	if len(activations) != 2 {
		t.Fatalf("activation attempts = %d, want 2", len(activations))
	}
	if activations[0].Succeeded || activations[0].Error != "window closed" {
		t.Errorf("first activation = %+v, want recorded failure", activations[0])
	}
	if !activations[1].Succeeded {
		t.Errorf("second activation = %+v, want success", activations[1])
	}
}

func TestRun_ActivationExhaustedNeverTouchesClipboardOrKeys(t *testing.T) {
	f := newFixture()
	for i, name := range []string{"cooperative", "title", "forced"} {
		f.activator.strategies[i] = &fakeActivateStrategy{log: f.log, name: name}
	}
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if err != nil {
		t.Fatalf("manual fallback should not be an error, got: %v", err)
	}
	if o.FinalState != StateManualFallback {
		t.Fatalf("final state = %s, want MANUAL_FALLBACK", o.FinalState)
	}
	if o.StageReached != StateLocated {
		t.Errorf("stage reached = %s, want LOCATED", o.StageReached)
	}

	for _, c := range f.log.calls {
		switch {
		case c == "clipboard.set", c == "paste":
			t.Errorf("%s called after activation exhausted", c)
		case strings.HasPrefix(c, "submit:"):
			t.Errorf("%s called after activation exhausted", c)
		}
	}
}

func TestRun_LocateExhaustedFallsBack(t *testing.T) {
	f := newFixture()
	f.locator.strategies = []platform.LocateStrategy{
		&fakeLocateStrategy{log: f.log, name: "by pid"},
		&fakeLocateStrategy{log: f.log, name: "by title", err: errors.New("window manager unavailable")},
	}
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.FinalState != StateManualFallback {
		t.Fatalf("final state = %s, want MANUAL_FALLBACK", o.FinalState)
	}
	if o.StageReached != StateReady {
		t.Errorf("stage reached = %s, want READY", o.StageReached)
	}
	if len(o.Attempts) != 2 {
		t.Fatalf("attempts = %d, want 2 locate records", len(o.Attempts))
	}
	if o.Attempts[1].Error != "window manager unavailable" {
		t.Errorf("second locate error = %q", o.Attempts[1].Error)
	}
}

func TestRun_UnverifiedPasteStillSubmitsByDefault(t *testing.T) {
	f := newFixture()
	f.clipboard.readback = "short" // below the 10-char threshold
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.FinalState != StateDone {
		t.Fatalf("final state = %s, want DONE (historical proceed-on-unverified behavior)", o.FinalState)
	}

	submitted := false
	for _, c := range f.log.calls {
		if strings.HasPrefix(c, "submit:") {
			submitted = true
		}
	}
	if !submitted {
		t.Error("submit should still run when verification fails and policy says proceed")
	}
}

func TestRun_UnverifiedPasteStopsWhenPolicyDisabled(t *testing.T) {
	f := newFixture()
	f.clipboard.readback = "short"
	r := f.runner(Options{ProceedOnUnverifiedPaste: false})

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if o.FinalState != StateManualFallback {
		t.Fatalf("final state = %s, want MANUAL_FALLBACK", o.FinalState)
	}
	for _, c := range f.log.calls {
		if strings.HasPrefix(c, "submit:") {
			t.Errorf("submit attempted despite failed verification and strict policy")
		}
	}
}

func TestRun_SubmitExhaustedIsManualFallback(t *testing.T) {
	f := newFixture()
	f.injector.strategies = []platform.SubmitStrategy{
		&fakeSubmitStrategy{log: f.log, name: "terminator", err: errors.New("injection blocked")},
		&fakeSubmitStrategy{log: f.log, name: "enter"},
		&fakeSubmitStrategy{log: f.log, name: "raw"},
	}
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if err != nil {
		t.Fatalf("submit exhaustion should not be an error, got: %v", err)
	}
	if o.FinalState != StateManualFallback {
		t.Fatalf("final state = %s, want MANUAL_FALLBACK", o.FinalState)
	}
	if !strings.Contains(o.Message, "press Enter manually") {
		t.Errorf("message %q should tell the operator to submit by hand", o.Message)
	}

	var submits int
	for _, a := range o.Attempts {
		if a.Stage == StageSubmit {
			submits++
			if a.Succeeded {
				t.Errorf("submit attempt %d reported success", a.Index)
			}
		}
	}
	if submits != 3 {
		t.Errorf("submit attempts = %d, want all 3 recorded", submits)
	}
}

func TestRun_LaunchErrorIsFatal(t *testing.T) {
	f := newFixture()
	f.launcher.err = errors.New("executable not found")
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if err == nil {
		t.Fatal("expected an error")
	}
	if o.FinalState != StateFailed {
		t.Fatalf("final state = %s, want FAILED", o.FinalState)
	}
}

func TestRun_ClipboardWriteErrorIsFatal(t *testing.T) {
	f := newFixture()
	f.clipboard.setErr = errors.New("clipboard locked by another process")
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if err == nil {
		t.Fatal("expected an error")
	}
	if o.FinalState != StateFailed {
		t.Fatalf("final state = %s, want FAILED", o.FinalState)
	}
	for _, c := range f.log.calls {
		if c == "paste" || strings.HasPrefix(c, "submit:") {
			t.Errorf("%s called after fatal clipboard failure", c)
		}
	}
}

func TestRun_SecondSessionRejectedWhileBusy(t *testing.T) {
	f := newFixture()
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	if !r.lock.TryAcquire() {
		t.Fatal("fresh lock should be acquirable")
	}
	defer r.lock.Release()

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	if o != nil {
		t.Errorf("busy rejection should not produce an outcome")
	}
	if len(f.log.calls) != 0 {
		t.Errorf("busy rejection must not touch the provider, saw %v", f.log.calls)
	}
}

func TestRun_QueueOnBusyWaitsForLock(t *testing.T) {
	f := newFixture()
	r := f.runner(Options{ProceedOnUnverifiedPaste: true, QueueOnBusy: true})

	if !r.lock.TryAcquire() {
		t.Fatal("fresh lock should be acquirable")
	}
	go func() {
		time.Sleep(10 * time.Millisecond)
		r.lock.Release()
	}()

	o, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude")
	if err != nil {
		t.Fatalf("queued run should proceed once the lock frees: %v", err)
	}
	if o.FinalState != StateDone {
		t.Fatalf("final state = %s, want DONE", o.FinalState)
	}
}

func TestRun_AbortAfterPasteIsManualFallback(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	// Cancel while the payload is being written, so the abort lands
	// between the paste and submit stages.
	f.clipboard.onSet = cancel
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	o, err := r.Run(ctx, testPayload, platform.ActivationTarget{}, "claude")
	if err != nil {
		t.Fatalf("abort after paste should not be an error, got: %v", err)
	}
	if o.FinalState != StateManualFallback {
		t.Fatalf("final state = %s, want MANUAL_FALLBACK", o.FinalState)
	}
	for _, c := range f.log.calls {
		if strings.HasPrefix(c, "submit:") {
			t.Errorf("submit attempted after abort")
		}
	}
}

func TestRun_AbortBeforePasteIsFailed(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	f.launcher.onLaunch = cancel
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	o, err := r.Run(ctx, testPayload, platform.ActivationTarget{}, "claude")
	if err == nil {
		t.Fatal("expected an abort error")
	}
	if o.FinalState != StateFailed {
		t.Fatalf("final state = %s, want FAILED", o.FinalState)
	}
	for _, c := range f.log.calls {
		if c == "clipboard.set" || c == "paste" {
			t.Errorf("%s ran after pre-paste abort", c)
		}
	}
}

func TestRun_SubmitNeverPrecedesPaste(t *testing.T) {
	f := newFixture()
	r := f.runner(Options{ProceedOnUnverifiedPaste: true})

	if _, err := r.Run(context.Background(), testPayload, platform.ActivationTarget{}, "claude"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pasteAt, submitAt := -1, -1
	for i, c := range f.log.calls {
		if c == "paste" && pasteAt == -1 {
			pasteAt = i
		}
		if strings.HasPrefix(c, "submit:") && submitAt == -1 {
			submitAt = i
		}
	}
	if pasteAt == -1 || submitAt == -1 {
		t.Fatalf("both paste and submit should run, calls = %v", f.log.calls)
	}
	if submitAt < pasteAt {
		t.Errorf("submit at %d precedes paste at %d", submitAt, pasteAt)
	}
}
