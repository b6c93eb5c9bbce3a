package session

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLockTryAcquire(t *testing.T) {
	l := NewLock()
	if !l.TryAcquire() {
		t.Fatal("fresh lock should be acquirable")
	}
	if l.TryAcquire() {
		t.Fatal("held lock should reject a second TryAcquire")
	}
	l.Release()
	if !l.TryAcquire() {
		t.Fatal("released lock should be acquirable again")
	}
}

func TestLockAcquireWaits(t *testing.T) {
	l := NewLock()
	if !l.TryAcquire() {
		t.Fatal("fresh lock should be acquirable")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := l.Acquire(context.Background()); err != nil {
			t.Errorf("Acquire: %v", err)
		}
	}()

	select {
	case <-done:
		t.Fatal("Acquire returned while the lock was held")
	case <-time.After(20 * time.Millisecond):
	}

	l.Release()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Acquire did not return after Release")
	}
}

func TestLockAcquireHonorsContext(t *testing.T) {
	l := NewLock()
	if !l.TryAcquire() {
		t.Fatal("fresh lock should be acquirable")
	}
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Acquire(ctx); err == nil {
		t.Fatal("Acquire should fail when the context expires first")
	}
}

func TestLockReleaseWhileNotHeldPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Release on an unheld lock should panic")
		}
	}()
	NewLock().Release()
}

func TestLockMutualExclusion(t *testing.T) {
	l := NewLock()
	var (
		mu     sync.Mutex
		inside int
		peak   int
	)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			mu.Lock()
			inside++
			if inside > peak {
				peak = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			l.Release()
		}()
	}
	wg.Wait()

	if peak != 1 {
		t.Fatalf("saw %d goroutines inside the critical section", peak)
	}
}
