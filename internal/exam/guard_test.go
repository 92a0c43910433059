package exam

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSubmitGuardSingleFire(t *testing.T) {
	g := NewSubmitGuard()

	if !g.Acquire() {
		t.Fatal("first acquire should succeed")
	}
	if g.Acquire() {
		t.Error("second acquire should fail")
	}
	if !g.Fired() {
		t.Error("guard should report fired")
	}
}

// Timer expiry and a user click may race to submit; only one may reach
// the network call.
func TestSubmitGuardConcurrentTriggers(t *testing.T) {
	g := NewSubmitGuard()

	var wins int64
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Acquire() {
				atomic.AddInt64(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("%d goroutines acquired the guard, want exactly 1", wins)
	}
}

func TestSubmitGuardReleaseRearms(t *testing.T) {
	g := NewSubmitGuard()

	if !g.Acquire() {
		t.Fatal("first acquire should succeed")
	}
	g.Release()
	if !g.Acquire() {
		t.Error("acquire after release should succeed")
	}
}
