package pools

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/kairoslabs/headparse/core/headparse"
)

// TestWorkerPool_ParsesConcurrently submits one ParseRequest call per
// task, the same shape core/engine.go's processRequest submits a route
// handler's call as -- independent work against its own buffer and
// output struct, nothing shared between tasks but the pool itself.
func TestWorkerPool_ParsesConcurrently(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	const n = 100
	var successes atomic.Int64
	done := make(chan bool)

	for i := 0; i < n; i++ {
		pool.Submit(func() {
			buf := []byte("GET /health HTTP/1.1\r\nHost: x\r\n\r\n")
			var req headparse.Request
			if result, _ := headparse.ParseRequest(buf, &req); result == headparse.Success {
				successes.Add(1)
			}
		})
	}

	go func() {
		for {
			if pool.Stats().TasksCompleted >= n {
				done <- true
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
	}()

	select {
	case <-done:
		if successes.Load() != n {
			t.Errorf("expected %d successful parses, got %d", n, successes.Load())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("test timeout")
	}
}

func TestWorkerPool_WorkStealing(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64

	// Submit tasks that take different time
	for i := 0; i < 100; i++ {
		i := i
		pool.Submit(func() {
			if i%10 == 0 {
				time.Sleep(10 * time.Millisecond) // Some tasks are slower
			}
			counter.Add(1)
		})
	}

	// Wait for completion
	time.Sleep(500 * time.Millisecond)

	stats := pool.Stats()
	if stats.TasksCompleted < 100 {
		t.Errorf("Expected 100 tasks completed, got %d", stats.TasksCompleted)
	}

	// Check that work stealing happened
	if stats.StealsSuccess == 0 {
		t.Log("Warning: No successful steals detected")
	}
}

// TestWorkerPool_CloseStopsWorkers checks that once Close has run the
// pool stops taking work: Submit reports false rather than silently
// dropping the task. Engine.Shutdown calls Close to stop the pool.
func TestWorkerPool_CloseStopsWorkers(t *testing.T) {
	pool := NewWorkerPool(4)

	done := make(chan bool, 1)
	pool.Submit(func() { done <- true })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("initial task never ran")
	}

	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Submit should report false once the pool is closed")
	}
}

func BenchmarkWorkerPool_Submit(b *testing.B) {
	pool := NewWorkerPool(8)
	defer pool.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			pool.Submit(func() {
				// Simulate some work
				_ = 1 + 1
			})
		}
	})

	// Wait for completion
	for {
		stats := pool.Stats()
		if stats.TasksCompleted >= uint64(b.N) {
			break
		}
		time.Sleep(1 * time.Millisecond)
	}
}

func BenchmarkGoroutine_Direct(b *testing.B) {
	var wg atomic.Int64
	wg.Store(int64(b.N))

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			go func() {
				// Simulate some work
				_ = 1 + 1
				wg.Add(-1)
			}()
		}
	})

	// Wait for completion
	for wg.Load() > 0 {
		time.Sleep(1 * time.Millisecond)
	}
}
