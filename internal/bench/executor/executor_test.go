package executor_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wesleyorama2/scaleup/internal/bench"
	"github.com/wesleyorama2/scaleup/internal/bench/executor"
)

var errDecode = errors.New("decode failed")

// scriptedWork returns the duration mapped to each item, fails for items
// mapped to a negative duration and panics for "panic".
func scriptedWork(durations map[string]time.Duration) bench.WorkFunc {
	return func(_ context.Context, item bench.WorkItem) (time.Duration, error) {
		if item == "panic" {
			panic("boom")
		}
		d, ok := durations[item]
		if !ok || d < 0 {
			return 0, errDecode
		}
		return d, nil
	}
}

func allExecutors(fn bench.WorkFunc, opts ...executor.Option) []executor.Executor {
	return []executor.Executor{
		executor.NewBulk(fn, opts...),
		executor.NewBulk(fn, append(opts, executor.WithPartition(executor.PartitionRoundRobin))...),
		executor.NewCompletionOrdered(fn, opts...),
	}
}

func name(e executor.Executor) string {
	if b, ok := e.(*executor.Bulk); ok {
		return fmt.Sprintf("%s/%s", e.Type(), b.Partition())
	}
	return string(e.Type())
}

func TestExecutors_FailedItemScenario(t *testing.T) {
	fn := scriptedWork(map[string]time.Duration{"a": time.Second, "b": time.Second, "c": -1})
	items := []bench.WorkItem{"a", "b", "c"}

	for _, e := range allExecutors(fn) {
		for _, workers := range []int{1, 2, 4} {
			t.Run(fmt.Sprintf("%s/%d", name(e), workers), func(t *testing.T) {
				rec, err := e.Run(context.Background(), items, workers)
				if err != nil {
					t.Fatalf("Run() error = %v", err)
				}
				if rec.NumItems != 3 {
					t.Errorf("NumItems = %d, want 3", rec.NumItems)
				}
				if len(rec.PerItemDurations) != rec.NumItems {
					t.Errorf("len(PerItemDurations) = %d, want %d", len(rec.PerItemDurations), rec.NumItems)
				}
				if rec.WallClockSeconds < 0 {
					t.Errorf("WallClockSeconds = %v, want >= 0", rec.WallClockSeconds)
				}

				got := append([]float64(nil), rec.PerItemDurations...)
				sort.Float64s(got)
				want := []float64{0, 1, 1}
				for i := range want {
					if got[i] != want[i] {
						t.Errorf("sorted durations = %v, want %v", got, want)
						break
					}
				}

				if rec.Failures() != 1 || rec.FailedItems[0] != "c" {
					t.Errorf("FailedItems = %v, want [c]", rec.FailedItems)
				}
				if d, ok := rec.DurationFor(2); !ok || d != 0 {
					t.Errorf("DurationFor(2) = %v, %v; want 0, true", d, ok)
				}
			})
		}
	}
}

func TestExecutors_PanicIsIsolated(t *testing.T) {
	fn := scriptedWork(map[string]time.Duration{"x": 10 * time.Millisecond, "y": 20 * time.Millisecond})
	items := []bench.WorkItem{"x", "panic", "y"}

	for _, e := range allExecutors(fn) {
		t.Run(name(e), func(t *testing.T) {
			rec, err := e.Run(context.Background(), items, 2)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if rec.NumItems != 3 {
				t.Errorf("NumItems = %d, want 3", rec.NumItems)
			}
			if d, _ := rec.DurationFor(0); d != 0.01 {
				t.Errorf("DurationFor(0) = %v, want 0.01", d)
			}
			if d, _ := rec.DurationFor(1); d != 0 {
				t.Errorf("DurationFor(1) = %v, want 0", d)
			}
			if d, _ := rec.DurationFor(2); d != 0.02 {
				t.Errorf("DurationFor(2) = %v, want 0.02", d)
			}
			if rec.Failures() != 1 || rec.FailedItems[0] != "panic" {
				t.Errorf("FailedItems = %v, want [panic]", rec.FailedItems)
			}
		})
	}
}

func TestExecutors_EmptyBatch(t *testing.T) {
	fn := scriptedWork(nil)

	for _, e := range allExecutors(fn) {
		t.Run(name(e), func(t *testing.T) {
			rec, err := e.Run(context.Background(), nil, 4)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if rec.NumItems != 0 || len(rec.PerItemDurations) != 0 {
				t.Errorf("got %d items / %d durations, want 0 / 0", rec.NumItems, len(rec.PerItemDurations))
			}
			if rec.WallClockSeconds < 0 {
				t.Errorf("WallClockSeconds = %v, want >= 0", rec.WallClockSeconds)
			}
			if avg := rec.AverageItemSeconds(); avg != 0 {
				t.Errorf("AverageItemSeconds() = %v, want 0", avg)
			}
		})
	}
}

func TestExecutors_InvalidWorkerCount(t *testing.T) {
	var calls atomic.Int32
	fn := func(context.Context, bench.WorkItem) (time.Duration, error) {
		calls.Add(1)
		return 0, nil
	}

	for _, e := range allExecutors(fn) {
		for _, workers := range []int{0, -3} {
			t.Run(fmt.Sprintf("%s/%d", name(e), workers), func(t *testing.T) {
				rec, err := e.Run(context.Background(), []bench.WorkItem{"a"}, workers)
				if err == nil {
					t.Fatal("Run() expected error, got nil")
				}
				if rec != nil {
					t.Errorf("Run() record = %+v, want nil", rec)
				}

				var startErr *executor.PoolStartupError
				if !errors.As(err, &startErr) {
					t.Fatalf("error %T is not *PoolStartupError", err)
				}
				if startErr.WorkerCount != workers {
					t.Errorf("WorkerCount = %d, want %d", startErr.WorkerCount, workers)
				}
				if !errors.Is(err, executor.ErrInvalidWorkerCount) {
					t.Errorf("error %v does not wrap ErrInvalidWorkerCount", err)
				}
			})
		}
	}

	if n := calls.Load(); n != 0 {
		t.Errorf("work function called %d times, want 0", n)
	}
}

func TestExecutors_NilWorkFunc(t *testing.T) {
	for _, e := range allExecutors(nil) {
		t.Run(name(e), func(t *testing.T) {
			_, err := e.Run(context.Background(), []bench.WorkItem{"a"}, 1)
			if !errors.Is(err, executor.ErrNoWorkFunc) {
				t.Errorf("Run() error = %v, want ErrNoWorkFunc", err)
			}
		})
	}
}

func TestExecutors_NegativeDurationClamped(t *testing.T) {
	fn := func(context.Context, bench.WorkItem) (time.Duration, error) {
		return -5 * time.Millisecond, nil
	}

	for _, e := range allExecutors(fn) {
		t.Run(name(e), func(t *testing.T) {
			rec, err := e.Run(context.Background(), []bench.WorkItem{"a", "b"}, 2)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			for i, d := range rec.PerItemDurations {
				if d != 0 {
					t.Errorf("PerItemDurations[%d] = %v, want 0", i, d)
				}
			}
			if rec.Failures() != 0 {
				t.Errorf("Failures() = %d, want 0", rec.Failures())
			}
		})
	}
}

// TestExecutors_WorkersRunInParallel blocks every item until all workers
// have arrived, which only completes if workerCount items run at once.
func TestExecutors_WorkersRunInParallel(t *testing.T) {
	const workers = 3

	for _, mk := range []func(bench.WorkFunc) executor.Executor{
		func(fn bench.WorkFunc) executor.Executor { return executor.NewBulk(fn) },
		func(fn bench.WorkFunc) executor.Executor { return executor.NewCompletionOrdered(fn) },
	} {
		var arrived sync.WaitGroup
		arrived.Add(workers)
		release := make(chan struct{})
		go func() {
			arrived.Wait()
			close(release)
		}()

		var inFlight, peak atomic.Int32
		fn := func(context.Context, bench.WorkItem) (time.Duration, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			arrived.Done()
			select {
			case <-release:
				return time.Millisecond, nil
			case <-time.After(5 * time.Second):
				return 0, errors.New("workers did not run concurrently")
			}
		}

		e := mk(fn)
		t.Run(string(e.Type()), func(t *testing.T) {
			rec, err := e.Run(context.Background(), []bench.WorkItem{"a", "b", "c"}, workers)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if rec.Failures() != 0 {
				t.Errorf("FailedItems = %v, want none", rec.FailedItems)
			}
			if got := peak.Load(); got != workers {
				t.Errorf("peak concurrency = %d, want %d", got, workers)
			}
		})
	}
}

func TestExecutors_ConcurrencyBounded(t *testing.T) {
	const workers = 2
	items := make([]bench.WorkItem, 12)
	for i := range items {
		items[i] = fmt.Sprintf("item-%02d", i)
	}

	for _, mk := range []func(bench.WorkFunc) executor.Executor{
		func(fn bench.WorkFunc) executor.Executor { return executor.NewBulk(fn) },
		func(fn bench.WorkFunc) executor.Executor { return executor.NewCompletionOrdered(fn) },
	} {
		var inFlight, peak atomic.Int32
		fn := func(context.Context, bench.WorkItem) (time.Duration, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			return 2 * time.Millisecond, nil
		}

		e := mk(fn)
		t.Run(string(e.Type()), func(t *testing.T) {
			if _, err := e.Run(context.Background(), items, workers); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := peak.Load(); got > workers {
				t.Errorf("peak concurrency = %d, want <= %d", got, workers)
			}
		})
	}
}

func TestExecutors_Progress(t *testing.T) {
	fn := scriptedWork(map[string]time.Duration{"a": 1, "b": 1, "c": 1, "d": 1})
	items := []bench.WorkItem{"a", "b", "c", "d"}

	var calls, maxDone, badTotal atomic.Int32
	progress := func(done, total int) {
		calls.Add(1)
		if total != len(items) {
			badTotal.Add(1)
		}
		for {
			m := maxDone.Load()
			if int32(done) <= m || maxDone.CompareAndSwap(m, int32(done)) {
				break
			}
		}
	}

	for _, e := range allExecutors(fn, executor.WithProgress(progress)) {
		calls.Store(0)
		maxDone.Store(0)
		badTotal.Store(0)
		t.Run(name(e), func(t *testing.T) {
			if _, err := e.Run(context.Background(), items, 2); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got := calls.Load(); got != int32(len(items)) {
				t.Errorf("progress calls = %d, want %d", got, len(items))
			}
			if got := maxDone.Load(); got != int32(len(items)) {
				t.Errorf("final done = %d, want %d", got, len(items))
			}
			if n := badTotal.Load(); n != 0 {
				t.Errorf("%d progress calls reported the wrong total", n)
			}
		})
	}
}

func TestExecutors_ProgressOrdered(t *testing.T) {
	const n = 500
	items := make([]bench.WorkItem, n)
	for i := range items {
		items[i] = bench.WorkItem(fmt.Sprintf("item-%d", i))
	}
	fn := func(_ context.Context, _ bench.WorkItem) (time.Duration, error) {
		return time.Microsecond, nil
	}

	var mu sync.Mutex
	var seen []int
	progress := func(done, total int) {
		mu.Lock()
		seen = append(seen, done)
		mu.Unlock()
	}

	for _, e := range allExecutors(fn, executor.WithProgress(progress)) {
		seen = nil
		t.Run(name(e), func(t *testing.T) {
			if _, err := e.Run(context.Background(), items, 16); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if len(seen) != n {
				t.Fatalf("progress calls = %d, want %d", len(seen), n)
			}
			for i, done := range seen {
				if done != i+1 {
					t.Fatalf("call %d reported done = %d, want %d", i, done, i+1)
				}
			}
		})
	}
}

func TestExecutors_PoolNotReused(t *testing.T) {
	fn := scriptedWork(map[string]time.Duration{"a": time.Millisecond, "b": time.Millisecond})

	for _, e := range allExecutors(fn) {
		t.Run(name(e), func(t *testing.T) {
			first, err := e.Run(context.Background(), []bench.WorkItem{"a", "b"}, 1)
			if err != nil {
				t.Fatalf("first Run() error = %v", err)
			}
			second, err := e.Run(context.Background(), []bench.WorkItem{"a"}, 2)
			if err != nil {
				t.Fatalf("second Run() error = %v", err)
			}
			if first.WorkerCount != 1 || second.WorkerCount != 2 {
				t.Errorf("worker counts = %d, %d; want 1, 2", first.WorkerCount, second.WorkerCount)
			}
			if first.NumItems != 2 || second.NumItems != 1 {
				t.Errorf("item counts = %d, %d; want 2, 1", first.NumItems, second.NumItems)
			}
		})
	}
}
