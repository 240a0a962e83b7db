package shutdownqueue

import (
	"context"
	"errors"
	"testing"
	"time"
)

// reset clears the global queue between tests.
func reset(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		mu.Lock()
		tasks = nil
		closed = false
		mu.Unlock()
	})

	mu.Lock()
	tasks = nil
	closed = false
	mu.Unlock()
}

//nolint:paralleltest
func TestAddNilTaskIsNoop(t *testing.T) {
	reset(t)

	Add(nil)

	err := Shutdown(context.Background())
	if err != nil {
		t.Fatalf("expected nil after adding nil task; got %v", err)
	}
}

//nolint:paralleltest
func TestShutdownRunsLIFO(t *testing.T) {
	reset(t)

	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		Add(func(context.Context) error {
			order = append(order, i)
			return nil
		})
	}

	err := Shutdown(context.Background())
	if err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	want := []int{3, 2, 1}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", order, want)
		}
	}
}

//nolint:paralleltest
func TestShutdownJoinsErrorsAndRecoversPanics(t *testing.T) {
	reset(t)

	boom := errors.New("boom")

	Add(func(context.Context) error { return boom })
	Add(func(context.Context) error { panic("ouch") })

	err := Shutdown(context.Background())
	if err == nil {
		t.Fatal("expected joined error")
	}

	if !errors.Is(err, boom) {
		t.Fatalf("missing task error in %v", err)
	}
}

//nolint:paralleltest
func TestShutdownIsIdempotent(t *testing.T) {
	reset(t)

	runs := 0
	Add(func(context.Context) error {
		runs++
		return nil
	})

	_ = Shutdown(context.Background())
	_ = Shutdown(context.Background())

	if runs != 1 {
		t.Fatalf("task ran %d times, want 1", runs)
	}
}

//nolint:paralleltest
func TestShutdownHonorsContext(t *testing.T) {
	reset(t)

	ran := false

	Add(func(context.Context) error {
		ran = true
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	cancel()

	err := Shutdown(ctx)
	if err == nil {
		t.Fatal("expected context error")
	}

	if ran {
		t.Fatal("task should have been skipped after cancellation")
	}
}
