package backend

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestOptional(t *testing.T) {
	if _, ok := None[Scorer]().Get(); ok {
		t.Fatal("None should be absent")
	}
	o := Some(42)
	v, ok := o.Get()
	if !ok || v != 42 || !o.Present() {
		t.Fatalf("Some(42).Get() = %d, %v", v, ok)
	}
}

func TestInvokeSuccess(t *testing.T) {
	res := Invoke(context.Background(), "test", time.Second, func(ctx context.Context) (string, error) {
		return "4 stars", nil
	})
	v, err := res.Unwrap()
	if err != nil || v != "4 stars" {
		t.Fatalf("Unwrap() = %q, %v", v, err)
	}
}

func TestInvokeWrapsErrors(t *testing.T) {
	cause := errors.New("boom")
	res := Invoke(context.Background(), "scorer", time.Second, func(ctx context.Context) (string, error) {
		return "", cause
	})

	var invErr *InvocationError
	if !errors.As(res.Err(), &invErr) {
		t.Fatalf("expected InvocationError, got %v", res.Err())
	}
	if invErr.Backend != "scorer" || !errors.Is(res.Err(), cause) {
		t.Fatalf("unexpected error %v", invErr)
	}
}

func TestInvokeTimeoutIsFailure(t *testing.T) {
	res := Invoke(context.Background(), "slow", 10*time.Millisecond, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "late", nil
	})
	if res.IsOk() {
		t.Fatal("expected timeout to be reported as failure")
	}
	if !errors.Is(res.Err(), context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", res.Err())
	}
}

func TestInvokeReturnsWhenCallIgnoresDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	start := time.Now()
	res := Invoke(context.Background(), "stuck", 10*time.Millisecond, func(ctx context.Context) (string, error) {
		<-release
		return "late", nil
	})
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Fatalf("Invoke waited %v for a call that ignores its context", elapsed)
	}
	if !errors.Is(res.Err(), context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", res.Err())
	}
}

func TestInvokeRecoversPanic(t *testing.T) {
	res := Invoke(context.Background(), "panicky", 0, func(ctx context.Context) (int, error) {
		panic("model exploded")
	})
	if res.IsOk() {
		t.Fatal("expected panic to become a failure")
	}
}

func TestFold(t *testing.T) {
	ok := Fold(Ok(3), strconv.Itoa, func(error) string { return "failed" })
	if ok != "3" {
		t.Fatalf("Fold(Ok) = %q", ok)
	}
	failed := Fold(Failed[int](errors.New("x")), strconv.Itoa, func(error) string { return "failed" })
	if failed != "failed" {
		t.Fatalf("Fold(Failed) = %q", failed)
	}
	if Failed[int](nil).IsOk() {
		t.Fatal("Failed(nil) must still be a failure")
	}
}

type countingScorer struct {
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (c *countingScorer) Score(ctx context.Context, text string) (string, error) {
	n := c.inFlight.Add(1)
	for {
		prev := c.maxSeen.Load()
		if n <= prev || c.maxSeen.CompareAndSwap(prev, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)
	c.inFlight.Add(-1)
	return "3 stars", nil
}

func TestSerializeScorerAdmitsOneCallAtATime(t *testing.T) {
	inner := &countingScorer{}
	s := SerializeScorer(inner)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Score(context.Background(), "text"); err != nil {
				t.Errorf("Score: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := inner.maxSeen.Load(); got != 1 {
		t.Fatalf("max concurrent calls = %d, want 1", got)
	}
}

type blockingGenerator struct {
	release chan struct{}
}

func (b *blockingGenerator) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	<-b.release
	return "done", nil
}

func TestSerializedCallerHonorsContext(t *testing.T) {
	inner := &blockingGenerator{release: make(chan struct{})}
	g := SerializeGenerator(inner)

	go g.Generate(context.Background(), "first", GenerateOptions{})
	time.Sleep(5 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := g.Generate(ctx, "second", GenerateOptions{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected queued call to time out, got %v", err)
	}
	close(inner.release)
}
