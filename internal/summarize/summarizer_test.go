package summarize

import (
	"context"
	"errors"
	"testing"

	"github.com/spacesedan/feedbackflow/internal/backend"
)

type fakeCondenser struct {
	summary string
	err     error
	calls   int
	input   string
	opts    backend.CondenseOptions
}

func (f *fakeCondenser) Condense(ctx context.Context, text string, opts backend.CondenseOptions) (string, error) {
	f.calls++
	f.input = text
	f.opts = opts
	return f.summary, f.err
}

func TestSummarizeEmptyReturnsSentinelWithoutBackend(t *testing.T) {
	c := &fakeCondenser{summary: "should not be used"}
	s := New(backend.Some[backend.Condenser](c), 0)

	if got := s.Summarize(context.Background(), nil, NoPainPoints); got != "No major pain points detected." {
		t.Fatalf("Summarize = %q", got)
	}
	if got := s.Summarize(context.Background(), []string{}, NoPraises); got != "No major praises detected." {
		t.Fatalf("Summarize = %q", got)
	}
	if c.calls != 0 {
		t.Fatalf("backend calls = %d, want 0", c.calls)
	}
}

func TestSummarizeUsesBackend(t *testing.T) {
	c := &fakeCondenser{summary: "  Users report crashes and high prices.  "}
	s := New(backend.Some[backend.Condenser](c), 0)

	got := s.Summarize(context.Background(), []string{"It crashes", "Too expensive"}, NoPainPoints)

	if got != "Users report crashes and high prices." {
		t.Fatalf("Summarize = %q", got)
	}
	if c.input != "It crashes Too expensive" {
		t.Fatalf("backend input = %q", c.input)
	}
	if c.opts.MinLength != DefaultMinLength || c.opts.MaxLength != DefaultMaxLength {
		t.Fatalf("backend opts = %+v", c.opts)
	}
}

func TestSummarizeDegradesToJoinedText(t *testing.T) {
	sentences := []string{"Fast checkout", "Helpful staff"}
	want := "Fast checkout Helpful staff"

	tests := []struct {
		name      string
		condenser backend.Optional[backend.Condenser]
	}{
		{name: "no backend", condenser: backend.None[backend.Condenser]()},
		{name: "backend error", condenser: backend.Some[backend.Condenser](&fakeCondenser{err: errors.New("503")})},
		{name: "empty output", condenser: backend.Some[backend.Condenser](&fakeCondenser{summary: "   "})},
	}
	for _, tt := range tests {
		s := New(tt.condenser, 0)
		if got := s.Summarize(context.Background(), sentences, NoPraises); got != want {
			t.Errorf("%s: Summarize = %q, want %q", tt.name, got, want)
		}
	}
}
