package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spacesedan/feedbackflow/internal/backend"
	"github.com/spacesedan/feedbackflow/internal/sentiment"
)

const corpus = "Alice: Great app but crashes a lot (Rating: 5)\nBob: Terrible, too expensive (Rating: 1)\n"

type fakeGenerator struct {
	out    string
	err    error
	calls  int
	prompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string, opts backend.GenerateOptions) (string, error) {
	f.calls++
	f.prompt = prompt
	return f.out, f.err
}

func engineWith(g *fakeGenerator) *Engine {
	return New(backend.Some[backend.Generator](g), 0)
}

func TestRecommendShortCircuits(t *testing.T) {
	g := &fakeGenerator{out: "The team should do something."}
	e := engineWith(g)

	if got := e.Recommend(context.Background(), corpus, nil); got != NoFeedback {
		t.Fatalf("empty labels = %q", got)
	}
	got := e.Recommend(context.Background(), corpus, []sentiment.Classification{sentiment.Positive, sentiment.Positive})
	if got != AllPositive {
		t.Fatalf("all positive = %q", got)
	}
	if g.calls != 0 {
		t.Fatalf("generator calls = %d, want 0", g.calls)
	}
}

func TestRecommendMixedIsNotAllPositive(t *testing.T) {
	g := &fakeGenerator{out: "The team should invest in crash reporting before adding features."}
	got, outcome := engineWith(g).Evaluate(context.Background(), corpus,
		[]sentiment.Classification{sentiment.Positive, sentiment.Mixed})

	if outcome != OutcomeGenerated || got != g.out {
		t.Fatalf("Evaluate = %q (%s)", got, outcome)
	}
}

func TestRecommendPromptUsesCleanedFeedback(t *testing.T) {
	g := &fakeGenerator{out: "The team should stabilize releases with automated regression testing."}
	engineWith(g).Recommend(context.Background(), corpus, []sentiment.Classification{sentiment.Mixed, sentiment.Negative})

	if strings.Contains(g.prompt, "Alice") || strings.Contains(g.prompt, "Rating:") {
		t.Fatalf("prompt leaks names or ratings:\n%s", g.prompt)
	}
	if !strings.Contains(g.prompt, "Great app but crashes a lot\nTerrible, too expensive") {
		t.Fatalf("prompt missing cleaned feedback:\n%s", g.prompt)
	}
	if !strings.Contains(g.prompt, "Do NOT repeat") {
		t.Fatalf("prompt missing anti-echo rule:\n%s", g.prompt)
	}
}

func TestRecommendFiltersEchoes(t *testing.T) {
	tests := []struct {
		name string
		out  string
	}{
		{name: "verbatim clause", out: "Great app but crashes a lot. Fix it."},
		{name: "verbatim clause different case", out: "The team notes: GREAT APP BUT CRASHES A LOT"},
		{name: "first person", out: "I think the team should lower prices."},
		{name: "possessive", out: "The team should fix my login."},
		{name: "generic product noun", out: "The team should make the app faster."},
		{name: "empty", out: "   "},
		{name: "source sentence quoted inside a clause", out: "The team should stop users saying Great app but crashes a lot by fixing crashes first."},
		{name: "source sentence quoted with other casing", out: "The team should hear TERRIBLE and act on great app but crashes a lot quickly"},
	}
	for _, tt := range tests {
		g := &fakeGenerator{out: tt.out}
		got, outcome := engineWith(g).Evaluate(context.Background(), corpus,
			[]sentiment.Classification{sentiment.Mixed, sentiment.Negative})
		if got != SafeFallback || outcome != OutcomeFiltered {
			t.Errorf("%s: Evaluate = %q (%s), want safe fallback", tt.name, got, outcome)
		}
	}
}

func TestRecommendFailurePaths(t *testing.T) {
	labels := []sentiment.Classification{sentiment.Negative}

	none := New(backend.None[backend.Generator](), 0)
	if got, outcome := none.Evaluate(context.Background(), corpus, labels); got != NotAttempted || outcome != OutcomeNotAttempted {
		t.Fatalf("no generator = %q (%s)", got, outcome)
	}

	failing := engineWith(&fakeGenerator{err: errors.New("rate limited")})
	if got, outcome := failing.Evaluate(context.Background(), corpus, labels); got != InvocationFallback || outcome != OutcomeInvocationFailed {
		t.Fatalf("failing generator = %q (%s)", got, outcome)
	}

	if NotAttempted == InvocationFallback {
		t.Fatal("callers must be able to tell a failed call from a skipped one")
	}
}

func TestRecommendTrimsOutput(t *testing.T) {
	g := &fakeGenerator{out: "\n  The team should introduce a cheaper starter plan.  \n"}
	got := engineWith(g).Recommend(context.Background(), corpus, []sentiment.Classification{sentiment.Negative})
	if got != "The team should introduce a cheaper starter plan." {
		t.Fatalf("Recommend = %q", got)
	}
}

func TestCleanCorpus(t *testing.T) {
	in := "Alice: Great app: really (Rating: 5)\n\n  Bob:Too slow(Rating:2)  \nno name line\n"
	want := "Great app: really\nToo slow\nno name line"
	if got := CleanCorpus(in); got != want {
		t.Fatalf("CleanCorpus = %q, want %q", got, want)
	}
	if got := CleanCorpus("Dana: Cons: slow sync (Rating: 2)\n"); got != "Cons: slow sync" {
		t.Fatalf("CleanCorpus kept only %q", got)
	}
	if got := CleanCorpus(""); got != "" {
		t.Fatalf("CleanCorpus(\"\") = %q", got)
	}
}

func TestEchoesIgnoresShortClauses(t *testing.T) {
	source := "too expensive\nvery slow"
	if Echoes("The team should act on pricing, too expensive.", source) {
		t.Fatal("two-word clause should not count as an echo")
	}
	if !Echoes("It is very slow to load, and pricey.", "Honestly it is very slow to load") {
		t.Fatal("expected verbatim clause to be detected")
	}
	if !Echoes("The team should address honestly it is very slow to load before anything else.", "Honestly it is very slow to load") {
		t.Fatal("expected quoted source clause to be detected")
	}
	if Echoes("The team should improve API stability.", source) {
		t.Fatal("'api' must not trip the first-person marker")
	}
}
