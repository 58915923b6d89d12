package backend

import "context"

// queue admits one call at a time. Waiting callers give up when their
// context ends.
type queue chan struct{}

func newQueue() queue {
	return make(queue, 1)
}

func (q queue) acquire(ctx context.Context) error {
	select {
	case q <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q queue) release() {
	<-q
}

type serialScorer struct {
	next Scorer
	q    queue
}

// SerializeScorer wraps a Scorer that is not safe for concurrent inference.
func SerializeScorer(s Scorer) Scorer {
	return &serialScorer{next: s, q: newQueue()}
}

func (s *serialScorer) Score(ctx context.Context, text string) (string, error) {
	if err := s.q.acquire(ctx); err != nil {
		return "", err
	}
	defer s.q.release()
	return s.next.Score(ctx, text)
}

type serialCondenser struct {
	next Condenser
	q    queue
}

func SerializeCondenser(c Condenser) Condenser {
	return &serialCondenser{next: c, q: newQueue()}
}

func (s *serialCondenser) Condense(ctx context.Context, text string, opts CondenseOptions) (string, error) {
	if err := s.q.acquire(ctx); err != nil {
		return "", err
	}
	defer s.q.release()
	return s.next.Condense(ctx, text, opts)
}

type serialGenerator struct {
	next Generator
	q    queue
}

func SerializeGenerator(g Generator) Generator {
	return &serialGenerator{next: g, q: newQueue()}
}

func (s *serialGenerator) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if err := s.q.acquire(ctx); err != nil {
		return "", err
	}
	defer s.q.release()
	return s.next.Generate(ctx, prompt, opts)
}
