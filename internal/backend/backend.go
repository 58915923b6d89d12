// Package backend describes the text-inference capabilities the analysis
// pipeline depends on. Every capability is optional: a missing backend is a
// valid state and callers fall back to deterministic rules.
package backend

import "context"

// Scorer returns a sentiment label for text, e.g. "4 stars".
type Scorer interface {
	Score(ctx context.Context, text string) (string, error)
}

type CondenseOptions struct {
	MinLength int
	MaxLength int
}

// Condenser produces a short abstractive summary of text.
type Condenser interface {
	Condense(ctx context.Context, text string, opts CondenseOptions) (string, error)
}

type GenerateOptions struct {
	MaxTokens int
}

// Generator completes an instruction prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// Optional holds a value that may be absent.
type Optional[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, ok: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Optional[T]) Present() bool {
	return o.ok
}

// Backends is the set of inference backends loaded once at process start.
// It is never mutated after construction.
type Backends struct {
	scorer    Optional[Scorer]
	condenser Optional[Condenser]
	generator Optional[Generator]
}

func NewBackends(scorer Optional[Scorer], condenser Optional[Condenser], generator Optional[Generator]) Backends {
	return Backends{scorer: scorer, condenser: condenser, generator: generator}
}

func (b Backends) Scorer() Optional[Scorer] {
	return b.scorer
}

func (b Backends) Condenser() Optional[Condenser] {
	return b.condenser
}

func (b Backends) Generator() Optional[Generator] {
	return b.generator
}
