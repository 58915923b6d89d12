// Package lexicon holds the keyword sets used to spot complaints and praise
// in free-text feedback.
package lexicon

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var defaultNegative = []string{
	"slow", "overpriced", "issue", "problem", "bug", "crash",
	"expensive", "difficult", "limited", "ads", "doesn’t",
	"lack", "not unique",
}

var defaultPositive = []string{
	"useful", "great", "excellent", "clean", "fast",
	"intuitive", "helpful", "responsive",
}

// Lexicon is an immutable pair of trigger term sets. Terms are matched as
// case-insensitive substrings.
type Lexicon struct {
	negative []string
	positive []string
}

// New builds a Lexicon, lower-casing and trimming every term. Empty terms are dropped.
func New(negative, positive []string) Lexicon {
	return Lexicon{
		negative: normalizeTerms(negative),
		positive: normalizeTerms(positive),
	}
}

func Default() Lexicon {
	return New(defaultNegative, defaultPositive)
}

func (l Lexicon) HasNegative(text string) bool {
	return containsAny(strings.ToLower(text), l.negative)
}

func (l Lexicon) HasPositive(text string) bool {
	return containsAny(strings.ToLower(text), l.positive)
}

func (l Lexicon) Negative() []string {
	return append([]string(nil), l.negative...)
}

func (l Lexicon) Positive() []string {
	return append([]string(nil), l.positive...)
}

type lexiconFile struct {
	Negative []string `yaml:"negative"`
	Positive []string `yaml:"positive"`
}

// LoadFile reads a YAML document with `negative` and `positive` term lists.
// A list missing from the file keeps its default terms.
func LoadFile(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon %s: %w", path, err)
	}

	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon %s: %w", path, err)
	}

	negative, positive := f.Negative, f.Positive
	if len(negative) == 0 {
		negative = defaultNegative
	}
	if len(positive) == 0 {
		positive = defaultPositive
	}

	lex := New(negative, positive)
	slog.Info("[Lexicon] Loaded lexicon from file",
		slog.String("path", path),
		slog.Int("negative_terms", len(lex.negative)),
		slog.Int("positive_terms", len(lex.positive)))
	return lex, nil
}

func normalizeTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
