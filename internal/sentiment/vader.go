package sentiment

import (
	"context"
	"fmt"

	"github.com/jonreiter/govader"
)

// VaderScorer scores text with the VADER lexicon and reports the result as a
// star label, so it can stand in for a star-rating model.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Score(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	score := v.analyzer.PolarityScores(ConvertMarkdownToText(text)).Compound
	return starLabel(compoundToStars(score)), nil
}

func compoundToStars(score float64) int {
	switch {
	case score >= 0.60:
		return 5
	case score >= 0.20:
		return 4
	case score > -0.20:
		return 3
	case score > -0.60:
		return 2
	default:
		return 1
	}
}

func starLabel(stars int) string {
	if stars == 1 {
		return "1 star"
	}
	return fmt.Sprintf("%d stars", stars)
}
