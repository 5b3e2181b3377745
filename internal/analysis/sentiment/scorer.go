// Package sentiment scores normalized headlines with a fixed lexical-polarity
// heuristic.
package sentiment

import (
	"strings"

	"news-sentiment/internal/models"
)

// Category thresholds. The bins are (-inf, -0.1], (-0.1, 0.1), [0.1, +inf).
const (
	NegativeThreshold = -0.1
	PositiveThreshold = 0.1
)

// negationFactor scales a lexicon weight that directly follows a negator.
const negationFactor = -0.5

// Scorer maps normalized text to a polarity in [-1, 1]. It never fails: text
// without lexicon hits scores 0 (neutral).
type Scorer struct {
	lexicon *Lexicon
}

// NewScorer creates a scorer. A nil lexicon selects DefaultLexicon.
func NewScorer(lexicon *Lexicon) *Scorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Scorer{lexicon: lexicon}
}

// Score returns the mean weight of the lexicon tokens in normalized and its
// category. A negator flips and halves the weight of the token right after it.
func (s *Scorer) Score(normalized string) (float64, models.SentimentCategory) {
	p := s.Polarity(normalized)
	return p, Categorize(p)
}

// Polarity returns the clamped mean lexicon weight of the tokens.
func (s *Scorer) Polarity(normalized string) float64 {
	var total float64
	var hits int
	negated := false

	for _, tok := range strings.Fields(normalized) {
		if s.lexicon.IsNegator(tok) {
			negated = true
			continue
		}
		w, ok := s.lexicon.Weight(tok)
		if ok {
			if negated {
				w *= negationFactor
			}
			total += w
			hits++
		}
		negated = false
	}

	if hits == 0 {
		return 0
	}
	return clamp(total / float64(hits))
}

// Categorize buckets a polarity. Boundaries fall toward the outer bins:
// exactly 0.1 is positive and exactly -0.1 is negative.
func Categorize(polarity float64) models.SentimentCategory {
	switch {
	case polarity >= PositiveThreshold:
		return models.SentimentPositive
	case polarity <= NegativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
