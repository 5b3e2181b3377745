package sentiment

import (
	"math"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "news-sentiment/internal/errors"
	"news-sentiment/internal/models"
)

func TestCategorize_Boundaries(t *testing.T) {
	tests := []struct {
		polarity float64
		want     models.SentimentCategory
	}{
		{-1, models.SentimentNegative},
		{-0.1, models.SentimentNegative},
		{-0.0999, models.SentimentNeutral},
		{0, models.SentimentNeutral},
		{0.0999, models.SentimentNeutral},
		{0.1, models.SentimentPositive},
		{1, models.SentimentPositive},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.polarity), "polarity %v", tt.polarity)
	}
}

func TestScore_Headlines(t *testing.T) {
	s := NewScorer(nil)

	p, cat := s.Score("company beat earnings forecast")
	assert.InDelta(t, 0.6, p, 1e-9)
	assert.Equal(t, models.SentimentPositive, cat)

	p, cat = s.Score("stock downgrade amid weak outlook")
	assert.InDelta(t, -0.7, p, 1e-9)
	assert.Equal(t, models.SentimentNegative, cat)

	p, cat = s.Score("company announce quarterly result")
	assert.Equal(t, 0.0, p)
	assert.Equal(t, models.SentimentNeutral, cat)

	p, cat = s.Score("")
	assert.Equal(t, 0.0, p)
	assert.Equal(t, models.SentimentNeutral, cat)
}

func TestScore_Negation(t *testing.T) {
	s := NewScorer(nil)

	p, _ := s.Score("profit not strong")
	// profit 0.7, negated strong 0.6 * -0.5
	assert.InDelta(t, (0.7-0.3)/2, p, 1e-9)

	// a negator only reaches the next token
	p, _ = s.Score("not company profit")
	assert.InDelta(t, 0.7, p, 1e-9)
}

func TestParseLexicon(t *testing.T) {
	lex, err := ParseLexicon([]byte("negators: [not]\nwords:\n  gain: 0.5\n  loss: -0.5\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, lex.Len())
	assert.True(t, lex.IsNegator("not"))

	_, err = ParseLexicon([]byte("words:\n  moon: 2\n"))
	var verr *apperrors.ValidationError
	assert.True(t, apperrors.As(err, &verr))

	_, err = ParseLexicon([]byte("words: {}\n"))
	assert.Error(t, err)
}

func TestDefaultLexiconLoadsOnce(t *testing.T) {
	assert.Same(t, DefaultLexicon(), DefaultLexicon())
	assert.Greater(t, DefaultLexicon().Len(), 50)
}

func TestProperty_PolarityBounded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	s := NewScorer(nil)

	tokens := gen.OneConstOf("surge", "crash", "not", "no", "gain", "loss", "company", "up", "down",
		"fraud", "beat", "weak", "5%", "$10", "")

	properties.Property("polarity is always in [-1, 1] and matches its category", prop.ForAll(
		func(ws []string) bool {
			text := ""
			for _, w := range ws {
				text += w + " "
			}
			p, cat := s.Score(text)
			if math.IsNaN(p) || p < -1 || p > 1 {
				return false
			}
			return cat == Categorize(p)
		},
		gen.SliceOf(tokens),
	))

	properties.TestingRun(t)
}
