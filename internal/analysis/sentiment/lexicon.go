package sentiment

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	apperrors "news-sentiment/internal/errors"
)

//go:embed lexicon.yaml
var defaultLexiconYAML []byte

// Lexicon is an immutable token → polarity weight table.
type Lexicon struct {
	words    map[string]float64
	negators map[string]struct{}
}

type lexiconFile struct {
	Negators []string           `yaml:"negators"`
	Words    map[string]float64 `yaml:"words"`
}

var (
	defaultLexiconOnce sync.Once
	defaultLexicon     *Lexicon
)

// DefaultLexicon returns the embedded lexicon, parsed once per process.
func DefaultLexicon() *Lexicon {
	defaultLexiconOnce.Do(func() {
		lex, err := ParseLexicon(defaultLexiconYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded lexicon is invalid: %v", err))
		}
		defaultLexicon = lex
	})
	return defaultLexicon
}

// LoadLexicon reads a lexicon YAML file.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewDataError("lexicon", path, "read failed", err)
	}
	lex, err := ParseLexicon(data)
	if err != nil {
		return nil, apperrors.Wrapf(err, "lexicon %s", path)
	}
	return lex, nil
}

// ParseLexicon decodes lexicon YAML. Every weight must lie in [-1, 1].
func ParseLexicon(data []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	if len(f.Words) == 0 {
		return nil, apperrors.NewValidationError("words", 0, "lexicon has no entries")
	}

	lex := &Lexicon{
		words:    make(map[string]float64, len(f.Words)),
		negators: make(map[string]struct{}, len(f.Negators)),
	}
	for w, weight := range f.Words {
		if weight < -1 || weight > 1 {
			return nil, apperrors.NewValidationError("words."+w, weight, "weight must be in [-1, 1]")
		}
		lex.words[w] = weight
	}
	for _, n := range f.Negators {
		lex.negators[n] = struct{}{}
	}
	return lex, nil
}

// Weight returns the polarity weight of token.
func (l *Lexicon) Weight(token string) (float64, bool) {
	w, ok := l.words[token]
	return w, ok
}

// IsNegator reports whether token flips the next lexicon hit.
func (l *Lexicon) IsNegator(token string) bool {
	_, ok := l.negators[token]
	return ok
}

// Len returns the number of weighted entries.
func (l *Lexicon) Len() int {
	return len(l.words)
}
