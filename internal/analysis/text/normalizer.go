// Package text provides headline normalization: case folding, noise
// stripping, stop-word removal with a financial allow-list, and lemmatization.
package text

import (
	"strings"
	"sync"
	"unicode"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// maxLemmaSteps bounds the lemma-of-lemma walk used to reach a fixed point.
const maxLemmaSteps = 4

// Lemmatizer maps an inflected word to its dictionary base form.
// *golem.Lemmatizer satisfies it.
type Lemmatizer interface {
	Lemma(word string) string
}

type identityLemmatizer struct{}

func (identityLemmatizer) Lemma(word string) string { return word }

var (
	defaultLemmatizerOnce sync.Once
	defaultLemmatizer     Lemmatizer
)

// DefaultLemmatizer returns the process-wide English lemmatizer. The
// dictionary is loaded on first use; if it fails to load, tokens pass through
// unchanged.
func DefaultLemmatizer() Lemmatizer {
	defaultLemmatizerOnce.Do(func() {
		l, err := golem.New(en.New())
		if err != nil {
			defaultLemmatizer = identityLemmatizer{}
			return
		}
		defaultLemmatizer = l
	})
	return defaultLemmatizer
}

// Normalizer cleans headline text. It is safe for concurrent use.
type Normalizer struct {
	domainTerms map[string]struct{}
	lemmatizer  Lemmatizer
}

// NewNormalizer creates a normalizer with the given domain allow-list. A nil
// lemmatizer selects DefaultLemmatizer.
func NewNormalizer(domainTerms []string, lemmatizer Lemmatizer) *Normalizer {
	if lemmatizer == nil {
		lemmatizer = DefaultLemmatizer()
	}
	terms := make(map[string]struct{}, len(domainTerms))
	for _, t := range domainTerms {
		t = Clean(t)
		if t != "" {
			terms[t] = struct{}{}
		}
	}
	return &Normalizer{domainTerms: terms, lemmatizer: lemmatizer}
}

// Normalize lowercases text, strips every character outside [a-z0-9 $%],
// drops stop words that are not domain terms, lemmatizes the survivors and
// joins them with single spaces.
func (n *Normalizer) Normalize(text string) string {
	tokens := strings.Fields(Clean(text))
	if len(tokens) == 0 {
		return ""
	}

	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if n.isDropped(tok) {
			continue
		}
		lemma := n.lemma(tok)
		// A lemma can itself be a stop word; dropping it here keeps
		// Normalize idempotent.
		if n.isDropped(lemma) {
			continue
		}
		out = append(out, lemma)
	}
	return strings.Join(out, " ")
}

// IsDomainTerm reports whether word is on the allow-list.
func (n *Normalizer) IsDomainTerm(word string) bool {
	_, ok := n.domainTerms[word]
	return ok
}

func (n *Normalizer) isDropped(tok string) bool {
	return IsStopWord(tok) && !n.IsDomainTerm(tok)
}

// lemma lemmatizes purely alphabetic tokens; numerals and tokens carrying
// $ or % are kept verbatim.
func (n *Normalizer) lemma(tok string) string {
	if !isAlpha(tok) {
		return tok
	}
	cur := tok
	for i := 0; i < maxLemmaSteps; i++ {
		next := Clean(n.lemmatizer.Lemma(cur))
		if next == "" || strings.ContainsRune(next, ' ') || next == cur {
			break
		}
		cur = next
	}
	return cur
}

// Clean lowercases s and removes every rune outside a-z, 0-9, whitespace,
// '$' and '%'. Whitespace runs are preserved for the tokenizer.
func Clean(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '$', r == '%':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return b.String()
}

func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return s != ""
}

var (
	defaultNormalizerOnce sync.Once
	defaultNormalizer     *Normalizer
)

// Normalize is the function form of Normalizer.Normalize. With a nil
// domainTerms it uses a shared normalizer built from DefaultDomainTerms.
func Normalize(text string, domainTerms []string) string {
	if domainTerms == nil {
		defaultNormalizerOnce.Do(func() {
			defaultNormalizer = NewNormalizer(DefaultDomainTerms, nil)
		})
		return defaultNormalizer.Normalize(text)
	}
	return NewNormalizer(domainTerms, nil).Normalize(text)
}
