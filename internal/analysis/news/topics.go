package news

import (
	"sort"
	"strings"

	"news-sentiment/internal/models"
)

// MaxVocabulary caps the number of distinct terms kept by Topics.
const MaxVocabulary = 100

// Default topic shape.
const (
	DefaultTopics = 5
	DefaultWords  = 5
)

// Topics counts unigrams and bigrams over the normalized headlines and returns
// the nTopics*nWords most frequent terms. Ties keep first-seen order. This is
// a frequency proxy, not a topic model.
func Topics(rows []models.ScoredHeadline, nTopics, nWords int) []models.TopicTerm {
	limit := nTopics * nWords
	if nTopics <= 0 || nWords <= 0 {
		return []models.TopicTerm{}
	}

	index := make(map[string]int)
	terms := make([]models.TopicTerm, 0)
	add := func(term string) {
		i, ok := index[term]
		if !ok {
			i = len(terms)
			index[term] = i
			terms = append(terms, models.TopicTerm{Term: term})
		}
		terms[i].Count++
	}

	for _, r := range rows {
		tokens := strings.Fields(r.Normalized)
		for i, tok := range tokens {
			add(tok)
			if i+1 < len(tokens) {
				add(tok + " " + tokens[i+1])
			}
		}
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return terms[i].Count > terms[j].Count
	})

	if len(terms) > MaxVocabulary {
		terms = terms[:MaxVocabulary]
	}
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}
