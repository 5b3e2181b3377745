package text

// stopWords is the generic English stop-word list. It extends the minimal
// list the headline cleaner always used with common function words.
var stopWords = newSet(
	"the", "and", "is", "in", "to", "of", "a", "for", "on", "with", "as", "by",
	"at", "from", "it", "an", "be",
	"are", "was", "were", "been", "being", "am", "has", "have", "had", "having",
	"do", "does", "did", "doing", "will", "would", "shall", "should", "can",
	"could", "may", "might", "must",
	"this", "that", "these", "those", "there", "here", "then", "than",
	"its", "he", "she", "they", "them", "their", "theirs", "his", "her",
	"hers", "him", "we", "us", "our", "ours", "you", "your", "yours", "i", "me",
	"my", "mine", "who", "whom", "whose", "which", "what", "when", "where",
	"why", "how", "or", "but", "if", "so", "because", "while", "about",
	"into", "through", "during", "before", "after", "again", "further",
	"once", "also", "just", "only", "own", "same", "such", "too", "very",
	"each", "few", "more", "most", "other", "some", "any", "all", "both",
	"nor", "not", "no", "up", "down", "above", "below", "over", "under",
	"out", "off", "between", "against", "until",
)

// DefaultDomainTerms is the financial allow-list that survives stop-word
// removal even when a term is also a generic stop word.
var DefaultDomainTerms = []string{
	"buy", "sell", "hold", "up", "down", "above", "below", "over", "under",
	"out", "off", "not", "no",
}

// IsStopWord reports whether word is in the generic stop-word list.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

func newSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
