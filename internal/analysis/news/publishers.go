package news

import (
	"sort"
	"strings"

	"news-sentiment/internal/models"
)

// PublisherStats groups rows by publisher and returns count and mean
// sentiment per publisher, most prolific first. Ties keep the order in which
// publishers were first seen.
func PublisherStats(rows []models.ScoredHeadline) []models.PublisherStat {
	index := make(map[string]int)
	stats := make([]models.PublisherStat, 0)
	sums := make([]float64, 0)

	for _, r := range rows {
		i, ok := index[r.Publisher]
		if !ok {
			i = len(stats)
			index[r.Publisher] = i
			stats = append(stats, models.PublisherStat{Publisher: r.Publisher})
			sums = append(sums, 0)
		}
		stats[i].Count++
		sums[i] += r.Sentiment
	}
	for i := range stats {
		stats[i].AvgSentiment = sums[i] / float64(stats[i].Count)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Count > stats[j].Count
	})
	return stats
}

// DomainCounts counts e-mail domains among publishers that contain '@'. The
// domain is everything after the first '@'; empty domains are skipped.
func DomainCounts(rows []models.ScoredHeadline) []models.DomainStat {
	index := make(map[string]int)
	counts := make([]models.DomainStat, 0)

	for _, r := range rows {
		at := strings.IndexByte(r.Publisher, '@')
		if at < 0 {
			continue
		}
		domain := r.Publisher[at+1:]
		if domain == "" {
			continue
		}
		i, ok := index[domain]
		if !ok {
			i = len(counts)
			index[domain] = i
			counts = append(counts, models.DomainStat{Domain: domain})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}
