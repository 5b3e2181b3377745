package news

import (
	"sort"
	"time"

	"news-sentiment/internal/analysis/stats"
	"news-sentiment/internal/models"
)

var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Temporal summarizes the publication hour of timestamped rows, the
// sentiment of all rows, and the weekday distribution.
func Temporal(rows []models.ScoredHeadline) models.TemporalSummary {
	hours := make([]float64, 0, len(rows))
	sentiments := make([]float64, 0, len(rows))
	perDay := make(map[time.Weekday]int)

	for _, r := range rows {
		sentiments = append(sentiments, r.Sentiment)
		if r.Timestamp == nil {
			continue
		}
		hours = append(hours, float64(r.Timestamp.Hour()))
		perDay[r.Timestamp.Weekday()]++
	}

	days := make([]models.DayCount, 0, len(weekOrder))
	if len(hours) > 0 {
		for _, d := range weekOrder {
			days = append(days, models.DayCount{Day: d, Name: d.String(), Count: perDay[d]})
		}
	}

	return models.TemporalSummary{
		Hour:      stats.Describe(hours),
		Sentiment: stats.Describe(sentiments),
		DayOfWeek: days,
	}
}

// DailySentiment averages sentiment per calendar date, oldest first. Rows
// without a parsable date are excluded.
func DailySentiment(rows []models.ScoredHeadline) []models.DailySentiment {
	type acc struct {
		sum   float64
		count int
	}
	byDate := make(map[time.Time]*acc)

	for _, r := range rows {
		if r.Date == nil {
			continue
		}
		a, ok := byDate[*r.Date]
		if !ok {
			a = &acc{}
			byDate[*r.Date] = a
		}
		a.sum += r.Sentiment
		a.count++
	}

	out := make([]models.DailySentiment, 0, len(byDate))
	for d, a := range byDate {
		out = append(out, models.DailySentiment{
			Date:         d,
			AvgSentiment: a.sum / float64(a.count),
			ArticleCount: a.count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
