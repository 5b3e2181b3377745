// Package models provides domain models for the headline sentiment analyzer.
package models

import (
	"time"
)

// SentimentCategory is the discrete bucket of a polarity score.
type SentimentCategory string

const (
	SentimentNegative SentimentCategory = "negative"
	SentimentNeutral  SentimentCategory = "neutral"
	SentimentPositive SentimentCategory = "positive"
)

// HeadlineRecord is one row of the headline table as ingested.
// Timestamp is nil when the source date could not be parsed.
type HeadlineRecord struct {
	Headline  string     `json:"headline"`
	Publisher string     `json:"publisher"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Ticker    string     `json:"ticker,omitempty"`
}

// ScoredHeadline is a HeadlineRecord extended with the fields derived by the
// normalizer and the scorer. Date is nil whenever Timestamp is nil.
type ScoredHeadline struct {
	HeadlineRecord
	Normalized string            `json:"normalized"`
	Sentiment  float64           `json:"sentiment"`
	Category   SentimentCategory `json:"sentiment_category"`
	Date       *time.Time        `json:"date_only,omitempty"`
}

// PublisherStat summarizes the headlines of one publisher.
type PublisherStat struct {
	Publisher    string  `json:"publisher"`
	Count        int     `json:"count"`
	AvgSentiment float64 `json:"avg_sentiment"`
}

// DomainStat counts publishers sharing an e-mail domain.
type DomainStat struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// TopicTerm is a unigram or bigram with its corpus frequency.
type TopicTerm struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// DailySentiment is the mean sentiment of all headlines on one calendar date.
type DailySentiment struct {
	Date         time.Time `json:"date"`
	AvgSentiment float64   `json:"avg_sentiment"`
	ArticleCount int       `json:"article_count"`
}

// DateOf truncates t to its calendar date, keeping the wall-clock date of t's
// own location and expressing it as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
