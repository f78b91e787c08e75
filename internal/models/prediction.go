package models

import (
	"sort"
	"time"
)

// Distribution maps a predicted label to its record count.
type Distribution map[string]int

func (d Distribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

// Labels returns the labels ordered by descending count, ties by label.
func (d Distribution) Labels() []string {
	labels := make([]string, 0, len(d))
	for k := range d {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		if d[labels[i]] != d[labels[j]] {
			return d[labels[i]] > d[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}

// PredictionPayload is what /csv returns and what /report/pdf accepts.
type PredictionPayload struct {
	ID                string       `json:"id,omitempty"`
	User              string       `json:"user,omitempty"`
	Timestamp         string       `json:"timestamp,omitempty"`
	Records           []Record     `json:"records"`
	Columns           []string     `json:"columns,omitempty"`
	PredictionColumn  string       `json:"prediction_column"`
	ClassDistribution Distribution `json:"class_distribution"`
	ModelUsed         string       `json:"model_used"`
	FileName          string       `json:"file_name"`
}

// Headers returns the payload's column order, falling back to the first record.
func (p *PredictionPayload) Headers() []string {
	if len(p.Columns) > 0 {
		return p.Columns
	}
	if len(p.Records) > 0 {
		return p.Records[0].Keys()
	}
	return nil
}

// PredictionSummary is a stored prediction without its rows.
type PredictionSummary struct {
	ID               string    `json:"id" db:"id"`
	Username         string    `json:"user" db:"username"`
	FileName         string    `json:"file_name" db:"file_name"`
	ModelUsed        string    `json:"model_used" db:"model_used"`
	PredictionColumn string    `json:"prediction_column" db:"prediction_column"`
	TotalRecords     int       `json:"total_records" db:"total_records"`
	ChurnRate        float64   `json:"churn_rate" db:"churn_rate"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
