package churn

import (
	"math"
	"strconv"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/models"

	"github.com/montanaflynn/stats"
)

// ProbabilityColumn is the column the model writes its positive-class score to.
const ProbabilityColumn = "churn_probability"

const (
	highRiskThreshold   = 0.7
	mediumRiskThreshold = 0.3
)

// Segments buckets customers by churn probability.
type Segments struct {
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Unscored int `json:"unscored"`
}

func RiskSegments(records []models.Record) Segments {
	var s Segments
	for _, r := range records {
		p, ok := Probability(r)
		switch {
		case !ok:
			s.Unscored++
		case p > highRiskThreshold:
			s.High++
		case p > mediumRiskThreshold:
			s.Medium++
		default:
			s.Low++
		}
	}
	return s
}

// Probability reads churn_probability from a record, accepting numeric text.
// NaN and infinities count as missing.
func Probability(r models.Record) (float64, bool) {
	v := r.Value(ProbabilityColumn)
	f, ok := models.Number(v)
	if !ok {
		s, isText := v.(string)
		if !isText {
			return 0, false
		}
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Probabilities collects every parseable churn probability.
func Probabilities(records []models.Record) []float64 {
	out := make([]float64, 0, len(records))
	for _, r := range records {
		if p, ok := Probability(r); ok {
			out = append(out, p)
		}
	}
	return out
}

type ProbabilitySummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// SummarizeProbabilities returns false when no record carries a probability.
func SummarizeProbabilities(records []models.Record) (ProbabilitySummary, bool) {
	data := stats.Float64Data(Probabilities(records))
	if data.Len() == 0 {
		return ProbabilitySummary{}, false
	}

	s := ProbabilitySummary{Count: data.Len()}
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	s.P25, _ = data.Percentile(25)
	s.P75, _ = data.Percentile(75)
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	return s, true
}
