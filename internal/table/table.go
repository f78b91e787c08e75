// Package table shapes prediction rows for display: search filtering, column
// sorting, pagination and export.
package table

import (
	"sort"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/models"
)

const (
	DefaultPerPage    = 10
	maxDisplayColumns = 6
)

type Direction string

const (
	Ascending  Direction = "ascending"
	Descending Direction = "descending"
)

// Filter keeps rows where any value contains term, ignoring case. Falsy values
// (nil, "", 0, false) never match.
func Filter(rows []models.Record, term string) []models.Record {
	out := make([]models.Record, 0, len(rows))
	if term == "" {
		return append(out, rows...)
	}
	needle := strings.ToLower(term)
	for _, row := range rows {
		if rowMatches(row, needle) {
			out = append(out, row)
		}
	}
	return out
}

func rowMatches(row models.Record, needle string) bool {
	for _, k := range row.Keys() {
		v := row.Value(k)
		if !models.Truthy(v) {
			continue
		}
		if strings.Contains(strings.ToLower(models.FormatValue(v)), needle) {
			return true
		}
	}
	return false
}

// Sort returns a copy of rows ordered by key. Two numbers compare numerically;
// anything else compares by its text, so numeric strings sort lexicographically.
// A missing value compares equal to anything.
func Sort(rows []models.Record, key string, dir Direction) []models.Record {
	out := append([]models.Record(nil), rows...)
	if key == "" {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i].Value(key), out[j].Value(key))
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

// compare never coerces: a number against a string compares as text, and nil
// is equal rather than 0. Columns in an upload are uniformly typed after
// dataset coercion, so mixed pairs only come from hand-built payloads.
func compare(a, b any) int {
	if a == nil || b == nil {
		return 0
	}
	fa, aNum := models.Number(a)
	fb, bNum := models.Number(b)
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(models.FormatValue(a), models.FormatValue(b))
}

// SortState is the column currently sorted and its direction.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Toggle flips to descending when key is already sorted ascending, otherwise
// sorts key ascending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key && s.Direction == Ascending {
		return SortState{Key: key, Direction: Descending}
	}
	return SortState{Key: key, Direction: Ascending}
}

// TotalPages is ceil(n / perPage).
func TotalPages(n, perPage int) int {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return (n + perPage - 1) / perPage
}

// Paginate returns the 1-based page of rows. Pages outside the range are empty.
func Paginate(rows []models.Record, page, perPage int) []models.Record {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		return nil
	}
	start := (page - 1) * perPage
	if start >= len(rows) {
		return nil
	}
	end := start + perPage
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// Headers lists the first row's columns except "id".
func Headers(rows []models.Record) []string {
	if len(rows) == 0 {
		return nil
	}
	var out []string
	for _, k := range rows[0].Keys() {
		if k != "id" {
			out = append(out, k)
		}
	}
	return out
}

// DisplayHeaders caps Headers to the columns that fit on screen.
func DisplayHeaders(rows []models.Record) []string {
	h := Headers(rows)
	if len(h) > maxDisplayColumns {
		h = h[:maxDisplayColumns]
	}
	return h
}
