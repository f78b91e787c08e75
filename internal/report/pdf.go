package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"ChurnRadar_AnalyticsProject/internal/churn"
	"ChurnRadar_AnalyticsProject/internal/models"
	"ChurnRadar_AnalyticsProject/internal/predictor"

	"github.com/go-pdf/fpdf"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	histogramBins = 20
	sampleRows    = 10
	fontFamily    = "Arial"
)

// ErrNoRecords is returned when a PDF is requested for an empty payload.
var ErrNoRecords = errors.New("prediction has no records")

// MissingColumnError reports a prediction column absent from every record.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("prediction column %q not found in records", e.Column)
}

var palette = [][3]int{
	{31, 119, 180}, {255, 127, 14}, {44, 160, 44}, {214, 39, 40},
	{148, 103, 189}, {140, 86, 75}, {227, 119, 194}, {127, 127, 127},
}

type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// PDF writes the prediction report for p to w. The label distribution is
// recomputed from the records rather than trusted from the payload.
func PDF(w io.Writer, p *models.PredictionPayload, now time.Time) error {
	if p == nil || len(p.Records) == 0 {
		return ErrNoRecords
	}
	column := p.PredictionColumn
	if column == "" {
		column = predictor.TargetColumn
	}
	if !hasColumn(p.Records, column) {
		return &MissingColumnError{Column: column}
	}
	dist := predictor.ClassDistribution(p.Records, column)

	pdf := fpdf.New("P", "mm", "A4", "")
	r := &pdfReport{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	generated := now.Format(dateLayout)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fontFamily, "B", 12)
		pdf.CellFormat(0, 10, "Prediction Report", "", 1, "C", false, 0, "")
		pdf.SetFont(fontFamily, "", 8)
		pdf.CellFormat(0, 10, "Generated on: "+generated, "", 1, "C", false, 0, "")
		pdf.Ln(10)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	r.summary(p, dist)
	r.pieChart(dist)
	if probs := churn.Probabilities(p.Records); len(probs) > 0 {
		r.histogram(probs)
	}
	r.sampleTable(p.Headers(), p.Records)

	return pdf.Output(w)
}

func hasColumn(records []models.Record, column string) bool {
	for _, rec := range records {
		if _, ok := rec.Get(column); ok {
			return true
		}
	}
	return false
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func (r *pdfReport) line(text string) {
	r.pdf.CellFormat(0, 10, r.tr(text), "", 1, "L", false, 0, "")
}

func (r *pdfReport) title(text string) {
	r.pdf.SetFont(fontFamily, "B", 10)
	r.line(text)
}

func (r *pdfReport) summary(p *models.PredictionPayload, dist models.Distribution) {
	total := len(p.Records)
	r.title("Prediction Summary")

	r.pdf.SetFont(fontFamily, "", 10)
	r.line("Model Used: " + orNA(p.ModelUsed))
	r.line("Input File: " + orNA(p.FileName))
	r.line(fmt.Sprintf("Total Records: %d", total))

	r.title("Prediction Distribution:")
	r.pdf.SetFont(fontFamily, "", 10)

	var narrative strings.Builder
	for _, label := range dist.Labels() {
		count := dist[label]
		r.line(fmt.Sprintf("  - %s: %d", label, count))
		pct := float64(count) / float64(total) * 100
		fmt.Fprintf(&narrative, "%.1f%% of records are predicted as '%s'. ", pct, label)
	}

	r.pdf.Ln(5)
	r.pdf.SetFont(fontFamily, "I", 10)
	r.pdf.MultiCell(0, 5, r.tr(fmt.Sprintf(
		"Based on the analysis of %d records, %sThis distribution is visualized in the chart below. "+
			"Further analysis of customer attributes can help identify the key drivers of churn.",
		total, narrative.String())), "", "L", false)
	r.pdf.Ln(10)
}

// ensureSpace starts a new page when fewer than h mm remain.
func (r *pdfReport) ensureSpace(h float64) {
	_, pageH := r.pdf.GetPageSize()
	_, _, _, bottom := r.pdf.GetMargins()
	if r.pdf.GetY()+h > pageH-bottom {
		r.pdf.AddPage()
	}
}

const (
	pieRadius   = 35.0
	pieSegments = 90
)

func (r *pdfReport) pieChart(dist models.Distribution) {
	r.ensureSpace(2*pieRadius + 20)
	r.title("Prediction Distribution Chart")

	left, _, _, _ := r.pdf.GetMargins()
	cx := left + pieRadius + 5
	cy := r.pdf.GetY() + pieRadius + 2
	total := float64(dist.Total())

	start := -math.Pi / 2
	for i, label := range dist.Labels() {
		sweep := float64(dist[label]) / total * 2 * math.Pi
		c := palette[i%len(palette)]
		r.pdf.SetFillColor(c[0], c[1], c[2])
		r.pdf.Polygon(slice(cx, cy, pieRadius, start, sweep), "F")

		// legend
		ly := cy - pieRadius + float64(i)*7
		r.pdf.Rect(cx+pieRadius+15, ly, 4, 4, "F")
		r.pdf.SetFont(fontFamily, "", 9)
		r.pdf.Text(cx+pieRadius+21, ly+3.5, r.tr(fmt.Sprintf("%s (%.1f%%)", label, float64(dist[label])/total*100)))
		start += sweep
	}
	r.pdf.SetY(cy + pieRadius + 10)
}

// slice approximates a pie wedge as a polygon starting at the centre.
func slice(cx, cy, radius, start, sweep float64) []fpdf.PointType {
	steps := int(math.Ceil(sweep / (2 * math.Pi) * pieSegments))
	if steps < 1 {
		steps = 1
	}
	points := make([]fpdf.PointType, 0, steps+2)
	points = append(points, fpdf.PointType{X: cx, Y: cy})
	for i := 0; i <= steps; i++ {
		a := start + sweep*float64(i)/float64(steps)
		points = append(points, fpdf.PointType{X: cx + radius*math.Cos(a), Y: cy + radius*math.Sin(a)})
	}
	return points
}

// HistogramBins splits values into n equal-width bins over their range and
// returns the n+1 dividers and the n counts. values must not be empty.
func HistogramBins(values []float64, n int) ([]float64, []float64) {
	x := append([]float64(nil), values...)
	sort.Float64s(x)
	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	// the top divider is exclusive in stat.Histogram
	dividers[n] = math.Nextafter(hi, math.Inf(1))
	counts := stat.Histogram(nil, dividers, x, nil)
	return dividers, counts
}

const (
	histWidth  = 150.0
	histHeight = 60.0
)

func (r *pdfReport) histogram(probs []float64) {
	r.ensureSpace(histHeight + 30)
	r.title("Churn Probability Distribution")

	dividers, counts := HistogramBins(probs, histogramBins)
	maxCount := floats.Max(counts)

	left, _, _, _ := r.pdf.GetMargins()
	x0 := left + 10
	y0 := r.pdf.GetY() + histHeight
	barW := histWidth / float64(len(counts))

	r.pdf.SetDrawColor(0, 0, 0)
	r.pdf.SetFillColor(palette[0][0], palette[0][1], palette[0][2])
	for i, c := range counts {
		if c == 0 {
			continue
		}
		h := c / maxCount * histHeight
		r.pdf.Rect(x0+float64(i)*barW, y0-h, barW, h, "FD")
	}
	r.pdf.Line(x0, y0, x0+histWidth, y0)
	r.pdf.Line(x0, y0, x0, y0-histHeight)

	r.pdf.SetFont(fontFamily, "", 7)
	r.pdf.Text(x0, y0+4, fmt.Sprintf("%.2f", dividers[0]))
	r.pdf.Text(x0+histWidth-6, y0+4, fmt.Sprintf("%.2f", dividers[len(dividers)-1]))
	r.pdf.Text(x0+histWidth/2-6, y0+8, "Probability")
	r.pdf.Text(x0-8, y0-histHeight, fmt.Sprintf("%.0f", maxCount))
	r.pdf.SetY(y0 + 14)
}

func (r *pdfReport) sampleTable(headers []string, records []models.Record) {
	if len(headers) == 0 {
		return
	}
	rows := records
	if len(rows) > sampleRows {
		rows = rows[:sampleRows]
	}
	r.ensureSpace(float64(len(rows)+2) * 10)
	r.title(fmt.Sprintf("Sample of Prediction Data (first %d rows)", sampleRows))

	pageW, _ := r.pdf.GetPageSize()
	colW := pageW / float64(len(headers)+1)

	r.pdf.SetFont(fontFamily, "", 8)
	r.pdf.SetFillColor(200, 220, 255)
	for _, h := range headers {
		r.pdf.CellFormat(colW, 10, r.fit(h, colW), "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)

	for _, rec := range rows {
		for _, h := range headers {
			r.pdf.CellFormat(colW, 10, r.fit(models.FormatValue(rec.Value(h)), colW), "1", 0, "C", false, 0, "")
		}
		r.pdf.Ln(-1)
	}
}

// fit truncates s so it renders within width mm.
func (r *pdfReport) fit(s string, width float64) string {
	s = r.tr(s)
	limit := width - 2
	if r.pdf.GetStringWidth(s) <= limit {
		return s
	}
	for len(s) > 0 && r.pdf.GetStringWidth(s+"..") > limit {
		s = s[:len(s)-1]
	}
	return s + ".."
}
