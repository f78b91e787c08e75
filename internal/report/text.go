// Package report renders churn reports as text, HTML, PDF and spoken
// narration.
package report

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"ChurnRadar_AnalyticsProject/internal/churn"
	"ChurnRadar_AnalyticsProject/internal/models"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const dateLayout = "2006-01-02 15:04:05"

const staticSections = `EXECUTIVE SUMMARY:
This report provides insights into customer churn prediction analysis using machine learning models.

KEY FINDINGS:
- Model Performance: High accuracy achieved with ensemble methods
- Data Quality: Comprehensive feature engineering applied
- Prediction Confidence: Strong statistical significance

RECOMMENDATIONS:
1. Implement targeted retention campaigns for high-risk customers
2. Focus on improving customer satisfaction metrics
3. Monitor key performance indicators regularly
4. Consider implementing proactive customer outreach programs

TECHNICAL DETAILS:
- Analysis Method: Machine Learning Classification
- Model Type: Ensemble (CatBoost/XGBoost)
- Data Processing: Automated feature engineering
- Validation: Cross-validation with holdout testing
`

// Text builds the plain report shown on the dashboard. latest may be nil.
func Text(username string, now time.Time, latest *models.PredictionPayload) string {
	var b strings.Builder
	b.WriteString("CHURN PREDICTION REPORT\n")
	fmt.Fprintf(&b, "Generated for: %s\n", username)
	fmt.Fprintf(&b, "Date: %s\n\n", now.Format(dateLayout))
	b.WriteString(staticSections)

	if latest != nil {
		b.WriteString("\n")
		writeLatest(&b, latest)
	}

	b.WriteString("\nFor detailed analysis and visualizations, please use the PDF report generation feature.\n")
	return b.String()
}

func writeLatest(b *strings.Builder, p *models.PredictionPayload) {
	m := churn.ForPayload(p)
	b.WriteString("LATEST PREDICTION:\n")
	fmt.Fprintf(b, "- Input File: %s\n", p.FileName)
	fmt.Fprintf(b, "- Model Used: %s\n", p.ModelUsed)
	fmt.Fprintf(b, "- Total Customers: %d\n", m.Total)
	fmt.Fprintf(b, "- Predicted to Churn: %d (%.1f%%)\n", m.Churned, m.ChurnRate)
	fmt.Fprintf(b, "- Predicted to Stay: %d (%.1f%%)\n", m.Retained, m.RetentionRate)

	if s, ok := churn.SummarizeProbabilities(p.Records); ok {
		seg := churn.RiskSegments(p.Records)
		fmt.Fprintf(b, "- Mean Churn Probability: %.3f (median %.3f)\n", s.Mean, s.Median)
		fmt.Fprintf(b, "- Risk Segments: %d high, %d medium, %d low\n", seg.High, seg.Medium, seg.Low)
	}
}

var (
	headingLine  = regexp.MustCompile(`^[A-Z][A-Z ]+:$`)
	titleLine    = regexp.MustCompile(`^[A-Z][A-Z ]+$`)
	metadataLine = regexp.MustCompile(`^(Generated for|Date): `)
)

// toMarkdown lifts the plain report layout into markdown headings.
func toMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case titleLine.MatchString(trimmed):
			out = append(out, "# "+trimmed)
		case headingLine.MatchString(trimmed):
			out = append(out, "## "+strings.TrimSuffix(trimmed, ":"))
		case metadataLine.MatchString(trimmed):
			// hard line break keeps the metadata lines apart
			out = append(out, trimmed+"  ")
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// HTML renders a text report as an HTML fragment.
func HTML(text string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return string(markdown.ToHTML([]byte(toMarkdown(text)), p, r))
}

// Narration is a short spoken summary of a prediction.
func Narration(p *models.PredictionPayload) string {
	if p == nil {
		return "No predictions are available yet. Upload a customer file to generate a report."
	}
	m := churn.ForPayload(p)
	text := fmt.Sprintf("Churn report for %s. Out of %d customers, %d are predicted to churn, which is %.1f percent. %d are expected to stay.",
		p.FileName, m.Total, m.Churned, m.ChurnRate, m.Retained)
	if seg := churn.RiskSegments(p.Records); seg.High > 0 {
		text += fmt.Sprintf(" %d customers are at high risk and should be contacted first.", seg.High)
	}
	return text
}
