package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/churn"
	"ChurnRadar_AnalyticsProject/internal/models"
	"ChurnRadar_AnalyticsProject/internal/table"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	modelChoice string

	tableSearch string
	tableSort   string
	tableDesc   bool
	tablePage   int
	tableNext   bool
	tablePrev   bool
	tableExport string
)

var errNoPrediction = errors.New("no prediction cached yet, run `churnctl upload <file>` first")

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a customer CSV or XLSX file for churn prediction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		ctx, cancel := requestContext(cmd)
		defer cancel()
		p, err := api.UploadCSV(ctx, filepath.Base(args[0]), f, modelChoice)
		if err != nil {
			return err
		}
		logger.Debug("upload finished", zap.String("id", p.ID), zap.Int("records", len(p.Records)))
		fmt.Fprintf(cmd.OutOrStdout(), "Scored %d customers from %s with %s\n", len(p.Records), p.FileName, p.ModelUsed)
		printMetrics(cmd.OutOrStdout(), p)
		return nil
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show churn and retention for the latest prediction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := api.State.LatestPrediction
		if p == nil {
			return errNoPrediction
		}
		printMetrics(cmd.OutOrStdout(), p)
		return nil
	},
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Browse the customers of the latest prediction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := api.State.LatestPrediction
		if p == nil {
			return errNoPrediction
		}

		view := table.NewView(p.Records)
		view.SetSearch(tableSearch)
		if tableSort != "" {
			view.Sort = table.SortState{Key: tableSort, Direction: table.Ascending}
			if tableDesc {
				view.Sort.Direction = table.Descending
			}
		}
		if pages := view.TotalPages(); tablePage > pages {
			tablePage = pages
		}
		if tablePage > 1 {
			view.Page = tablePage
		}
		switch {
		case tableNext:
			view.NextPage()
		case tablePrev:
			view.PrevPage()
		}

		if tableExport != "" {
			return exportRows(cmd.OutOrStdout(), tableExport, view.Columns(), view.Filtered())
		}

		items := view.Items()
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching customers.")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(items))
		fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d (%d matching rows)\n", view.Page, view.TotalPages(), len(view.Filtered()))
		return nil
	},
}

func printMetrics(w io.Writer, p *models.PredictionPayload) {
	m := churn.ForPayload(p)
	fmt.Fprintf(w, "Total customers: %d\n", m.Total)
	fmt.Fprintf(w, "Churned:         %d (%.1f%%)\n", m.Churned, m.ChurnRate)
	fmt.Fprintf(w, "Retained:        %d (%.1f%%)\n", m.Retained, m.RetentionRate)

	if s, ok := churn.SummarizeProbabilities(p.Records); ok {
		seg := churn.RiskSegments(p.Records)
		fmt.Fprintf(w, "Mean churn probability: %.3f (median %.3f)\n", s.Mean, s.Median)
		fmt.Fprintf(w, "Risk segments: high %d, medium %d, low %d\n", seg.High, seg.Medium, seg.Low)
	}
}

func renderTable(rows []models.Record) string {
	headers := table.DisplayHeaders(rows)
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		cells := make([]string, len(headers))
		for i, h := range headers {
			cells[i] = models.FormatValue(r.Value(h))
		}
		t.Row(cells...)
	}
	return t.String()
}

func exportRows(w io.Writer, path string, headers []string, rows []models.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		err = table.ExportXLSX(f, headers, rows)
	default:
		err = table.ExportCSV(f, headers, rows)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	fmt.Fprintf(w, "Exported %d rows to %s\n", len(rows), path)
	return nil
}
