package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ChurnRadar_AnalyticsProject/internal/client"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose   bool
	serverURL string
	statePath string
	timeout   time.Duration

	logger *zap.Logger
	api    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "churnctl",
	Short: "ChurnRadar command-line dashboard",
	Long: `churnctl uploads customer files to a ChurnRadar server and shows the
resulting churn metrics, customer table, reports and assistant answers.

The token and the latest prediction are kept in a local state file so that
later commands work on the most recent upload.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		zap.ReplaceGlobals(logger)

		api = client.New(serverURL, client.LoadState(statePath))
		logger.Debug("churnctl started", zap.String("server", api.BaseURL), zap.String("state", statePath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	defaultServer := os.Getenv("CHURNRADAR_URL")
	if defaultServer == "" {
		defaultServer = client.DefaultBaseURL
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "ChurnRadar server URL (or set CHURNRADAR_URL)")
	rootCmd.PersistentFlags().StringVar(&statePath, "state", client.DefaultStatePath(), "Local state file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")

	uploadCmd.Flags().StringVar(&modelChoice, "model", "", "Model family: General, Life_Insurance or Automobile_Insurance")
	tableCmd.Flags().StringVar(&tableSearch, "search", "", "Keep rows containing this text")
	tableCmd.Flags().StringVar(&tableSort, "sort", "", "Sort by this column")
	tableCmd.Flags().BoolVar(&tableDesc, "desc", false, "Sort descending")
	tableCmd.Flags().IntVar(&tablePage, "page", 1, "Page to show")
	tableCmd.Flags().BoolVar(&tableNext, "next", false, "Show the page after --page")
	tableCmd.Flags().BoolVar(&tablePrev, "prev", false, "Show the page before --page (ignored with --next)")
	tableCmd.Flags().StringVar(&tableExport, "export", "", "Write the filtered rows to a .csv or .xlsx file")
	pdfCmd.Flags().StringVarP(&pdfOut, "output", "o", "prediction_report.pdf", "Where to write the PDF")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(pdfCmd)
	rootCmd.AddCommand(chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// requestContext bounds one API call by --timeout.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
