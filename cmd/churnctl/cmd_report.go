package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var pdfOut string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the text report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		text, err := api.Report(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Download the PDF report for the latest prediction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(pdfOut)
		if err != nil {
			return err
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()
		if err := api.ReportPDF(ctx, f); err != nil {
			f.Close()
			os.Remove(pdfOut)
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", pdfOut)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat [message...]",
	Short: "Ask the churn assistant a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := requestContext(cmd)
		defer cancel()
		answer, err := api.Chat(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}
