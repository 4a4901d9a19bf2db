// Package main provides the CLI entry point for netnet.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ukaji3/netnet-go/internal/app"
	"github.com/ukaji3/netnet-go/pkg/netnet/output"
)

var (
	cfg    *app.Config
	logger *slog.Logger

	workbookPath string
	isFile       string
	bsFile       string
	outputPath   string
	verbose      bool
	printJSON    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "netnet",
		Short: "Map, validate and update net-net analysis workbooks",
		Long: `netnet keeps net-net analysis workbooks in step with financial statement
exports: it maps the raw data sheets, validates and diffs exports against them,
and updates the workbook together with its calculation sheets.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = app.LoadConfig(); err != nil {
				return err
			}
			logger = app.NewLogger(cfg, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.AddCommand(
		newMapCmd(),
		newValidateCmd(),
		newDiffCmd(),
		newUpdateCmd(),
		newEvalCmd(),
	)
	return rootCmd
}

func addExportFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&isFile, "is-file", "", "Path to Income Statement export")
	cmd.Flags().StringVar(&bsFile, "bs-file", "", "Path to Balance Sheet export")
}

func requireExport() error {
	if isFile == "" && bsFile == "" {
		return errors.New("At least one of --is-file or --bs-file is required")
	}
	return nil
}

// writeReport writes v as JSON to --output when it is set.
func writeReport(cmd *cobra.Command, v any, what string) error {
	if outputPath == "" {
		return nil
	}
	if err := output.WriteJSON(outputPath, v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s saved to: %s\n", what, outputPath)
	return nil
}
