package main

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ukaji3/netnet-go/pkg/netnet"
	"github.com/ukaji3/netnet-go/pkg/netnet/formula"
	"github.com/ukaji3/netnet-go/pkg/netnet/output"
	"github.com/ukaji3/netnet-go/pkg/netnet/updater"
)

var errInvalidExport = errors.New("export validation failed")

func newMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map [workbook.xlsx]",
		Short: "Extract the structure baseline of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			s, err := netnet.MapStructure(path, cfg.Layout())
			if err != nil {
				return err
			}

			dst := outputPath
			if dst == "" {
				stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				dst = stem + "_structure.json"
			}
			if err := netnet.SaveStructure(dst, s); err != nil {
				return err
			}
			logger.Info("structure saved", slog.String("path", dst))

			output.WriteStructureSummary(cmd.OutOrStdout(), s)
			if printJSON {
				data, err := output.ToJSON(s, true)
				if err != nil {
					return fmt.Errorf("serialization failed: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: <workbook>_structure.json)")
	cmd.Flags().BoolVar(&printJSON, "print", false, "Also print the structure JSON")
	return cmd
}

func newValidateCmd() *cobra.Command {
	var structurePath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate exports against a structure baseline",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireExport(); err != nil {
				return err
			}
			s, err := netnet.LoadStructure(structurePath)
			if err != nil {
				return err
			}
			report, err := netnet.Validate(s, isFile, bsFile, cfg.Layout())
			if err != nil {
				return err
			}
			for _, r := range report.Results {
				output.WriteValidation(cmd.OutOrStdout(), r)
			}
			if err := writeReport(cmd, report, "Validation results"); err != nil {
				return err
			}
			if !report.Valid() {
				return errInvalidExport
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&structurePath, "structure", "s", "", "Path to the structure baseline JSON")
	_ = cmd.MarkFlagRequired("structure")
	addExportFlags(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output validation results to JSON file")
	return cmd
}

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show what applying exports would change",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireExport(); err != nil {
				return err
			}
			report, err := netnet.Diff(workbookPath, isFile, bsFile, cfg.Layout())
			if err != nil {
				return err
			}
			output.WriteDiff(cmd.OutOrStdout(), report, verbose)
			return writeReport(cmd, report, "Diff report")
		},
	}
	cmd.Flags().StringVarP(&workbookPath, "workbook", "w", "", "Path to workbook")
	_ = cmd.MarkFlagRequired("workbook")
	addExportFlags(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output diff report to JSON file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show value changes")
	return cmd
}

func newUpdateCmd() *cobra.Command {
	var (
		opts           updater.Options
		replaceAll     bool
		skipDependents bool
	)
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Safely update a workbook with new export data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireExport(); err != nil {
				return err
			}
			opts.Workbook, opts.IncomeExport, opts.BalanceExport = workbookPath, isFile, bsFile
			opts.Mode = updater.ModeMerge
			if replaceAll {
				opts.Mode = updater.ModeReplace
			}
			if skipDependents {
				off := false
				opts.SyncDependents = &off
			}

			var engineOpts []updater.Option
			if cfg.BackupDir != "" {
				engineOpts = append(engineOpts, updater.WithBackupDir(cfg.BackupDir))
			}
			result, runErr := netnet.Update(cmd.Context(), opts, cfg.Layout(), logger, engineOpts...)

			output.WriteUpdate(cmd.OutOrStdout(), result, opts.ExtendPeriods, verbose)
			if err := writeReport(cmd, result, "Report"); err != nil {
				return err
			}
			return runErr
		},
	}
	cmd.Flags().StringVarP(&workbookPath, "workbook", "w", "", "Path to workbook to update")
	_ = cmd.MarkFlagRequired("workbook")
	addExportFlags(cmd)
	cmd.Flags().StringVar(&opts.Company, "company", "", "Company name; renames the data sheets when their prefix differs")
	cmd.Flags().BoolVar(&opts.ExtendPeriods, "extend-periods", false, "Add new period columns if found in export")
	cmd.Flags().BoolVar(&replaceAll, "replace-all", false, "Replace all data (use when switching from annual to quarterly)")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Show what would be changed without making changes")
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Force update even if validation fails")
	cmd.Flags().BoolVar(&skipDependents, "skip-dependents", false, "Leave the calculation sheets untouched")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output update report to JSON file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show detailed changes")
	return cmd
}

func newEvalCmd() *cobra.Command {
	var (
		sheet    string
		cell     string
		row      int
		startCol int
	)
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Evaluate a cell or a row series of a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if cell != "" {
				v, ok, err := netnet.Evaluate(workbookPath, sheet, cell)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(out, "%s: cannot evaluate\n", cell)
					return nil
				}
				fmt.Fprintf(out, "%s: %g\n", cell, v)
				return nil
			}
			if sheet == "" || row == 0 {
				return errors.New("either --cell or --sheet with --row is required")
			}

			series, err := netnet.Series(workbookPath, sheet, row, startCol)
			if err != nil {
				return err
			}
			for _, p := range series {
				fmt.Fprintf(out, "%s%d: %g\n", formula.ColumnLetter(p.Col), row, p.Value)
			}
			if latest, ok := formula.LatestValue(series); ok {
				fmt.Fprintf(out, "Latest: %g\n", latest)
			}
			fmt.Fprintf(out, "Frequency: %s\n", formula.DetectFrequency(series))
			if cur, prior, ok := formula.YearOverYear(series); ok {
				fmt.Fprintf(out, "Year over year: %g -> %g\n", prior, cur)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&workbookPath, "workbook", "w", "", "Path to workbook")
	_ = cmd.MarkFlagRequired("workbook")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name")
	cmd.Flags().StringVar(&cell, "cell", "", "Cell to evaluate, e.g. D12 or ncav!D20")
	cmd.Flags().IntVar(&row, "row", 0, "Row of the series")
	cmd.Flags().IntVar(&startCol, "start-col", 4, "First column of the series")
	return cmd
}
