// Package main provides the CLI entry point for exbuild-go.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ukaji3/exbuild-go/pkg/exbuild"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/models"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/output"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/reader"
	"github.com/ukaji3/exbuild-go/pkg/exbuild/template"
)

var (
	outputPath    string
	outputDir     string
	pretty        bool
	compression   int
	author        string
	validate      bool
	format        string
	headers       bool
	headerRow     int
	sheets        []string
	detectTables  bool
	sheetsDir     string
	printAreasDir string
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "exbuild",
		Short: "Build Excel workbooks from templates and read them back as JSON",
		Long: `exbuild-go builds styled xlsx workbooks from YAML templates
and projects existing workbooks into nested, detailed or flat JSON.`,
		SilenceUsage: true,
	}

	buildCmd := &cobra.Command{
		Use:   "build [template.yaml]",
		Short: "Build a workbook from a YAML template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), cfg, cmd.OutOrStdout(), args[0])
		},
	}
	buildCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file name (default: template name with .xlsx)")
	buildCmd.Flags().StringVar(&outputDir, "dir", "", "Directory for the output file")
	buildCmd.Flags().IntVar(&compression, "compression", cfg.Compression, "Deflate level 0-9")
	buildCmd.Flags().StringVar(&author, "author", cfg.Author, "Author written when the template sets none")
	buildCmd.Flags().BoolVar(&validate, "validate", true, "Validate worksheets before building")

	readCmd := &cobra.Command{
		Use:   "read [input.xlsx]",
		Short: "Read a workbook and print JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd.Context(), cfg, cmd.OutOrStdout(), args[0])
		},
	}
	readCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	readCmd.Flags().BoolVar(&pretty, "pretty", cfg.Pretty, "Pretty-print JSON output")
	readCmd.Flags().StringVar(&format, "format", string(reader.FormatNested), "Output shape: nested, detailed, flat")
	readCmd.Flags().BoolVar(&headers, "headers", false, "Key row data by the header row")
	readCmd.Flags().IntVar(&headerRow, "header-row", 1, "1-based header row used with --headers")
	readCmd.Flags().StringSliceVar(&sheets, "sheets", nil, "Sheets to read (default: all)")
	readCmd.Flags().BoolVar(&detectTables, "detect-tables", false, "Report table candidates (nested format)")
	readCmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet output files (nested format)")
	readCmd.Flags().StringVar(&printAreasDir, "print-areas-dir", "", "Directory for per-print-area output files (nested format)")

	rootCmd.AddCommand(buildCmd, readCmd)
	return rootCmd
}

func runBuild(ctx context.Context, cfg *config, stdout io.Writer, templatePath string) error {
	tpl, err := template.Load(templatePath)
	if err != nil {
		return fmt.Errorf("loading template failed: %w", err)
	}
	if tpl.Metadata.Author == "" {
		tpl.Metadata.Author = author
	}

	log := cfg.logger()
	wb, err := tpl.Workbook(
		exbuild.WithLogger(log),
		exbuild.WithValidation(validate),
		exbuild.WithSaver(exbuild.FileSaver{Dir: outputDir}),
	)
	if err != nil {
		return fmt.Errorf("staging workbook failed: %w", err)
	}

	name := outputPath
	if name == "" {
		base := filepath.Base(templatePath)
		name = strings.TrimSuffix(base, filepath.Ext(base)) + ".xlsx"
	}
	location, err := wb.GenerateAndDownload(ctx, name, exbuild.Compression(compression)).Unwrap()
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	stats := wb.Stats()
	log.WithFields(logrus.Fields{
		"worksheets": stats.Worksheets,
		"cells":      stats.Cells,
		"bytes":      stats.Bytes,
		"duration":   stats.Duration,
	}).Info("workbook written")
	fmt.Fprintln(stdout, location)
	return nil
}

func runRead(ctx context.Context, cfg *config, stdout io.Writer, inputPath string) error {
	// Validate input file exists
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	opts := reader.Options{
		Format:               reader.Format(format),
		UseFirstRowAsHeaders: headers,
		HeaderRow:            headerRow,
		Sheets:               sheets,
		DetectTables:         detectTables,
		Logger:               cfg.logger(),
	}

	var (
		jsonData []byte
		wb       *models.WorkbookData
		err      error
	)
	if opts.Format == reader.FormatNested {
		wb, err = reader.ReadWorkbook(ctx, inputPath, opts)
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		jsonData, err = output.WorkbookToJSON(wb, pretty)
	} else {
		var data any
		data, err = reader.ReadFile(ctx, inputPath, opts).Unwrap()
		if err != nil {
			return fmt.Errorf("extraction failed: %w", err)
		}
		jsonData, err = output.ToJSON(data, pretty)
	}
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}

	// Write output
	if outputPath != "" {
		if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if sheetsDir == "" && printAreasDir == "" {
		fmt.Fprintln(stdout, string(jsonData))
	}

	if wb == nil {
		return nil
	}

	// Write per-sheet files
	if sheetsDir != "" {
		if err := writeSheetFiles(wb, sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
	}

	// Write per-print-area files
	if printAreasDir != "" {
		if err := writePrintAreaFiles(wb, printAreasDir); err != nil {
			return fmt.Errorf("failed to write print area files: %w", err)
		}
	}

	return nil
}

func writeSheetFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for i := range wb.Sheets {
		sheet := &wb.Sheets[i]
		jsonData, err := output.SheetToJSON(sheet, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, sheet.Name+".json")
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}

func writePrintAreaFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, view := range reader.PrintAreaViews(wb) {
		counts[view.SheetName]++
		jsonData, err := output.PrintAreaViewToJSON(&view, pretty)
		if err != nil {
			return err
		}

		filename := filepath.Join(dir, fmt.Sprintf("%s_area%d.json", view.SheetName, counts[view.SheetName]))
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}

	return nil
}
