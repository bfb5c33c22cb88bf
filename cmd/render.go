package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fbz-tec/pgxunload/core/output"
	"github.com/fbz-tec/pgxunload/core/printers"
	"github.com/fbz-tec/pgxunload/internal/logger"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	unload            unloadFlags
	printFormat       string
	outputPath        string
	outputCompression string
}

func newRenderCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Build an UNLOAD statement and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, &f)
		},
	}
	cmd.Flags().SortFlags = false

	f.unload.register(cmd)
	cmd.Flags().StringVarP(&f.printFormat, "print", "p", printers.FormatSQL,
		fmt.Sprintf("Print format (%s)", strings.Join(printers.List(), ", ")))
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().StringVar(&f.outputCompression, "output-compression", output.None,
		fmt.Sprintf("Compression for --output (%s)", strings.Join(output.Compressions(), ", ")))

	return cmd
}

func runRender(cmd *cobra.Command, f *renderFlags) error {
	printer, err := printers.Get(f.printFormat)
	if err != nil {
		return err
	}
	if f.outputPath == "" && cmd.Flags().Changed("output-compression") {
		return fmt.Errorf("--output-compression requires --output")
	}

	st, err := f.unload.statement(cmd)
	if err != nil {
		return err
	}

	if f.outputPath == "" {
		return printer.Print(cmd.OutOrStdout(), st)
	}

	cfg := output.OutputConfig{Path: f.outputPath, Compression: f.outputCompression}
	if path, err := output.ResolvePath(cfg); err == nil {
		if _, err := os.Stat(path); err == nil {
			logger.Warn("Overwriting existing file %s", path)
		}
	}

	w, err := output.CreateWriter(cfg)
	if err != nil {
		return err
	}
	if err := printer.Print(w, st); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", w.Path(), err)
	}

	logger.Success("Statement written to %s", w.Path())
	return nil
}
