package cmd

import (
	"fmt"
	"os"

	"github.com/adikso/dwarfdecl/internal/config"
	"github.com/adikso/dwarfdecl/internal/logging"
	"github.com/adikso/dwarfdecl/internal/model"
	"github.com/adikso/dwarfdecl/internal/pipeline"
	"github.com/adikso/dwarfdecl/internal/render/cpp"
	"github.com/adikso/dwarfdecl/internal/render/pointers"
	"github.com/adikso/dwarfdecl/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	extractFormat     string
	extractOutput     string
	extractIncludes   bool
	extractVerbose    bool
	extractLogFile    string
	extractPreview    string
	colorExtractOK    = color.New(color.FgGreen, color.Bold)
	colorExtractWarn  = color.New(color.FgYellow)
	colorExtractTitle = color.New(color.FgWhite, color.Bold, color.Underline)
)

var extractCmd = &cobra.Command{
	Use:   "extract <binary>",
	Short: "Reconstruct declarations from a binary's DWARF info and write headers",
	Long: `Extracts the DWARF debug info embedded in an ELF binary, reconstructs its
class/struct/union/namespace declarations, and writes one rendered C++ header
per originating source file under --output.

Output formats:
  cpp           - Plain reconstructed declarations (default)
  pointers_cpp  - Same declarations plus inline trampolines that dispatch
                  into the original binary at its recovered addresses

Examples:
  # Reconstruct headers from a stripped-of-source binary
  dwarfdecl extract ./app

  # Write trampoline headers usable against a loaded copy of the binary
  dwarfdecl extract --format pointers_cpp -o headers ./app

  # Keep a machine-readable log of what was skipped and why
  dwarfdecl extract -v --log-file extract.jsonl ./app

  # Eyeball one rendered header before trusting the whole batch
  dwarfdecl extract --preview widget.h ./app`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	RootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "", "Output format: cpp, pointers_cpp (default from config, else cpp)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output directory (default from config, else ./output)")
	extractCmd.Flags().BoolVar(&extractIncludes, "includes", true, "Infer and emit #include directives")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print diagnostic output about skipped entries")
	extractCmd.Flags().StringVar(&extractLogFile, "log-file", "", "Also write a JSON diagnostics log to this path")
	extractCmd.Flags().StringVar(&extractPreview, "preview", "", "Print the rendered file at this relative path to the terminal, syntax-highlighted, instead of the summary")
}

func runExtract(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	logger, err := logging.New(extractVerbose, extractLogFile)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	format := extractFormat
	if format == "" {
		format = config.Format()
	}
	output := extractOutput
	if output == "" {
		output = config.OutputDir()
	}
	includesOn := extractIncludes
	if !cmd.Flags().Changed("includes") {
		includesOn = config.Includes()
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	extractor := pipeline.FindExtractor(f)
	if extractor == nil {
		return fmt.Errorf("dwarfdecl: %s has no DWARF debug info dwarfdecl recognizes", inputPath)
	}

	result, err := extractor.Extract(inputPath, f, logger)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", inputPath, err)
	}

	renderer := pipeline.FindRenderer(format)
	if renderer == nil {
		return fmt.Errorf("dwarfdecl: unknown format %q", format)
	}

	opts := cpp.Options{IncludeInference: includesOn}
	rendered, err := renderer.Render(result, opts)
	if err != nil {
		return fmt.Errorf("rendering %q output: %w", format, err)
	}

	if format == "pointers_cpp" {
		for path, text := range rendered {
			rendered[path] = pointers.Extern() + "\n" + text
		}
	}

	written, err := cpp.WriteFiles(output, rendered)
	if err != nil {
		return fmt.Errorf("writing output under %s: %w", output, err)
	}

	if extractPreview != "" {
		text, ok := rendered[extractPreview]
		if !ok {
			return fmt.Errorf("dwarfdecl: %q was not among the %d file(s) rendered", extractPreview, len(rendered))
		}
		fmt.Fprintln(cmd.OutOrStdout(), utils.HighlightCCode(text))
		return nil
	}

	classes, structs, unions, namespaces := summarize(result.Elements)

	logger.Info("extraction complete",
		"input", inputPath,
		"format", format,
		"output", output,
		"files", len(rendered),
		"bytes", written,
		"classes", classes,
		"structs", structs,
		"unions", unions,
		"namespaces", namespaces,
	)

	colorExtractTitle.Fprintln(cmd.OutOrStdout(), "dwarfdecl extract")
	colorExtractOK.Fprintf(cmd.OutOrStdout(), "  %d class(es), %d struct(s), %d union(s), %d namespace(s)\n", classes, structs, unions, namespaces)
	colorExtractOK.Fprintf(cmd.OutOrStdout(), "  %d file(s) written to %s (%d bytes)\n", len(rendered), output, written)
	if len(rendered) == 0 {
		colorExtractWarn.Fprintln(cmd.OutOrStdout(), "  no in-project declarations recovered; is base_dir correct?")
	}

	return nil
}

// summarize counts the top-level classes, structs, unions and namespaces in
// elements; declarations nested inside a namespace are not counted.
func summarize(elements []model.Declaration) (classes, structs, unions, namespaces int) {
	for _, e := range elements {
		switch e.(type) {
		case *model.Class:
			classes++
		case *model.Struct:
			structs++
		case *model.Union:
			unions++
		case *model.Namespace:
			namespaces++
		}
	}
	return
}
