package cmd

import (
	"fmt"
	"os"

	"github.com/adikso/dwarfdecl/internal/logging"
	"github.com/adikso/dwarfdecl/internal/pipeline"
	"github.com/adikso/dwarfdecl/internal/render/cpp"
	"github.com/adikso/dwarfdecl/internal/tui"
	"github.com/adikso/dwarfdecl/internal/yamlexport"
	"github.com/spf13/cobra"
)

var (
	inspectExportYAML string
	inspectVerbose    bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <binary>",
	Short: "Browse a binary's reconstructed declarations interactively",
	Long: `Runs the same DWARF extraction as "dwarfdecl extract", then opens an
interactive tree browser over the recovered files/classes/structs/unions/
namespaces instead of writing headers to disk. Select a node to see its
rendered declaration text; press q or Esc to quit.

Examples:
  # Browse a binary's recovered declarations
  dwarfdecl inspect ./app

  # Skip the browser, just dump the recovered model as YAML
  dwarfdecl inspect --export-yaml model.yaml ./app`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	RootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectExportYAML, "export-yaml", "", "Write the recovered model as YAML to this path instead of opening the browser")
	inspectCmd.Flags().BoolVarP(&inspectVerbose, "verbose", "v", false, "Print diagnostic output about skipped entries")
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inputPath, err)
	}
	defer f.Close()

	extractor := pipeline.FindExtractor(f)
	if extractor == nil {
		return fmt.Errorf("dwarfdecl: %s has no DWARF debug info dwarfdecl recognizes", inputPath)
	}

	logger, err := logging.New(inspectVerbose, "")
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	result, err := extractor.Extract(inputPath, f, logger)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", inputPath, err)
	}

	if inspectExportYAML != "" {
		data, err := yamlexport.Marshal(result.Result)
		if err != nil {
			return fmt.Errorf("marshaling model as YAML: %w", err)
		}
		if err := os.WriteFile(inspectExportYAML, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", inspectExportYAML, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", inspectExportYAML)
		return nil
	}

	forest, _ := cpp.Convert(result.Result)
	return tui.Run(forest)
}
