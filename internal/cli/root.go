package cli

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlokans/clippings/internal/config"
	"github.com/mrlokans/clippings/internal/entities"
	"github.com/mrlokans/clippings/internal/exporters"
	"github.com/mrlokans/clippings/internal/importers"
	"github.com/mrlokans/clippings/internal/kindle"
)

const usageLine = "Usage: clippings <My Clippings file> {org|json} [Document titles]"

// RootCommand holds the flag values of the clippings command.
type RootCommand struct {
	ConfigPath  string
	ArchivePath string
	DateLayouts []string
	Summary     bool
	Verbose     bool
}

// NewRootCommand builds the command:
//
//	clippings <file>                      list document titles
//	clippings <file> <json|org> <titles>  export clippings of the titles
//
// titles is a newline-separated list.
func NewRootCommand(version string) *cobra.Command {
	rc := &RootCommand{}

	cmd := &cobra.Command{
		Use:   "clippings <My Clippings file> [org|json] [document titles]",
		Short: "Extract highlights and notes from a Kindle 'My Clippings.txt' file",
		Long: `clippings reads a Kindle "My Clippings.txt" export, drops duplicate
clippings left behind by device re-syncs and prints them grouped by document.

With only a file argument it lists the document titles found in the file.
With a format (org or json) and a newline-separated list of titles it prints
the highlights and notes of those documents.`,
		Version:       version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				fmt.Fprintln(cmd.OutOrStdout(), usageLine)
				return nil
			}
			cfg, err := rc.loadConfig(cmd)
			if err != nil {
				return err
			}
			return rc.Run(cmd, cfg, args)
		},
	}

	flags := cmd.Flags()
	// Titles may start with "-"; everything after the file path is positional
	flags.SetInterspersed(false)
	flags.StringVar(&rc.ConfigPath, "config", "", "Path to a config file (yaml, toml or json)")
	flags.StringVar(&rc.ArchivePath, "archive", "", "SQLite database to archive exported clippings into")
	flags.StringSliceVar(&rc.DateLayouts, "date-layout", nil, "Additional Go time layout for clipping timestamps (repeatable)")
	flags.BoolVar(&rc.Summary, "summary", false, "Print a per-document summary table to stderr")
	flags.BoolVar(&rc.Verbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// loadConfig reads the config file and environment, then applies flags that
// were set explicitly.
func (rc *RootCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(rc.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("archive") {
		cfg.Archive.Path = rc.ArchivePath
	}
	if flags.Changed("date-layout") {
		cfg.Parser.DateLayouts = append(cfg.Parser.DateLayouts, rc.DateLayouts...)
	}
	if flags.Changed("summary") {
		cfg.Output.Summary = rc.Summary
	}
	if flags.Changed("verbose") {
		cfg.Global.Verbose = rc.Verbose
	}
	return cfg, nil
}

// Run executes one pass over the clippings file named by args[0].
func (rc *RootCommand) Run(cmd *cobra.Command, cfg *config.Config, args []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	log.SetOutput(stderr)

	clippingsPath := args[0]
	file, err := os.Open(clippingsPath)
	if err != nil {
		return fmt.Errorf("error opening clippings file: '%s'", clippingsPath)
	}
	defer file.Close()

	parser := kindle.NewParserWithDateLayouts(file, cfg.Parser.DateLayouts)
	collector := importers.NewCollector(log.New(stderr, "", 0))

	var summary *Summary
	if cfg.Output.Summary {
		summary = NewSummary()
		collector.OnClipping = summary.Observe
	}

	if len(args) == 1 {
		titles, result, err := collector.CollectTitles(parser)
		if err != nil {
			return fmt.Errorf("failed to read clippings: %w", err)
		}
		logResult(cfg, result)
		for _, title := range titles {
			fmt.Fprintln(stdout, title)
		}
		summary.Print(stderr, result)
		return nil
	}

	format := exporters.ParseFormat(args[1])
	set, result, err := collector.CollectClippings(parser, splitTitles(args[2]))
	if err != nil {
		return fmt.Errorf("failed to read clippings: %w", err)
	}
	logResult(cfg, result)

	retained := set.Clippings()
	documents := exporters.Group(retained)
	exportResult, err := exporters.NewExporter(format).Export(stdout, documents)
	if err != nil {
		return err
	}
	if cfg.Global.Verbose {
		log.Printf("Exported %d clippings from %d documents as %s",
			exportResult.ClippingsProcessed, exportResult.DocumentsProcessed, format)
	}

	if cfg.Archive.Path != "" {
		if err := archiveClippings(cmd.Context(), cfg, clippingsPath, exportedOnly(retained), result); err != nil {
			return err
		}
	}

	summary.Print(stderr, result)
	return nil
}

// splitTitles splits a newline-separated title list. A trailing newline does
// not add an empty title.
func splitTitles(s string) []string {
	s = strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func exportedOnly(clippings []entities.Clipping) []entities.Clipping {
	exported := make([]entities.Clipping, 0, len(clippings))
	for _, c := range clippings {
		if c.Exported() {
			exported = append(exported, c)
		}
	}
	return exported
}

func logResult(cfg *config.Config, result importers.ImportResult) {
	if !cfg.Global.Verbose {
		return
	}
	log.Printf("Parsed %d records: %d duplicates, %d for other documents, %d parse errors",
		result.RecordsParsed, result.Duplicates, result.Skipped, result.ParseErrors)
}

// Execute runs the root command against the process arguments.
func Execute(version string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand(version)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}
