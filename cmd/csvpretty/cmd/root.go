package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oleg578/csvpretty"
	"github.com/oleg578/csvpretty/internal/logging"
)

type rootOptions struct {
	cfgFile   string
	separator string
	border    int
	lineStyle string
	header    string
	eastAsian bool
	maxFields int
	output    string
	format    string
	logLevel  string
	logFormat string
}

// Execute runs the csvpretty command line.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "csvpretty [file]",
		Short: "Render CSV-like input as an aligned text table",
		Long: `csvpretty reads comma, semicolon, pipe or tab separated data from a file
or stdin and prints it as an aligned, bordered table.

The separator is detected from the first ',', ';' or '|' outside quotes unless
--separator is given. Quoted fields may contain separators and newlines.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, opts, args)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			}
			return err
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	flags.StringVarP(&opts.separator, "separator", "s", "auto", "field separator: auto, ',', ';', '|' or tab")
	flags.IntVarP(&opts.border, "border", "b", 2, "border style: 0 none, 1 outer edge, 2 full box")
	flags.StringVar(&opts.lineStyle, "linestyle", "auto", "border glyphs: auto, ascii or unicode")
	flags.StringVar(&opts.header, "header", "auto", "header row: auto, always or never")
	flags.BoolVar(&opts.eastAsian, "east-asian", false, "count ambiguous-width characters as two columns")
	flags.IntVar(&opts.maxFields, "max-fields", csvpretty.DefaultMaxFields, "maximum number of fields in one row")
	flags.StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	flags.StringVar(&opts.format, "format", "table", "output format: table or csv")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "diagnostic level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "diagnostic format: text, json or json-pretty")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func run(cmd *cobra.Command, opts *rootOptions, args []string) error {
	logger, err := logging.New(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	cfg, err := buildConfig(cmd.Flags(), opts, isTerminal(out))
	if err != nil {
		return err
	}
	logger.WithField("config", fmt.Sprintf("%+v", cfg)).Debug("configuration resolved")

	tok := cfg.NewTokenizer(in)
	tok.Logger = logger
	tbl, err := tok.Tokenize()
	if err != nil {
		return err
	}

	switch opts.format {
	case "table":
		return csvpretty.NewRenderer(out, cfg).Render(tbl)
	case "csv":
		return csvpretty.NewWriter(out).WriteTable(tbl)
	default:
		return fmt.Errorf("unknown output format %q", opts.format)
	}
}

// buildConfig layers defaults, the config file and explicitly set flags.
// Line style "auto" resolves to unicode on a terminal.
func buildConfig(flags *pflag.FlagSet, opts *rootOptions, terminal bool) (csvpretty.Config, error) {
	cfg := csvpretty.DefaultConfig()
	styleSet := false
	if opts.cfgFile != "" {
		loaded, err := csvpretty.LoadConfig(opts.cfgFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
		styleSet = true
	}

	if flags.Changed("separator") {
		sep, err := csvpretty.ParseSeparator(opts.separator)
		if err != nil {
			return cfg, err
		}
		cfg.Separator = sep
	}
	if flags.Changed("border") {
		cfg.Border = opts.border
	}
	if flags.Changed("header") {
		mode, err := csvpretty.ParseHeaderMode(opts.header)
		if err != nil {
			return cfg, err
		}
		cfg.Header = mode
	}
	if flags.Changed("east-asian") {
		cfg.EastAsianWidth = opts.eastAsian
	}
	if flags.Changed("max-fields") {
		cfg.MaxFields = opts.maxFields
	}

	switch {
	case flags.Changed("linestyle") && opts.lineStyle != "auto":
		style, err := csvpretty.ParseLineStyle(opts.lineStyle)
		if err != nil {
			return cfg, err
		}
		cfg.LineStyle = style
	case flags.Changed("linestyle") || !styleSet:
		cfg.LineStyle = csvpretty.LineStyleASCII
		if terminal {
			cfg.LineStyle = csvpretty.LineStyleUnicode
		}
	}

	return cfg, cfg.Validate()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
