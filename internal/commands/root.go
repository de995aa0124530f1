// Package commands contains all CLI command definitions.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cspoco/internal/config"
	"cspoco/internal/generator"
	"cspoco/internal/parser"
	"cspoco/internal/typemap"
)

type rootOptions struct {
	input      string
	output     string
	config     string
	dialect    string
	template   string
	types      string
	exclude    string
	interfaces bool
	internal   bool
	verbose    bool
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "cspoco",
		Short: "Translate C# POCO declarations to TypeScript or JavaScript",
		Long: fmt.Sprintf(`Translate C# classes, interfaces and enums to TypeScript or JavaScript.

Available dialects: %s`, dialectNames()),
		Example: `  # Generate TypeScript classes
  cspoco -i Models.cs -o models.ts

  # Generate JavaScript with a config file
  cspoco -i Models.cs -d javascript -c cspoco.yaml -o models.js

  # Only some declarations, as interfaces
  cspoco -i Models.cs -T Customer,Order --interfaces

  # Exclude declarations
  cspoco -i Models.cs -X InternalState

  # Render with a custom template
  cspoco -i Models.cs -t zod.tmpl`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "Input C# source file (required)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.template, "template", "t", "", "Template file overriding the built-in enum/type definitions")
	cmd.Flags().StringVarP(&opts.types, "types", "T", "", "Only generate these declarations (comma-separated)")
	cmd.Flags().StringVarP(&opts.exclude, "exclude", "X", "", "Exclude these declarations (comma-separated)")
	cmd.Flags().BoolVar(&opts.interfaces, "interfaces", false, "Emit TypeScript interfaces instead of classes")
	cmd.Flags().BoolVar(&opts.internal, "internal", false, "Include non-public declarations")
	cmd.PersistentFlags().StringVarP(&opts.config, "config", "c", "", "Config file (YAML/JSON/TOML)")
	cmd.PersistentFlags().StringVarP(&opts.dialect, "dialect", "d", "", fmt.Sprintf("Target dialect (%s)", dialectNames()))
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	_ = cmd.MarkFlagRequired("input")

	registerTypesCmd(cmd, opts)

	return cmd
}

func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if opts.types != "" {
		cfg.Options.IncludeTypes = parseCommaSeparated(opts.types)
	}
	if opts.exclude != "" {
		cfg.Options.ExcludeTypes = parseCommaSeparated(opts.exclude)
	}
	if opts.interfaces {
		cfg.Options.UseInterfaces = true
	}
	if opts.internal {
		cfg.Options.IncludeInternal = true
	}

	file, err := parser.New().ParseFile(opts.input)
	if err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}
	logger.Debug("parsed declarations", "file", opts.input, "count", len(file.Pocos))
	for _, p := range file.Pocos {
		logger.Debug("declaration", "name", p.Name, "kind", p.Kind, "properties", len(p.Properties))
	}

	resolver, err := cfg.NewResolver(typemap.WithLogger(logger))
	if err != nil {
		return err
	}
	gen, err := generator.New(cfg, resolver, generator.WithLogger(logger))
	if err != nil {
		return err
	}
	if opts.template != "" {
		if err := gen.LoadTemplate(opts.template); err != nil {
			return err
		}
	}

	if opts.output == "" {
		return gen.Generate(file, cmd.OutOrStdout())
	}

	f, err := os.Create(opts.output)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := closeOutput(f, gen.Generate(file, f)); err != nil {
		return err
	}
	logger.Debug("generated output", "path", opts.output)
	return nil
}

// closeOutput closes the output file and adds a close failure to err.
func closeOutput(c io.Closer, err error) error {
	if cerr := c.Close(); cerr != nil {
		return errors.Join(err, fmt.Errorf("closing output file: %w", cerr))
	}
	return err
}

// loadConfig builds the configuration from the config file and the flags
// shared by all commands.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg := config.New()
	if opts.config != "" {
		if err := cfg.LoadFile(opts.config); err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}
	if opts.dialect != "" {
		cfg.Dialect = opts.dialect
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func dialectNames() string {
	var names []string
	for _, d := range typemap.Dialects() {
		names = append(names, string(d))
	}
	return strings.Join(names, ", ")
}

// parseCommaSeparated splits a comma-separated string into a slice of trimmed strings.
func parseCommaSeparated(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
