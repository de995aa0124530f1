package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cspoco/internal/typemap"
)

func registerTypesCmd(parent *cobra.Command, opts *rootOptions) {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the type translation table of a dialect",
		Example: `  # Built-in TypeScript translations
  cspoco types

  # JavaScript translations merged with a config file
  cspoco types -d js -c cspoco.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTypes(cmd, opts)
		},
	}

	parent.AddCommand(cmd)
}

func runTypes(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	resolver, err := cfg.NewResolver(typemap.WithLogger(newLogger(cmd.ErrOrStderr(), opts.verbose)))
	if err != nil {
		return err
	}

	table := resolver.Table()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "C#\t%s\tDEFAULT\n", table.Dialect())
	for _, name := range table.Names() {
		conv, _ := table.Lookup(name)
		fmt.Fprintf(w, "%s\t%s\t%s\n", name, conv.Target(), conv.Default())
	}
	return w.Flush()
}
