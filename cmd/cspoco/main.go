// cspoco translates C# POCO declarations into TypeScript or JavaScript
// using templates.
package main

import (
	"context"
	"fmt"
	"os"

	"cspoco/internal/commands"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return commands.NewRootCmd().ExecuteContext(ctx)
}
