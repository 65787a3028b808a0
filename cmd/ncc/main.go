// Command ncc reads one or more JSON-encoded, already type-checked ast
// units and emits the stack-VM assembly dialect described in spec.md
// §6. The CLI layer is a thin cobra.Command wrapper around
// internal/driver, in the idiom _examples/keurnel-assembler's
// cmd/cli/cmd package uses: flags parsed by cobra, the real work
// delegated to a plain Go package with no cobra import.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ncc/internal/driver"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opt driver.Options

	cmd := &cobra.Command{
		Use:   "ncc [unit.json ...]",
		Short: "ncc generates stack-VM assembly from a resolved AST",
		Long: `ncc reads one or more JSON-encoded compilation units (already
lexed, parsed, symbol-resolved and type-checked by a front end outside
this repository) and emits the textual stack-VM assembly dialect each
unit's code generator produces. With no arguments, one unit is read
from standard input.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opt.Srcs = args
			if err := driver.Run(opt); err != nil {
				return fmt.Errorf("ncc: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opt.Out, "out", "o", "", "write output to this file instead of stdout")
	cmd.Flags().IntVarP(&opt.Threads, "threads", "t", driver.DefaultThreads, "max number of units to generate concurrently")
	cmd.Flags().BoolVarP(&opt.Verbose, "verbose", "v", false, "print per-unit generation statistics to stderr")

	return cmd
}
