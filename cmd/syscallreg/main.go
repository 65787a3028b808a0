// Command syscallreg curates syscalls.json, the registry the runtime's
// syscall dispatch table is generated from (spec.md §1, grounded on
// original_source/api/src/main.rs). It shares the cobra CLI library with
// cmd/ncc rather than inventing its own flag parsing, per the ambient
// CLI-stack rule this repository follows throughout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ncc/internal/syscallreg"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "syscallreg",
		Short: "syscallreg validates and curates the syscall registry",
	}
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newAssignCmd())
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <syscalls.json>",
		Short: "check every identifier, name uniqueness and const_idx assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := syscallreg.Load(args[0])
			if err != nil {
				return err
			}
			if err := syscallreg.Validate(reg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

func newAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <syscalls.json>",
		Short: "validate, allocate const_idx to new syscalls, and rewrite the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			reg, err := syscallreg.Load(path)
			if err != nil {
				return err
			}
			if err := syscallreg.Validate(reg); err != nil {
				return err
			}
			allocated := syscallreg.Assign(reg)
			for _, name := range allocated {
				fmt.Fprintf(cmd.OutOrStdout(), "allocated const_idx to syscall %q\n", name)
			}
			return syscallreg.Save(path, reg)
		},
	}
}
