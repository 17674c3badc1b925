package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parsix",
	Short: "Drive the parsix toolkit's built-in arithmetic-expression grammar",
	Long: `parsix exercises the parser-construction toolkit against its one
built-in example grammar (examples/arithmetic): an arithmetic-expression
grammar with operator precedence, offered in both the left-recursive form
the LR(1) driver needs and the right-recursive rewrite the LL(1) driver
needs.

It does not read grammar files: compiling a textual grammar DSL is out of
scope for the toolkit itself.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
