package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/parsix/parsix/examples/arithmetic"
	"github.com/parsix/parsix/table"
)

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Build the LL(1) and LR(1) tables for the built-in grammar and report conflicts",
		Example: `  parsix compile`,
		Args:    cobra.NoArgs,
		RunE:    runCompile,
	}
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	llTab, llErr := table.BuildLL(arithmetic.LLGrammar())
	lrTab, lrErr := table.BuildLR(arithmetic.LRGrammar())

	if llErr != nil {
		pterm.Error.Printfln("LL(1) table: %v", llErr)
	} else {
		pterm.Success.Printfln("LL(1) table built: %d productions", len(llTab.Grammar().Productions()))
	}

	if lrErr != nil {
		pterm.Error.Printfln("LR(1) table: %v", lrErr)
	} else {
		pterm.Success.Printfln("LR(1) table built: %d states", len(lrTab.Automaton().States))
	}

	if llErr != nil || lrErr != nil {
		os.Exit(1)
	}
	fmt.Println("no conflicts")
	return nil
}
