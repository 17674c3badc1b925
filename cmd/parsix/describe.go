package main

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/parsix/parsix/examples/arithmetic"
	"github.com/parsix/parsix/grammar"
	"github.com/parsix/parsix/symbol"
	"github.com/parsix/parsix/table"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe",
		Short:   "Print the built-in grammar's productions, FIRST/FOLLOW sets and LR(1) automaton",
		Example: `  parsix describe`,
		Args:    cobra.NoArgs,
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	g := arithmetic.LRGrammar()
	g.ComputeFIRST()
	if err := g.ComputeFOLLOW(); err != nil {
		return err
	}

	printProductions(g)
	printFirstFollow(g)

	tab, err := table.BuildLR(arithmetic.LRGrammar())
	if err != nil {
		return err
	}
	printAutomaton(tab)

	return nil
}

func printProductions(g *grammar.Grammar) {
	pterm.DefaultSection.Println("Productions")
	rows := pterm.TableData{{"#", "production"}}
	for _, p := range g.Productions() {
		if p.Head == symbol.Start {
			continue
		}
		rows = append(rows, []string{fmt.Sprint(p.Index), renderProduction(p)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func renderProduction(p *grammar.Production) string {
	s := arithmetic.NonTerminalName(p.Head) + " ->"
	if p.IsEpsilon() {
		return s + " ε"
	}
	for i := 0; i < p.SymbolCount(); i++ {
		sym, _ := p.SymbolAt(i)
		s += " " + renderSymbol(sym)
	}
	return s
}

func renderSymbol(s symbol.Symbol) string {
	if t, ok := s.Term(); ok {
		return arithmetic.TerminalName(t)
	}
	nt, _ := s.NonTerm()
	return arithmetic.NonTerminalName(nt)
}

func printFirstFollow(g *grammar.Grammar) {
	pterm.DefaultSection.Println("FIRST / FOLLOW")
	nts := []symbol.NonTerminal{arithmetic.E, arithmetic.T, arithmetic.F}
	rows := pterm.TableData{{"non-terminal", "FIRST", "FOLLOW"}}
	for _, nt := range nts {
		first, _ := g.FIRST(nt)
		follow, _ := g.FOLLOW(nt)
		rows = append(rows, []string{arithmetic.NonTerminalName(nt), renderSet(first), renderSet(follow)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func renderSet(set map[symbol.Symbol]struct{}) string {
	names := make([]string, 0, len(set))
	for s := range set {
		names = append(names, renderSymbol(s))
	}
	sort.Strings(names)
	out := "{"
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out + "}"
}

func printAutomaton(tab *table.LRTable) {
	pterm.DefaultSection.Println("LR(1) automaton")
	dump := tab.Dump()
	keys := make([]string, 0, len(dump))
	for k := range dump {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := pterm.TableData{{"cell", "action"}}
	for _, k := range keys {
		rows = append(rows, []string{k, dump[k]})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
