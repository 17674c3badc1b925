package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/parsix/parsix/examples/arithmetic"
	"github.com/parsix/parsix/lexer"
	"github.com/parsix/parsix/parser"
	"github.com/parsix/parsix/table"
)

func init() {
	cmd := &cobra.Command{
		Use:     "repl",
		Short:   "Parse one arithmetic expression per line, using the LR(1) driver",
		Example: `  parsix repl`,
		Args:    cobra.NoArgs,
		RunE:    runRepl,
	}
	rootCmd.AddCommand(cmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	tab, err := table.BuildLR(arithmetic.LRGrammar())
	if err != nil {
		return err
	}

	rl, err := readline.New("parsix> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	pterm.Info.Println("enter an arithmetic expression (id, +, *, ( )); quit with ctrl-D")
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lex := lexer.New(arithmetic.Machine(), arithmetic.Factory, []byte(line))
		p := parser.NewLR(tab, lex, lexer.Default)
		if _, err := p.Parse(nil); err != nil {
			pterm.Error.Println(err)
			continue
		}
		pterm.Success.Println(fmt.Sprintf("accepted: %q", line))
	}
}
