package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/parsix/parsix/examples/arithmetic"
	"github.com/parsix/parsix/lexer"
	"github.com/parsix/parsix/parser"
	"github.com/parsix/parsix/table"
)

var parseFlags = struct {
	driver *string
	source *string
	values *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse",
		Short:   "Parse an arithmetic expression with the built-in grammar",
		Example: `  parsix parse -s "id + id * id"
  parsix parse -d lr --values -s "2 * 3 + 4"`,
		Args: cobra.NoArgs,
		RunE: runParse,
	}
	parseFlags.driver = cmd.Flags().StringP("driver", "d", "lr", `which driver to use: "ll" or "lr"`)
	parseFlags.source = cmd.Flags().StringP("source", "s", "", "expression to parse (default stdin)")
	parseFlags.values = cmd.Flags().Bool("values", false, `lr only: run with the canonical semantic actions and print the computed integer value instead of an accept/reject verdict (source must use digits in place of "id")`)
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := readSource(*parseFlags.source)
	if err != nil {
		return err
	}

	switch *parseFlags.driver {
	case "ll":
		return parseLL(src)
	case "lr":
		if *parseFlags.values {
			return parseLRWithValues(src)
		}
		return parseLR(src)
	default:
		return fmt.Errorf(`unknown driver %q: must be "ll" or "lr"`, *parseFlags.driver)
	}
}

func readSource(flag string) ([]byte, error) {
	if flag != "" {
		return []byte(flag), nil
	}
	return io.ReadAll(os.Stdin)
}

func parseLL(src []byte) error {
	tab, err := table.BuildLL(arithmetic.LLGrammar())
	if err != nil {
		return err
	}
	lex := lexer.New(arithmetic.Machine(), arithmetic.Factory, src)
	p := parser.NewLL(tab, lex, lexer.Default)
	if err := p.Parse(); err != nil {
		return err
	}
	fmt.Println("accepted")
	return nil
}

func parseLR(src []byte) error {
	tab, err := table.BuildLR(arithmetic.LRGrammar())
	if err != nil {
		return err
	}
	lex := lexer.New(arithmetic.Machine(), arithmetic.Factory, src)
	p := parser.NewLR(tab, lex, lexer.Default)
	if _, err := p.Parse(nil); err != nil {
		return err
	}
	fmt.Println("accepted")
	return nil
}

// parseLRWithValues runs the LR driver with the canonical postfix
// semantic actions attached, computing the expression's integer value
// instead of a bare accept/reject verdict.
func parseLRWithValues(src []byte) error {
	tab, err := table.BuildLR(arithmetic.LRGrammarWithValues())
	if err != nil {
		return err
	}
	lex := lexer.New(arithmetic.NumericMachine(), arithmetic.Factory, src)
	p := parser.NewLR(tab, lex, lexer.Default)
	result := new(int)
	if _, err := p.Parse(result); err != nil {
		return err
	}
	fmt.Println(*result)
	return nil
}
