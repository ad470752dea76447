package schema

import (
	"io"

	"github.com/christophevg/schema-tools/ast"
	"github.com/christophevg/schema-tools/cmd/schema-tools/commands/cmdutil"
	"github.com/spf13/cobra"
)

var astGrammarFlag string

var astCmd = &cobra.Command{
	Use:   "ast [file]",
	Short: "Print the located source tree of a JSON or YAML document",
	Long: `Parse a JSON or YAML document and print every node with the line and column it
was found at. Use "-" or pipe the document to read from stdin.`,
	Args: cmdutil.StdinOrFileArgs(1, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAST(cmdutil.InputFileFromArgs(args), cmd.InOrStdin(), cmd.OutOrStdout())
	},
	Example: `  schema-tools ast invoice.json
  cat petstore.yaml | schema-tools ast --grammar yaml`,
}

func init() {
	astCmd.Flags().StringVar(&astGrammarFlag, "grammar", "auto", "grammar of the input: json, yaml or auto")
}

func runAST(file string, stdin io.Reader, stdout io.Writer) error {
	grammar, err := ast.ParseGrammar(astGrammarFlag)
	if err != nil {
		return err
	}

	data, err := cmdutil.ReadInput(file, stdin)
	if err != nil {
		return err
	}

	node, err := ast.Parse(data, grammar)
	if err != nil {
		return err
	}

	return ast.Dump(stdout, node)
}
