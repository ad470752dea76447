package schema

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/christophevg/schema-tools/cmd/schema-tools/commands/cmdutil"
	"github.com/christophevg/schema-tools/schema"
	"github.com/spf13/cobra"
)

var (
	selectLoad   loadFlags
	selectOutput outputFlags
	traceLoad    loadFlags
)

var selectCmd = &cobra.Command{
	Use:   "select <path> [file]",
	Short: "Select the schema at a dotted path",
	Long: `Follow a dotted path through properties, array items and allOf, anyOf and oneOf
options and print the schema found at its end, as written in the document.
The document is read from stdin when no file is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := cmdutil.ArgAt(args, 1, cmdutil.StdinIndicator)
		return runSelect(cmd.Context(), file, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
	},
	Example: `  schema-tools select product.price.currency invoice.json`,
}

var traceCmd = &cobra.Command{
	Use:   "trace <path> [file]",
	Short: "List the properties matched by every segment of a dotted path",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := cmdutil.ArgAt(args, 1, cmdutil.StdinIndicator)
		return runTrace(cmd.Context(), file, args[0], cmd.InOrStdin(), cmd.OutOrStdout())
	},
	Example: `  schema-tools trace components.schemas.Pet.name petstore.yaml`,
}

func init() {
	selectLoad.register(selectCmd)
	selectOutput.register(selectCmd)
	traceLoad.register(traceCmd)
}

var errNoSelection = errors.New("path does not select anything")

func runSelect(ctx context.Context, file, path string, stdin io.Reader, stdout io.Writer) error {
	s, err := loadSchema(ctx, file, stdin, &selectLoad)
	if err != nil {
		return err
	}

	selected, err := schema.Select(ctx, s, path)
	if err != nil {
		return err
	}
	if selected == nil {
		return fmt.Errorf("%w: %s", errNoSelection, path)
	}

	fmt.Fprintln(stdout, describe(selected))

	dict, err := schema.ToDict(ctx, selected)
	if err != nil {
		return err
	}
	return writeValue(ctx, stdout, dict, &selectOutput)
}

func runTrace(ctx context.Context, file, path string, stdin io.Reader, stdout io.Writer) error {
	s, err := loadSchema(ctx, file, stdin, &traceLoad)
	if err != nil {
		return err
	}

	trace, err := schema.Trace(ctx, s, path)
	if err != nil {
		return err
	}

	for _, step := range trace {
		fmt.Fprintln(stdout, describe(step))
	}
	return nil
}
