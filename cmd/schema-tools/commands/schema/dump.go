package schema

import (
	"context"
	"io"

	"github.com/christophevg/schema-tools/cmd/schema-tools/commands/cmdutil"
	"github.com/christophevg/schema-tools/jsonpointer"
	"github.com/christophevg/schema-tools/schema"
	"github.com/spf13/cobra"
)

var (
	dumpLoad       loadFlags
	dumpOutput     outputFlags
	dumpDerefFlag   bool
	dumpRemoteFlag  bool
	dumpPointerFlag string
)

var dumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Serialize a schema, optionally inlining its references",
	Long: `Build a schema and serialize it back to JSON or YAML.

With --deref references into the same document are replaced by their target and
pointers inside inlined content are rewritten to their new location. --remote
also inlines references into other documents. --pointer limits the output to
the value at a JSON pointer into the serialized schema.`,
	Args: cmdutil.StdinOrFileArgs(1, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(cmd.Context(), cmdutil.InputFileFromArgs(args), cmd.InOrStdin(), cmd.OutOrStdout())
	},
	Example: `  schema-tools dump --deref --remote order.json
  schema-tools dump --format yaml invoice.json
  schema-tools dump --deref --pointer /properties/lines/items order.json`,
}

func init() {
	dumpLoad.register(dumpCmd)
	dumpOutput.register(dumpCmd)
	dumpCmd.Flags().BoolVar(&dumpDerefFlag, "deref", false, "inline references into the same document")
	dumpCmd.Flags().BoolVar(&dumpRemoteFlag, "remote", false, "also inline references into other documents")
	dumpCmd.Flags().StringVar(&dumpPointerFlag, "pointer", "", "JSON pointer selecting part of the output")
}

func runDump(ctx context.Context, file string, stdin io.Reader, stdout io.Writer) error {
	s, err := loadSchema(ctx, file, stdin, &dumpLoad)
	if err != nil {
		return err
	}

	var opts []schema.Option[schema.DictOptions]
	switch {
	case dumpRemoteFlag:
		opts = append(opts, schema.DerefRemote())
	case dumpDerefFlag:
		opts = append(opts, schema.Deref())
	}

	dict, err := schema.ToDict(ctx, s, opts...)
	if err != nil {
		return err
	}

	if dumpPointerFlag != "" {
		dict, err = jsonpointer.GetTarget(dict, jsonpointer.JSONPointer(dumpPointerFlag))
		if err != nil {
			return err
		}
	}

	return writeValue(ctx, stdout, dict, &dumpOutput)
}
