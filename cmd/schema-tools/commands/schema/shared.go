package schema

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/christophevg/schema-tools/ast"
	"github.com/christophevg/schema-tools/cmd/schema-tools/commands/cmdutil"
	"github.com/christophevg/schema-tools/json"
	"github.com/christophevg/schema-tools/schema"
	"github.com/christophevg/schema-tools/yml"
	"github.com/spf13/cobra"
)

// loadFlags are shared by every command that builds a schema.
type loadFlags struct {
	grammar string
	timeout time.Duration
}

func (f *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.grammar, "grammar", "", "grammar of the input: json, yaml or auto (default from extension)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "timeout for fetching referenced documents")
}

func (f *loadFlags) options() ([]schema.Option[schema.LoadOptions], error) {
	opts := []schema.Option[schema.LoadOptions]{schema.WithFetchTimeout(f.timeout)}
	if f.grammar != "" {
		grammar, err := ast.ParseGrammar(f.grammar)
		if err != nil {
			return nil, err
		}
		opts = append(opts, schema.WithGrammar(grammar))
	}
	return opts, nil
}

// loadSchema builds the schema in file, reading stdin for "-".
func loadSchema(ctx context.Context, file string, stdin io.Reader, flags *loadFlags) (schema.Schema, error) {
	opts, err := flags.options()
	if err != nil {
		return nil, err
	}

	if cmdutil.IsStdin(file) {
		data, err := cmdutil.ReadInput(file, stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return schema.Loads(data, opts...)
	}

	return schema.Load(ctx, file, opts...)
}

// outputFlags select how plain values are written.
type outputFlags struct {
	format string
	indent int
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", string(yml.OutputFormatJSON), "output format: json or yaml")
	cmd.Flags().IntVar(&f.indent, "indent", 2, "indentation of the output, 0 for compact json")
}

func writeValue(ctx context.Context, w io.Writer, v any, flags *outputFlags) error {
	cfg := yml.GetDefaultConfig()
	cfg.Indentation = flags.indent
	cfg.OutputFormat = yml.OutputFormat(flags.format)
	ctx = yml.ContextWithConfig(ctx, cfg)

	switch cfg.OutputFormat {
	case yml.OutputFormatJSON:
		return json.Encode(ctx, v, w)
	case yml.OutputFormatYAML:
		return yml.Encode(ctx, v, w)
	default:
		return fmt.Errorf("unknown output format: %s", flags.format)
	}
}

func describe(s schema.Schema) string {
	switch v := s.(type) {
	case *schema.Property:
		return fmt.Sprintf("%s\t%s\t%s", v.Name, v.Kind(), v.Location())
	case *schema.Definition:
		return fmt.Sprintf("%s\t%s\t%s", v.Name, v.Kind(), v.Location())
	case *schema.TupleItem:
		return fmt.Sprintf("%s\t%s\t%s", v.Name, v.Kind(), v.Location())
	case *schema.UnknownProperty:
		return fmt.Sprintf("%s\t%s\t-", v.Name, v.Kind())
	default:
		return fmt.Sprintf("-\t%s\t%s", s.Kind(), s.Location())
	}
}
