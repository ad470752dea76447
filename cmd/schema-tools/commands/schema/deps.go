package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"time"

	"github.com/christophevg/schema-tools/cmd/schema-tools/commands/cmdutil"
	"github.com/christophevg/schema-tools/schema"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	depsLoad         loadFlags
	depsExternalFlag bool
)

var depsCmd = &cobra.Command{
	Use:   "deps <file>...",
	Short: "List the references a schema depends on",
	Long: `List the distinct references reachable from each schema, in the order they are
found. With --external references are resolved and the documents they point to
are searched as well, across files and URLs.

Several schemas are processed concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		err := runDeps(cmd.Context(), args, cmd.InOrStdin(), cmd.OutOrStdout())
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			reportElapsed(os.Stderr, "Dependency extraction", time.Since(start))
		}
		return err
	},
	Example: `  schema-tools deps --external invoice.json order.json`,
}

func init() {
	depsLoad.register(depsCmd)
	depsCmd.Flags().BoolVar(&depsExternalFlag, "external", false, "resolve references and include their dependencies")
}

var errStdinTwice = errors.New("stdin can only be read once")

func runDeps(ctx context.Context, files []string, stdin io.Reader, stdout io.Writer) error {
	if slices.IndexFunc(files, cmdutil.IsStdin) != slices.LastIndexFunc(files, cmdutil.IsStdin) {
		return fmt.Errorf("%w: %q given more than once", errStdinTwice, cmdutil.StdinIndicator)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	results := make([][]string, len(files))
	for i, file := range files {
		g.Go(func() error {
			s, err := loadSchema(ctx, file, stdin, &depsLoad)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			deps, err := schema.Dependencies(ctx, s, depsExternalFlag)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = slices.Collect(deps.Keys())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, file := range files {
		fmt.Fprintf(stdout, "%s:\n", file)
		for _, ref := range results[i] {
			fmt.Fprintf(stdout, "  %s\n", ref)
		}
	}
	return nil
}
