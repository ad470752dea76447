package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/christophevg/schema-tools/cmd/schema-tools/commands/cmdutil"
	schemaCmd "github.com/christophevg/schema-tools/cmd/schema-tools/commands/schema"
	"github.com/christophevg/schema-tools/internal/ctxlog"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// getVersionInfo prefers ldflags values over the embedded build info
func getVersionInfo() (string, string, string) {
	if version != "dev" || commit != "none" || date != "unknown" {
		return version, commit, date
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, date
	}

	moduleVersion := version
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		moduleVersion = buildInfo.Main.Version
	}

	vcsCommit := commit
	vcsTime := date
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			vcsCommit = setting.Value
			if len(vcsCommit) > 7 {
				vcsCommit = vcsCommit[:7]
			}
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	return moduleVersion, vcsCommit, vcsTime
}

var rootCmd = &cobra.Command{
	Use:   "schema-tools",
	Short: "Inspect, navigate and dereference JSON Schema documents",
	Long: `Load JSON Schema documents written in JSON or YAML, including the schemas
embedded in OpenAPI documents, and work with their structure:

- print the located source tree of a document
- select or trace a schema along a dotted property path
- list the references a schema depends on, locally or across documents
- serialize a schema with its references inlined`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger := cmdutil.NewLogger(os.Stderr, verbose)
		cmd.SetContext(ctxlog.WithLogger(cmd.Context(), logger))
	},
}

func init() {
	currentVersion, currentCommit, currentDate := getVersionInfo()
	rootCmd.Version = currentVersion

	var versionTemplate strings.Builder
	versionTemplate.WriteString(`{{printf "%s" .Version}}`)
	if currentCommit != "none" && currentCommit != "" {
		versionTemplate.WriteString("\nBuild: " + currentCommit)
	}
	if currentDate != "unknown" && currentDate != "" {
		versionTemplate.WriteString("\nBuilt: " + currentDate)
	}
	rootCmd.SetVersionTemplate(versionTemplate.String())

	schemaCmd.Apply(rootCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
