package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routetable/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	dir      string
	manifest string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "routetable",
		Short: "Serve and inspect a hierarchical route table",
		Long: `routetable maps URL paths to lazily loaded views.

The route table comes from a YAML manifest (routes.manifest in
routetable.json, or --manifest) or the built-in General table.
View chunks are read from a directory, an S3 bucket or the
built-in chunks.

Every routetable.json field can be set with a ROUTETABLE_* variable,
e.g. ROUTETABLE_SERVER_PORT=9090.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "d", ".", "Directory containing routetable.json")
	rootCmd.PersistentFlags().StringVarP(&flags.manifest, "manifest", "m", "", "Route manifest (overrides routes.manifest)")

	rootCmd.AddCommand(
		initCmd(),
		serveCmd(flags),
		routesCmd(flags),
		resolveCmd(flags),
		urlCmd(flags),
		validateCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
