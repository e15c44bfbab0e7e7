package svfs

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "svfs",
	Short: "Resolve and load smart-contract source units",
	Long: `svfs resolves import statements to source unit names and loads their
bytes on demand, the way a Solidity-family compiler's frontend does
before parsing or type-checking ever begins.

Use 'svfs --help' to see all available commands, or 'svfs <command> --help'
for detailed information about a specific command.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(); it only needs to run
// once against rootCmd. Exit codes: 0 success, 1 a compilation,
// resolution, or load error, 2 a malformed invocation.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err == nil {
		return
	}

	fmt.Fprintln(os.Stderr, err)
	if _, ok := err.(*usageErr); ok {
		os.Exit(2)
	}
	os.Exit(1)
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(watchCmd)

	if rootCmd.Annotations == nil {
		rootCmd.Annotations = make(map[string]string)
	}
	rootCmd.Annotations["buildDate"] = buildDate
	rootCmd.Annotations["commit"] = commit
	rootCmd.Version = version

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)
}
