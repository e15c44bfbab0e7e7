package svfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/ethsol/svfs/input"
	"github.com/ethsol/svfs/session"
	"github.com/ethsol/svfs/vfs"
	"github.com/spf13/cobra"
)

var (
	basePath   string
	remapFile  string
	jsonInput  string
	importSpec string
	showGraph  bool
)

// resolveCmd populates a session from positional inputs (source paths,
// remapping arguments, and the "-" stdin marker, all interleaved the
// way solidity-family compilers accept them) and optionally resolves a
// single "importer:importPath" pair against it.
//
// Examples:
//   svfs resolve lib/math.sol lib/=vendor/lib/ --import lib/math.sol:./util.sol
//   svfs resolve --json input.json --import "":contracts/Token.sol
var resolveCmd = &cobra.Command{
	Use:   "resolve [paths-and-remappings...]",
	Short: "Populate a virtual filesystem and resolve one import against it",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := session.New(basePath)

		if remapFile != "" {
			if err := sess.Remap.LoadFile(remapFile); err != nil {
				return usageError(err)
			}
		}

		sawStdin := false
		for _, arg := range args {
			switch {
			case arg == "-":
				if sawStdin {
					return usageError(fmt.Errorf("standard input may only be supplied once"))
				}
				sawStdin = true
				content, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading standard input: %w", err)
				}
				if err := sess.AddStdin(content); err != nil {
					return compileError(err)
				}
			case looksLikeRemapping(arg):
				if err := sess.AddRemapping(arg); err != nil {
					return usageError(err)
				}
			default:
				if _, err := sess.AddCLISource(arg); err != nil {
					return compileError(err)
				}
			}
		}

		if jsonInput != "" {
			f, err := os.Open(jsonInput)
			if err != nil {
				return compileError(err)
			}
			defer f.Close()

			doc, err := input.Decode(f)
			if err != nil {
				return compileError(err)
			}
			if err := sess.LoadStandardJSON(doc); err != nil {
				return compileError(err)
			}
		}

		if importSpec != "" {
			importer, importPath, err := splitImportSpec(importSpec)
			if err != nil {
				return usageError(err)
			}

			sun, content, err := sess.ResolveImport(context.Background(), importer, importPath)
			if err != nil {
				return compileError(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", sun)
			fmt.Fprintf(cmd.ErrOrStderr(), "(%d bytes)\n", len(content))
		}

		if showGraph {
			printGraph(cmd, sess)
		}

		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&basePath, "base-path", "", "base directory for the Host Filesystem Loader")
	resolveCmd.Flags().StringVar(&remapFile, "remap-file", "", "YAML file of additional remapping rules, applied before CLI remappings")
	resolveCmd.Flags().StringVar(&jsonInput, "json", "", "path to a standard-JSON input document")
	resolveCmd.Flags().StringVar(&importSpec, "import", "", `"importerSUN:importPath" pair to resolve and load`)
	resolveCmd.Flags().BoolVar(&showGraph, "graph", false, "print the recorded importer -> imported edges")
}

// looksLikeRemapping applies the same "first '=' wins" heuristic the
// remap parser itself uses, so that a bare path never collides with a
// rule as long as the path contains no '='.
func looksLikeRemapping(arg string) bool {
	return strings.Contains(arg, "=")
}

func splitImportSpec(spec string) (vfs.SUN, string, error) {
	idx := strings.IndexByte(spec, ':')
	if idx < 0 {
		return "", "", fmt.Errorf("--import must be of the form importerSUN:importPath, got %q", spec)
	}
	return vfs.SUN(spec[:idx]), spec[idx+1:], nil
}

func printGraph(cmd *cobra.Command, sess *session.Session) {
	edges, err := sess.Deps.Edges()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "graph unavailable: %v\n", err)
		return
	}

	// Edges() makes no ordering guarantee (it walks dominikbraun/graph's
	// internal map), so the diagnostic output is sorted here to stay
	// reproducible across runs.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i][0] != edges[j][0] {
			return edges[i][0] < edges[j][0]
		}
		return edges[i][1] < edges[j][1]
	})

	for _, e := range edges {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", e[0], e[1])
	}
}

// usageError marks err as a malformed-invocation failure (exit code 2);
// compileError marks it as a resolution/load failure (exit code 1).
// Cobra itself only distinguishes success from failure, so Execute
// inspects the returned error's type to pick the code.
type usageErr struct{ err error }

func (e *usageErr) Error() string { return e.err.Error() }
func (e *usageErr) Unwrap() error { return e.err }

func usageError(err error) error   { return &usageErr{err: err} }
func compileError(err error) error { return err }
