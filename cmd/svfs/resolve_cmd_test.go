package svfs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethsol/svfs/session"
	"github.com/ethsol/svfs/vfs"
)

func resetFlags() {
	basePath = ""
	remapFile = ""
	jsonInput = ""
	importSpec = ""
	showGraph = false
}

func TestResolveCmdRelativeImportFromCLISource(t *testing.T) {
	resetFlags()
	dir := t.TempDir()
	mathPath := filepath.Join(dir, "math.sol")
	utilPath := filepath.Join(dir, "util.sol")
	require.NoError(t, os.WriteFile(mathPath, []byte("math"), 0o644))
	require.NoError(t, os.WriteFile(utilPath, []byte("util"), 0o644))

	var out, errOut bytes.Buffer
	resolveCmd.SetOut(&out)
	resolveCmd.SetErr(&errOut)
	// Cobra always executes from the root command, so the subcommand is
	// selected by name in the root's arguments.
	rootCmd.SetArgs([]string{
		"resolve",
		mathPath,
		"--import", mathPath + ":./util.sol",
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "util.sol")
}

func TestResolveCmdRejectsDoubleStdin(t *testing.T) {
	resetFlags()

	var out, errOut bytes.Buffer
	resolveCmd.SetOut(&out)
	resolveCmd.SetErr(&errOut)
	resolveCmd.SetIn(bytes.NewReader([]byte("x")))
	rootCmd.SetArgs([]string{"resolve", "-", "-"})

	err := rootCmd.Execute()
	require.Error(t, err)
	var usage *usageErr
	assert.ErrorAs(t, err, &usage)
}

func TestSplitImportSpec(t *testing.T) {
	importer, path, err := splitImportSpec("lib/math.sol:./util.sol")
	require.NoError(t, err)
	assert.Equal(t, "lib/math.sol", string(importer))
	assert.Equal(t, "./util.sol", path)

	_, _, err = splitImportSpec("no-colon-here")
	assert.Error(t, err)
}

func TestLooksLikeRemapping(t *testing.T) {
	assert.True(t, looksLikeRemapping("a/=b/"))
	assert.False(t, looksLikeRemapping("lib/math.sol"))
}

func TestPrintGraphSortsEdgesDeterministically(t *testing.T) {
	sess := session.New("")
	require.NoError(t, sess.Deps.RecordImport(vfs.SUN("zoo.sol"), vfs.SUN("a.sol")))
	require.NoError(t, sess.Deps.RecordImport(vfs.SUN("alpha.sol"), vfs.SUN("z.sol")))
	require.NoError(t, sess.Deps.RecordImport(vfs.SUN("alpha.sol"), vfs.SUN("b.sol")))

	var cmd bytes.Buffer
	resolveCmd.SetOut(&cmd)
	printGraph(resolveCmd, sess)

	assert.Equal(t, "alpha.sol -> b.sol\nalpha.sol -> z.sol\nzoo.sol -> a.sol\n", cmd.String())
}
