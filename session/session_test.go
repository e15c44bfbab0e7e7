package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethsol/svfs/input"
	"github.com/ethsol/svfs/vfs"
)

func TestAddCLISourceRewritesSeparatorsOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.sol")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	s := New("")
	sun, err := s.AddCLISource(path)
	require.NoError(t, err)
	assert.Equal(t, strings.ReplaceAll(path, string(os.PathSeparator), "/"), string(sun))
	assert.True(t, s.VFS.Contains(sun))
}

func TestAddRemappingWidensAllowList(t *testing.T) {
	dir := t.TempDir()
	vendorLib := filepath.Join(dir, "vendor", "lib")
	require.NoError(t, os.MkdirAll(vendorLib, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(vendorLib, "a.sol"), []byte("vendored"), 0o644))

	s := New("")
	target := filepath.ToSlash(vendorLib) + "/"
	require.NoError(t, s.AddRemapping("lib/="+target))

	got, err := s.HostFS.Load(vfs.SUN(filepath.Join(vendorLib, "a.sol")))
	require.NoError(t, err)
	assert.Equal(t, "vendored", string(got))
}

func TestAddStdinOnlyOnce(t *testing.T) {
	s := New("")
	require.NoError(t, s.AddStdin([]byte("one")))
	err := s.AddStdin([]byte("two"))
	require.Error(t, err)
}

func TestLoadStandardJSONContentEntries(t *testing.T) {
	s := New("")
	content := "pragma solidity ^0.8.0;"
	doc := &input.StandardJSON{
		Language: "Solidity",
		Sources: map[string]input.Source{
			"contracts/Token.sol": {Content: &content},
		},
	}
	require.NoError(t, s.LoadStandardJSON(doc))

	got, ok := s.VFS.Get(vfs.SUN("contracts/Token.sol"))
	require.True(t, ok)
	assert.Equal(t, content, string(got))
}

func TestLoadStandardJSONInsertsInSortedKeyOrder(t *testing.T) {
	zoo, dep, alpha := "zoo", "dep", "alpha"
	doc := &input.StandardJSON{
		Language: "Solidity",
		Sources: map[string]input.Source{
			"Zoo.sol":   {Content: &zoo},
			"Dep.sol":   {Content: &dep},
			"Alpha.sol": {Content: &alpha},
		},
	}

	for i := 0; i < 5; i++ {
		s := New("")
		require.NoError(t, s.LoadStandardJSON(doc))

		var got []string
		for _, u := range s.VFS.Iter() {
			got = append(got, string(u.SUN))
		}
		assert.Equal(t, []string{"Alpha.sol", "Dep.sol", "Zoo.sol"}, got)
	}
}

func TestResolveImportRecordsDependencyEdge(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.sol"), []byte("util"), 0o644))

	s := New("")
	importerPath := filepath.Join(dir, "math.sol")
	require.NoError(t, os.WriteFile(importerPath, []byte("math"), 0o644))
	importer, err := s.AddCLISource(importerPath)
	require.NoError(t, err)

	sun, content, err := s.ResolveImport(context.Background(), importer, "./util.sol")
	require.NoError(t, err)
	assert.Equal(t, "util", string(content))

	edges, err := s.Deps.Edges()
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, importer, edges[0][0])
	assert.Equal(t, sun, edges[0][1])
}
