package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanonone/kektortree/pkg/core/geom"
	"github.com/sanonone/kektortree/pkg/core/types"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("1, 2.5\t-3")
	require.NoError(t, err)
	assert.Equal(t, geom.Point{1, 2.5, -3}, p)

	_, err = parsePoint(" , ")
	assert.Error(t, err)
	_, err = parsePoint("1,x")
	assert.Error(t, err)
}

func TestReadPoints(t *testing.T) {
	pts, err := readPoints(strings.NewReader("# header\n0 0\n\n1,1\n  2 3  \n"))
	require.NoError(t, err)
	assert.Equal(t, []geom.Point{{0, 0}, {1, 1}, {2, 3}}, pts)

	_, err = readPoints(strings.NewReader("0 0\n1 nope\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestBuildCommand(t *testing.T) {
	out, err := run(t, "build", "--random", "200", "--dim", "2", "--log-level", "error")
	require.NoError(t, err)

	var info types.IndexInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "default", info.Name)
	assert.Equal(t, 200, info.Points)
	assert.Equal(t, 2, info.Dimension)
}

func TestBuildCommandWithConfigAndDump(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("log:\n  level: error\ntree:\n  max_depth: 1\n  bucket_size: 1\nmetrics:\n  index_name: small\n"), 0o644))
	pts := filepath.Join(dir, "points.txt")
	require.NoError(t, os.WriteFile(pts, []byte("0 0\n1 1\n0 1\n1 0\n"), 0o644))

	out, err := run(t, "build", "--config", cfg, "--points", pts, "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "small"`)
	assert.Contains(t, out, "#0 (0, 0) depth=0 root\n")
	assert.Contains(t, out, ". #4 (1, 1) depth=1 leaf\n")
}

func TestLocateAndNearestCommands(t *testing.T) {
	out, err := run(t, "locate", "--random", "500", "--dim", "3", "--point", "0.5,0.5,0.5", "--neighbors", "--log-level", "error")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "leaf #"))
	assert.Contains(t, out, "neighbour #")

	out, err = run(t, "nearest", "--random", "500", "--dim", "3", "--point", "0.5 0.5 0.5", "-k", "3", "--log-level", "error")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "build", "--log-level", "error")
	assert.ErrorContains(t, err, "required")

	_, err = run(t, "build", "--random", "5", "--points", "x.txt")
	assert.ErrorContains(t, err, "mutually exclusive")

	_, err = run(t, "locate", "--random", "5")
	assert.Error(t, err)
}
