package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoTetYAML = `
title: two tets
points:
  - [0, 0, 0]
  - [1, 0, 0]
  - [0, 1, 0]
  - [0, 0, 1]
  - [1, 1, 1]
interior:
  - [1, 0, 1, 2, 3]
exterior:
  - [2, 1, 2, 3, 4, 7, 7, 7, -1]
`

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--log", "none"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTwoTets(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "twotets.yaml")
	require.NoError(t, os.WriteFile(file, []byte(twoTetYAML), 0o644))
	return file
}

func TestDecodeCmd(t *testing.T) {
	input := writeTwoTets(t)
	{ // Linear VTK next to the input
		out, err := runRoot(t, "decode", "--stats", input)
		require.NoError(t, err)
		vtkFile := filepath.Join(filepath.Dir(input), "twotets.vtk")
		assert.Contains(t, out, "(7 triangles)")
		assert.Contains(t, out, vtkFile)
		data, err := os.ReadFile(vtkFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "CELLS 7 28")
	}
	{ // Quadratic YAML into an output directory
		outDir := filepath.Join(t.TempDir(), "out")
		_, err := runRoot(t, "decode", "-q", "-f", "yaml", "-o", outDir, input)
		require.NoError(t, err)
		data, err := os.ReadFile(filepath.Join(outDir, "twotets.yaml"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "quadratic: true")
	}
	{ // Parameters file, with a changed flag overriding it
		dir := t.TempDir()
		params := filepath.Join(dir, "params.yaml")
		require.NoError(t, os.WriteFile(params, []byte("OutputFormat: yaml\nOutputDirectory: "+dir+"\n"), 0o644))
		_, err := runRoot(t, "decode", "-I", params, "-f", "vtk", input)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "twotets.vtk"))
		assert.NoFileExists(t, filepath.Join(dir, "twotets.yaml"))
	}
}

func TestDecodeCmd_EnvUnderParametersFile(t *testing.T) {
	t.Setenv("MESHSEQ_QUADRATIC", "true")
	t.Setenv("MESHSEQ_STATS", "true")
	input := writeTwoTets(t)
	dir := t.TempDir()
	params := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(params, []byte("OutputFormat: yaml\nStatistics: false\nOutputDirectory: "+dir+"\n"), 0o644))

	out, err := runRoot(t, "decode", "-I", params, input)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "twotets.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "quadratic: true") // from the environment
	assert.NotContains(t, out, "Mesh Statistics")       // the file wins over the environment
}

func TestDecodeCmd_Errors(t *testing.T) {
	_, err := runRoot(t, "decode")
	assert.Error(t, err)

	_, err = runRoot(t, "decode", "-f", "stl", writeTwoTets(t))
	assert.ErrorContains(t, err, "OutputFormat")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("points: [[0,0,0]]\ninterior:\n  - [0, 0, 0, 0, 9]\n"), 0o644))
	_, err = runRoot(t, "decode", bad)
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(bad), "bad.vtk"))

	_, err = runRoot(t, "decode", "missing.tet")
	assert.Error(t, err)

	_, err = runRoot(t, "--log", "loud", "decode", writeTwoTets(t))
	assert.ErrorContains(t, err, "unknown log level")
}

func TestSequenceCmd(t *testing.T) {
	{ // Names on the command line
		out, err := runRoot(t, "sequence", "--missing",
			"frame.0001.vtk", "frame.0003.vtk", "dir/frame.0004.vtk", "README")
		require.NoError(t, err)
		assert.Equal(t, "frame....vtk [1-4] 3 files\n\tmissing 2\nREADME\n", out)
	}
	{ // Wide gaps print as ranges
		out, err := runRoot(t, "sequence", "-m", "a_1.png", "a_5.png", "a_16777216.png")
		require.NoError(t, err)
		assert.Equal(t, "a_...png [1-16777216] 3 files\n\tmissing 2-4, 6-16777215\n", out)
	}
	{ // Directory scan
		dir := t.TempDir()
		for _, name := range []string{"img_001.png", "img_002.png", "notes.txt"} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
		}
		require.NoError(t, os.Mkdir(filepath.Join(dir, "img_003.png"), 0o755))
		out, err := runRoot(t, "sequence", "--list", dir)
		require.NoError(t, err)
		assert.Equal(t, "img_...png [1-2] 2 files\n\timg_001.png\n\timg_002.png\nnotes.txt\n", out)
	}
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchCmd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run_01.csv"), nil, 0o644))

	var out lockedBuffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--log", "none", "watch", "--debounce", "20ms", dir})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("run_...csv [1-1] 1 files"))
	}, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run_02.csv"), nil, 0o644))
	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("run_...csv [1-2] 2 files"))
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop on cancel")
	}
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "b.vtk"), outputName(filepath.Join("a", "b.tet"), "", "vtk"))
	assert.Equal(t, filepath.Join("out", "b.yaml"), outputName("b.yaml", "out", "yaml"))
}
