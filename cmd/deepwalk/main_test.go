package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const triangleWithTail = "1 2\n2 3\n3 1\n3 4\n"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "deepwalk v"+version)
}

func TestWalkCommand(t *testing.T) {
	input := writeInput(t, "graph.edgelist", triangleWithTail)
	output := filepath.Join(t.TempDir(), "walks.txt")

	out, err := execute(t, "walk", input,
		"--num-paths", "3", "--path-length", "6", "--workers", "2", "--seed", "7",
		"--output", output, "--no-progress", "--log-level", "error")
	require.NoError(t, err)

	lines := readLines(t, output)
	assert.Len(t, lines, 12)
	for _, line := range lines {
		assert.Len(t, strings.Fields(line), 6)
	}
	assert.Contains(t, out, "deepwalk corpus")
	assert.Contains(t, out, "fingerprint")
}

func TestWalkCommand_Deterministic(t *testing.T) {
	input := writeInput(t, "graph.edgelist", triangleWithTail)
	dir := t.TempDir()

	run := func(name string) []string {
		output := filepath.Join(dir, name)
		_, err := execute(t, "walk", input, "--seed", "3", "--workers", "3",
			"--output", output, "--no-progress", "--log-level", "error")
		require.NoError(t, err)
		return readLines(t, output)
	}
	assert.Equal(t, run("a.txt"), run("b.txt"))
}

func TestWalkCommand_Stream(t *testing.T) {
	input := writeInput(t, "graph.adjlist", "1 2 3\n2 1\n3 1\n")
	output := filepath.Join(t.TempDir(), "walks.txt.sz")

	out, err := execute(t, "walk", input, "--stream", "--num-paths", "2",
		"--output", output, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "deepwalk corpus")
	assert.NotContains(t, out, "fingerprint")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestWalkCommand_ConfigFile(t *testing.T) {
	input := writeInput(t, "graph.txt", triangleWithTail)
	output := filepath.Join(t.TempDir(), "walks.txt")
	cfg := writeInput(t, "job.yaml",
		"input: "+input+"\nformat: edgelist\nnum_paths: 1\npath_length: 2\nlog_level: error\noutput: "+output+"\n")

	_, err := execute(t, "walk", "--config", cfg, "--no-progress", "--num-paths", "4")
	require.NoError(t, err)
	assert.Len(t, readLines(t, output), 16, "flags override the config file")
}

func TestWalkCommand_Errors(t *testing.T) {
	_, err := execute(t, "walk", "--no-progress")
	assert.ErrorContains(t, err, "input")

	input := writeInput(t, "graph.edgelist", "1 2\n2 x\n")
	_, err = execute(t, "walk", input, "--no-progress", "--log-level", "error")
	assert.ErrorContains(t, err, "malformed token")

	_, err = execute(t, "walk", input, "--alpha", "1", "--no-progress")
	assert.ErrorContains(t, err, "alpha")
}

func TestStatsCommand(t *testing.T) {
	input := writeInput(t, "graph.edgelist", triangleWithTail)

	out, err := execute(t, "stats", input, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "nodes")
	assert.Contains(t, out, "4")
	assert.Contains(t, out, "min 1 / mean 2.00 / max 3")
}

func TestProgressModel(t *testing.T) {
	cancelled := false
	m := newProgressModel(4, func() { cancelled = true })

	next, cmd := m.Update(passMsg{done: 2, total: 4})
	assert.Nil(t, cmd)
	assert.Contains(t, next.View(), "pass 2/4")

	next, cmd = next.Update(finishedMsg{})
	assert.NotNil(t, cmd)
	assert.True(t, next.(progressModel).finished)
	assert.False(t, cancelled)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.NotNil(t, cmd)
	assert.True(t, cancelled)
}

func TestRenderTable(t *testing.T) {
	out := renderTable("graph", []row{{"nodes", "34"}, {"edges", "78"}})
	assert.Contains(t, out, "graph")
	assert.Contains(t, out, "34")
	assert.Contains(t, out, "78")
}
