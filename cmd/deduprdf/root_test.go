package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "@prefix ex: <urn:ex:> .\n" +
	"ex:a ex:p \"x\" .\n" +
	"ex:a ex:p \"x\" .\n" +
	"ex:b ex:p \"y\" .\n"

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"-q"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootReadsStdin(t *testing.T) {
	out, err := execute(t, sample)
	require.NoError(t, err)
	assert.Equal(t, "<urn:ex:a> <urn:ex:p> \"x\" .\n<urn:ex:b> <urn:ex:p> \"y\" .\n", out)
}

func TestRootFileAndOutput(t *testing.T) {
	in := writeFile(t, "in.ttl", sample)
	outPath := filepath.Join(t.TempDir(), "out.nt")
	require.NoError(t, os.WriteFile(outPath, []byte("stale content that must disappear\n"), 0o644))

	stdout, err := execute(t, "", "--file", in, "--output", outPath, "--limit", "1")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	got, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, "<urn:ex:a> <urn:ex:p> \"x\" .\n", string(got))
}

func TestRootNoPrefixes(t *testing.T) {
	out, err := execute(t, sample+"<urn:s> <urn:p> <urn:o> .\n", "--no-prefixes")
	require.NoError(t, err)
	assert.Equal(t, "<urn:s> <urn:p> <urn:o> .\n", out)
}

func TestRootEnvironment(t *testing.T) {
	t.Setenv("DEDUPRDF_LIMIT", "1")
	out, err := execute(t, sample)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestRootConfigFile(t *testing.T) {
	cfg := writeFile(t, "deduprdf.yaml", "limit: 0\n")
	out, err := execute(t, sample, "--config", cfg)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRootMissingInput(t *testing.T) {
	_, err := execute(t, "", "--file", filepath.Join(t.TempDir(), "absent.ttl"))
	assert.ErrorContains(t, err, "open input")
}

func TestRootRejectsArgs(t *testing.T) {
	_, err := execute(t, sample, "extra")
	assert.Error(t, err)
}

func TestRootVersion(t *testing.T) {
	out, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestRootLineLimit(t *testing.T) {
	input := "<urn:a-very-long-subject> <urn:p> <urn:o> .\n<urn:s> <urn:p> <urn:o> .\n"
	out, err := execute(t, input, "--max-line-bytes", "32")
	require.NoError(t, err)
	assert.Equal(t, "<urn:s> <urn:p> <urn:o> .\n", out)
}

func TestLogVerbosity(t *testing.T) {
	assert.Equal(t, 0, logVerbosity(config{}))
	assert.Equal(t, 2, logVerbosity(config{Verbose: 2}))
	assert.Equal(t, quietVerbosity, logVerbosity(config{Verbose: 2, Quiet: true}))
}

func TestRootQuietLogFileStaysEmpty(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "deduprdf.log")
	_, err := execute(t, "ex:a ex:b ex:c .\n", "--log", logPath)
	require.NoError(t, err)
	got, err := os.ReadFile(logPath)
	if err == nil {
		assert.NotContains(t, string(got), "bad curie")
	}
}
