package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRunFlags pins the package flag variables for a pipeline test and
// restores them afterwards. The approx backend keeps tests offline.
func setRunFlags(t *testing.T, jsonPath, csvPath string) {
	t.Helper()
	origTokenizer, origModel := tokenizerType, modelHint
	origJSON, origCSV, origPDF, origClip := jsonOut, csvOut, pdfOut, copyToClipboard
	tokenizerType, modelHint = "approx", "gpt-4o"
	jsonOut, csvOut, pdfOut, copyToClipboard = jsonPath, csvPath, "", false
	t.Cleanup(func() {
		tokenizerType, modelHint = origTokenizer, origModel
		jsonOut, csvOut, pdfOut, copyToClipboard = origJSON, origCSV, origPDF, origClip
	})
}

func TestRunApproxPipeline(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "a.md", "hello world")

	jsonPath := filepath.Join(t.TempDir(), "out.json")
	setRunFlags(t, jsonPath, "")

	require.NoError(t, run(dir, scanCfg(".md")))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var r Report
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, 3, r.TotalTokens)
	assert.Equal(t, MethodApprox, r.Method)
	require.Len(t, r.Files, 1)
	assert.Equal(t, 3, r.Files[0].Tokens)
	assert.Equal(t, MethodApprox, r.Files[0].Method)
	assert.Equal(t, 11, r.Files[0].Chars)
}

func TestRunMissingRoot(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "out.json")
	setRunFlags(t, jsonPath, "")

	require.Error(t, run("/does/not/exist", scanCfg()))

	// Nothing ran, so no report file either.
	_, err := os.Stat(jsonPath)
	assert.True(t, os.IsNotExist(err))
}

func TestRunSkipsInfrastructureDirs(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "readme.md", "# readme")
	writeFixture(t, dir, filepath.Join(".git", "config"), "[core]")

	jsonPath := filepath.Join(t.TempDir(), "out.json")
	setRunFlags(t, jsonPath, "")

	require.NoError(t, run(dir, scanCfg()))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var r Report
	require.NoError(t, json.Unmarshal(data, &r))
	require.Len(t, r.Files, 1)
	assert.Equal(t, "readme.md", filepath.Base(r.Files[0].Path))
}

func TestRunStableTieOrder(t *testing.T) {
	dir := t.TempDir()
	// Identical content means identical token counts; the report keeps
	// discovery (alphabetical) order for the tie.
	writeFixture(t, dir, "b.md", "same words here")
	writeFixture(t, dir, "a.md", "same words here")

	jsonPath := filepath.Join(t.TempDir(), "out.json")
	setRunFlags(t, jsonPath, "")

	require.NoError(t, run(dir, scanCfg(".md")))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var r Report
	require.NoError(t, json.Unmarshal(data, &r))
	require.Len(t, r.Files, 2)
	assert.Equal(t, "a.md", filepath.Base(r.Files[0].Path))
	assert.Equal(t, "b.md", filepath.Base(r.Files[1].Path))
	assert.Equal(t, r.Files[0].Tokens, r.Files[1].Tokens)
	assert.Equal(t, r.Files[0].Tokens+r.Files[1].Tokens, r.TotalTokens)
}

func TestRunEmptyFileRecord(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "empty.md", "")

	jsonPath := filepath.Join(t.TempDir(), "out.json")
	setRunFlags(t, jsonPath, "")

	require.NoError(t, run(dir, scanCfg(".md")))

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var r Report
	require.NoError(t, json.Unmarshal(data, &r))
	require.Len(t, r.Files, 1)
	assert.Equal(t, 0, r.Files[0].Tokens)
	assert.Equal(t, 0, r.TotalTokens)
}

func TestIsWebURL(t *testing.T) {
	assert.True(t, isWebURL("https://example.com/docs"))
	assert.True(t, isWebURL("http://example.com"))
	assert.False(t, isWebURL("./local/path"))
	assert.False(t, isWebURL("git@github.com:user/repo.git"))
}

func TestIsGitURL(t *testing.T) {
	assert.True(t, isGitURL("https://github.com/user/repo.git"))
	assert.True(t, isGitURL("git@github.com:user/repo.git"))
	assert.False(t, isGitURL("https://github.com/user/repo"))
	assert.False(t, isGitURL("./local/path"))
}
