package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCmdEndToEndWritesManifestRoundLogAndAggregates(t *testing.T) {
	dir := t.TempDir()
	configPath := writeValidateFixture(t, dir)
	outputDir := filepath.Join(dir, "out")

	cmd := &RunCmd{Config: configPath}
	require.NoError(t, cmd.Run())

	for _, name := range []string{"run_manifest.json", "rounds.jsonl", "aggregates.parquet"} {
		info, err := os.Stat(filepath.Join(outputDir, name))
		require.NoError(t, err, "expected %s to exist", name)
		assert.Positive(t, info.Size())
	}
}

func TestAggregateCmdRecomputesFromExistingRoundLog(t *testing.T) {
	dir := t.TempDir()
	configPath := writeValidateFixture(t, dir)
	outputDir := filepath.Join(dir, "out")

	require.NoError(t, (&RunCmd{Config: configPath}).Run())
	require.NoError(t, os.Remove(filepath.Join(outputDir, "aggregates.parquet")))

	aggCmd := &AggregateCmd{OutputDir: outputDir, CollapseK: 2, CollapseThreshold: 0.2}
	require.NoError(t, aggCmd.Run())

	info, err := os.Stat(filepath.Join(outputDir, "aggregates.parquet"))
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
