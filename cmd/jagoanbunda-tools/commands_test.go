package main

import (
	"bytes"
	"testing"

	"github.com/jagoanbunda/jagoanbunda-data/internal/service"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"migrate", "seed", "sync-images"} {
		assert.True(t, names[want], want)
	}
	require.NotNil(t, syncImagesCmd.Flags().Lookup("dry-run"))
	assert.Error(t, syncImagesCmd.Args(syncImagesCmd, []string{"a", "b"}))
	assert.Error(t, migrateCmd.Args(migrateCmd, []string{"x"}))
}

func TestPrintSyncReport(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	printSyncReport(cmd, &service.SyncReport{
		Results: []service.SyncResult{
			{File: "12-bulan_komunikasi_1.png", Outcome: service.SyncSynced},
			{File: "12-bulan_motorik-halus_9.png", Outcome: service.SyncNotFound, Detail: "no question"},
		},
		Synced:   1,
		NotFound: 1,
	}, true)

	out := buf.String()
	assert.Contains(t, out, "12-bulan_komunikasi_1.png")
	assert.Contains(t, out, "not_found (no question)")
	assert.Contains(t, out, "dry run, nothing written")
	assert.Contains(t, out, "synced: 1  already had image: 0  not found: 1  errors: 0")
}
