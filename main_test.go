package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-vjgrid/snapshot"
)

func TestWriteRecords(t *testing.T) {
	color.NoColor = true
	records := []snapshot.Record{
		{ID: "a", Name: "Warm", EffectType: "DoF", SavedAt: "2026-03-01T21:04:05Z"},
		{ID: "b", Name: "Melt", EffectType: "PixelSort", SavedAt: "2026-03-01T21:05:00Z"},
	}

	var buf bytes.Buffer
	require.NoError(t, writeRecords(&buf, records, ""))
	assert.Contains(t, buf.String(), "Warm")
	assert.Contains(t, buf.String(), "Melt")
	assert.Contains(t, buf.String(), "2 snapshot(s)")

	buf.Reset()
	require.NoError(t, writeRecords(&buf, records, "pixelsort"))
	assert.NotContains(t, buf.String(), "Warm")
	assert.Contains(t, buf.String(), "1 snapshot(s)")
}

func TestReadRecords(t *testing.T) {
	backend := snapshot.NewFileBackend(filepath.Join(t.TempDir(), "vj_presets.json"))

	records, skipped, err := readRecords(context.Background(), backend)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Empty(t, skipped)

	data, err := snapshot.Encode([]snapshot.Record{{ID: "x", Name: "Look", EffectType: "DoF", Payload: "{}"}})
	require.NoError(t, err)
	require.NoError(t, backend.Write(context.Background(), data))

	records, _, err = readRecords(context.Background(), backend)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Look", records[0].Name)
}

func TestPortLine(t *testing.T) {
	color.NoColor = true
	assert.Equal(t, "  * Midi Fighter 64", portLine("Midi Fighter 64", ""))
	assert.Equal(t, "    IAC Bus 1", portLine("IAC Bus 1", ""))
}

func TestFprintError(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	err := fprintError(&buf, "Broken", "details", []string{"try this"})
	assert.EqualError(t, err, "Broken")
	assert.Equal(t, "Broken\n\ndetails\n\n  - try this\n", buf.String())
}

func TestApplyEnv_ReadsDotEnvAfterStartup(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "show.yml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("rig:\n  tick_hz: 30\n"), 0644))
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("VJGRID_CONFIG="+cfgFile+"\nVJGRID_DEBUG=false\n"), 0644))

	// registered for restore, then cleared so the file supplies the values
	t.Setenv("VJGRID_CONFIG", "")
	t.Setenv("VJGRID_DEBUG", "")
	require.NoError(t, os.Unsetenv("VJGRID_CONFIG"))
	require.NoError(t, os.Unsetenv("VJGRID_DEBUG"))

	configPath, debugFlag = "", true
	t.Cleanup(func() { configPath, debugFlag = "", false })

	require.NoError(t, godotenv.Load(envFile))
	applyEnv(rootCmd)

	assert.Equal(t, cfgFile, configPath)
	assert.False(t, debugFlag)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Rig.TickHz)
}

func TestApplyEnv_FlagWins(t *testing.T) {
	t.Setenv("VJGRID_CONFIG", "/from/env.yml")

	cmd := &cobra.Command{Use: "x"}
	var path string
	cmd.Flags().StringVar(&path, "config", "", "")
	require.NoError(t, cmd.Flags().Set("config", "/from/flag.yml"))

	configPath = "/from/flag.yml"
	t.Cleanup(func() { configPath = "" })

	applyEnv(cmd)
	assert.Equal(t, "/from/flag.yml", configPath)
}
