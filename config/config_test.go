package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := `rig:
  tick_hz: 120
effects:
  pixelsort_duration: 500ms
snapshots:
  backend: sqlite
  resume_cursor: true
slots:
  - name: Logo
    momentary: true
    duration: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Rig.TickHz)
	assert.Equal(t, 256, cfg.Rig.QueueSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Effects.PixelSortDuration)
	assert.Equal(t, 300*time.Millisecond, cfg.Effects.DoFDuration)
	assert.Equal(t, "sqlite", cfg.Snapshots.Backend)
	assert.True(t, cfg.Snapshots.ResumeCursor)
	require.Len(t, cfg.Slots, 1)
	assert.True(t, cfg.Slots[0].Momentary)
	assert.Equal(t, time.Second, cfg.Slots[0].Duration)
	assert.Equal(t, "midi fighter 64", cfg.Controller.PortMatch)
	assert.Equal(t, time.Second/120, cfg.TickInterval())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("rig: [unclosed"), 0644))

	cfg, err := Load(path)
	assert.Nil(t, cfg)
	assert.ErrorContains(t, err, "failed to parse YAML")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rig.TickHz = 0
	assert.ErrorContains(t, cfg.Validate(), "tick_hz")

	cfg = DefaultConfig()
	cfg.Snapshots.Backend = "redis"
	assert.ErrorContains(t, cfg.Validate(), "redis_addr")
	cfg.Snapshots.RedisAddr = "localhost:6379"
	assert.NoError(t, cfg.Validate())

	cfg.Snapshots.Backend = "s3"
	assert.ErrorContains(t, cfg.Validate(), "unknown")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yml")
	cfg := DefaultConfig()
	cfg.Effects.ChromaticDuration = 2 * time.Second
	cfg.Metrics.Addr = ":9464"

	require.NoError(t, cfg.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEffectOptions(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 300*time.Millisecond, cfg.EffectOptions("DoF").Duration)
	assert.Equal(t, 250*time.Millisecond, cfg.EffectOptions("Chromatic").Duration)
}

func TestEffectOptions_Seeded(t *testing.T) {
	cfg := DefaultConfig()
	assert.Nil(t, cfg.EffectOptions("DoF").Rand)

	cfg.Effects.Seed = 42
	a := cfg.EffectOptions("DoF").Rand
	b := cfg.EffectOptions("DoF").Rand
	require.NotNil(t, a)
	assert.Equal(t, a.Uint64(), b.Uint64())
}

func TestBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Snapshots.Backend = "redis"
	cfg.Snapshots.RedisAddr = "localhost:6379"
	cfg.Snapshots.RedisDB = 2

	b := cfg.Backend()
	assert.Equal(t, "redis", b.Kind)
	assert.Equal(t, "localhost:6379", b.RedisAddr)
	assert.Equal(t, 2, b.RedisDB)
	assert.Equal(t, "vj_presets", b.Key)
}
