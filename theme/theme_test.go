package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGPL = `GIMP Palette
Name: Test Ramp
Columns: 2
#
  0   0   0	Black
255 255 255	White
bad line here
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(sampleGPL))
	require.NoError(t, err)
	assert.Equal(t, "Test Ramp", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)
}

func TestParseGPL_Empty(t *testing.T) {
	_, err := ParseGPL(strings.NewReader("GIMP Palette\nName: none\n"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{200, 100, 50}, p.Lookup(2))
	assert.Equal(t, RGB{100, 50, 25}, p.Lookup(0.5))

	single := &Palette{Colors: []RGB{{1, 2, 3}}}
	assert.Equal(t, RGB{1, 2, 3}, single.Lookup(0.5))
}

func TestLoad(t *testing.T) {
	th, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "plasma", th.Palette.Name)
	assert.Equal(t, lipgloss.Color("#0d0887"), th.BG())

	path := filepath.Join(t.TempDir(), "ramp.gpl")
	require.NoError(t, os.WriteFile(path, []byte(sampleGPL), 0644))
	th, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, lipgloss.Color("#ffffff"), th.Success())

	_, err = Load(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.Error(t, err)
}
