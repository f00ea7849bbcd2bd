package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	b := Defaults()

	p, ok := b.Lookup("  PASTA ")
	require.True(t, ok)
	assert.Equal(t, "Pasta", p.Name)
	assert.Equal(t, 600, p.DurationSeconds())

	p, ok = b.Lookup("soft-boiled eggs")
	require.True(t, ok)
	assert.Equal(t, 390, p.DurationSeconds())

	_, ok = b.Lookup("lasagna")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	data := []byte(`
presets:
  - name: Pizza
    minutes: 12
  - name: Espresso
    seconds: 25
  - name: pizza
    minutes: 9
`)

	b, err := Parse(data)
	require.NoError(t, err)

	list := b.List()
	require.Len(t, list, 2)
	assert.Equal(t, "pizza", list[0].Name)
	assert.Equal(t, 540, list[0].DurationSeconds())
	assert.Equal(t, 25, list[1].DurationSeconds())
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"NoName":     "presets:\n  - minutes: 3\n",
		"NoDuration": "presets:\n  - name: Air\n",
		"Negative":   "presets:\n  - name: Back\n    minutes: 2\n    seconds: -30\n",
		"Overflow":   "presets:\n  - name: Forever\n    minutes: 307445734561825861\n",
		"Wraps":      "presets:\n  - name: Almost\n    minutes: 153722867280912930\n    seconds: 59\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.True(t, errors.Is(err, ErrInvalidPreset), "err = %v", err)
		})
	}

	_, err := Parse([]byte("presets: [unterminated"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte("presets:\n  - name: Oats\n    minutes: 5\n"), 0o600))

	b, err := Load(path)
	require.NoError(t, err)
	p, ok := b.Lookup("oats")
	require.True(t, ok)
	assert.Equal(t, 300, p.DurationSeconds())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestListIsCopy(t *testing.T) {
	b := Defaults()
	list := b.List()
	list[0].Minutes = 99

	p, _ := b.Lookup(list[0].Name)
	assert.Equal(t, 10, p.Minutes)
}
