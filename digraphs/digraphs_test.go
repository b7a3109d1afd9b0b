package digraphs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	d, err := New(map[string]float64{"th": 3, "ht": 1, "he": 2, "ee": 5, "ab": 7})
	require.NoError(t, err)

	assert.Equal(t, 4.0, d.Score([]rune("th")))
	assert.Equal(t, 6.0, d.Score([]rune("the")))
	assert.Zero(t, d.Score([]rune("e")))
	assert.Zero(t, d.Score(nil))
	assert.Equal(t, 3.0, d.Frequency('t', 'h'))
	assert.Equal(t, 5, d.Len())
}

func TestNewRejectsInvalidKeys(t *testing.T) {
	_, err := New(map[string]float64{"abc": 1})
	require.ErrorContains(t, err, "exactly two letters")

	_, err = New(map[string]float64{"ab": -1})
	require.ErrorContains(t, err, "negative")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "digraphs.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"th": 1.5, "he": 2}`), 0o644))
	d, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 3.5, d.Score([]rune("the")))

	yamlPath := filepath.Join(dir, "digraphs.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("th: 1.5\nhe: 2\n"), 0o644))
	d, err = Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2.0, d.Frequency('h', 'e'))

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}
