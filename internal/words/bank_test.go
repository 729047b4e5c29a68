package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scythe504/kaliyo-backend/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBank(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)
	assert.Equal(t, 44, b.Len())

	ka, ok := b.Lookup("ಕ")
	require.True(t, ok)
	assert.Equal(t, "ka", ka.Transliteration)
	assert.ElementsMatch(t, []string{"ಕ", "ka"}, ka.Accepted)

	tta, ok := b.Lookup("ಟ")
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"ಟ", "ṭa", "ta"}, tta.Accepted)
}

func TestRandomUsesPicker(t *testing.T) {
	b, err := New([]internal.WordEntry{
		{Display: "ಅ", Transliteration: "a"},
		{Display: "ಆ", Transliteration: "aa"},
	})
	require.NoError(t, err)

	b.intN = func(n int) int { return n - 1 }
	assert.Equal(t, "ಆ", b.Random().Display)
	b.intN = func(int) int { return 0 }
	assert.Equal(t, "ಅ", b.Random().Display)
}

func TestRandomStaysInRange(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)
	for range 200 {
		w := b.Random()
		_, ok := b.Lookup(w.Display)
		assert.True(t, ok)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(path, []byte("ಮ,ma\nಯ,ya\n"), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestNewRejectsEmpty(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
