package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedHistory(t *testing.T, dir string, stamps ...time.Time) []string {
	t.Helper()
	names := make([]string, len(stamps))
	for i, ts := range stamps {
		names[i] = FileName(ts, "sha256")
		require.NoError(t, os.WriteFile(filepath.Join(dir, names[i]), []byte("\"RelativePath\",\"FileName\",\"Algorithm\",\"Hash\"\n"), 0o644))
	}
	return names
}

func TestNewHistory(t *testing.T) {
	_, err := NewHistory("")
	assert.Error(t, err)

	h, err := NewHistory(t.TempDir())
	require.NoError(t, err)
	assert.NotEmpty(t, h.Dir())
}

func TestHistory_List(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	names := seedHistory(t, dir, base, base.Add(2*time.Hour), base.Add(time.Hour))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "20240601T120000_sha256_dir.csv"), 0o755))

	h, err := NewHistory(dir)
	require.NoError(t, err)

	infos, err := h.List(0)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, names[1], infos[0].Name)
	assert.Equal(t, names[2], infos[1].Name)
	assert.Equal(t, names[0], infos[2].Name)
	assert.Equal(t, "sha256", infos[0].Algorithm)
	assert.Positive(t, infos[0].Size)

	limited, err := h.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestHistory_ListMissingDir(t *testing.T) {
	h, err := NewHistory(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)

	infos, err := h.List(0)
	require.NoError(t, err)
	assert.NotNil(t, infos)
	assert.Empty(t, infos)
}

func TestHistory_Find(t *testing.T) {
	dir := t.TempDir()
	names := seedHistory(t, dir,
		time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC),
	)

	h, err := NewHistory(dir)
	require.NoError(t, err)

	info, err := h.Find(names[0])
	require.NoError(t, err)
	assert.Equal(t, names[0], info.Name)

	info, err = h.Find(filepath.Join(dir, names[1]))
	require.NoError(t, err)
	assert.Equal(t, names[1], info.Name)

	info, err = h.Find("20240602")
	require.NoError(t, err)
	assert.Equal(t, names[1], info.Name)

	_, err = h.Find("2024060")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = h.Find("1999")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.Find("")
	assert.Error(t, err)
}

func TestHistory_Cleanup(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	names := seedHistory(t, dir,
		now.AddDate(0, 0, -40),
		now.AddDate(0, 0, -31),
		now.AddDate(0, 0, -5),
	)

	h, err := NewHistory(dir)
	require.NoError(t, err)

	removed, err := h.Cleanup(30, now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	infos, err := h.List(0)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, names[2], infos[0].Name)
}
