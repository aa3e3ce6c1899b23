package ponyx

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilesystemStorage(t *testing.T) {
	testSourceStorage(t, func(t *testing.T) SourceStorage {
		s, err := NewFilesystemStorage(t.TempDir(), nil)
		require.NoError(t, err)
		return s
	})
}

func TestNewFilesystemStorage(t *testing.T) {
	t.Run("creates missing root", func(t *testing.T) {
		root := filepath.Join(t.TempDir(), "nested", "sources")
		s, err := NewFilesystemStorage(root, nil)
		require.NoError(t, err)
		assert.Equal(t, root, s.Root())
		assert.DirExists(t, root)
	})

	t.Run("empty root", func(t *testing.T) {
		_, err := NewFilesystemStorage("", nil)
		assert.Error(t, err)
	})
}

func TestFilesystemStorage_Layout(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFilesystemStorage(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, &StoredSource{Name: "inbox", Source: "---\n<p/>"}))
	require.NoError(t, s.Save(ctx, &StoredSource{Name: "inbox", Source: "---\n<b/>"}))

	data, err := os.ReadFile(filepath.Join(dir, "inbox", "v2.pony"))
	require.NoError(t, err)
	assert.Equal(t, "---\n<b/>", string(data))
	assert.FileExists(t, filepath.Join(dir, "inbox", "v1.pony"))
	assert.FileExists(t, filepath.Join(dir, "inbox", "meta.json"))
}

func TestFilesystemStorage_Persistence(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFilesystemStorage(dir, nil)
	require.NoError(t, err)
	src := &StoredSource{Name: "kept", Source: "---", Tags: []string{"t"}}
	require.NoError(t, first.Save(ctx, src))
	require.NoError(t, first.Close())

	second, err := NewFilesystemStorage(dir, nil)
	require.NoError(t, err)
	got, err := second.Get(ctx, "kept")
	require.NoError(t, err)
	assert.Equal(t, src.ID, got.ID)
	assert.Equal(t, []string{"t"}, got.Tags)
	assert.True(t, src.CreatedAt.Equal(got.CreatedAt))
}

func TestFilesystemStorage_HandWrittenFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "manual"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manual", "v1.pony"), []byte("---\n<p/>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "manual", "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("ignored"), 0o644))

	s, err := NewFilesystemStorage(dir, nil)
	require.NoError(t, err)
	ctx := context.Background()

	got, err := s.Get(ctx, "manual")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Empty(t, got.ID)

	all, err := s.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "manual", all[0].Name)

	src := &StoredSource{Name: "manual", Source: "---\n<b/>"}
	require.NoError(t, s.Save(ctx, src))
	assert.Equal(t, 2, src.Version)
}

func TestFilesystemStorage_CorruptMeta(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "broken"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken", "v1.pony"), []byte("---"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken", "meta.json"), []byte("{"), 0o644))

	s, err := NewFilesystemStorage(dir, nil)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "broken")
	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, ErrMsgStorageCorrupt, storageErr.Message)

	all, err := s.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestFilesystemStorage_EngineIntegration(t *testing.T) {
	s, err := NewFilesystemStorage(t.TempDir(), nil)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, &StoredSource{Name: "page", Source: "---\n<main>{title}</main>"}))

	engine := MustNew(WithStorage(s))
	result, err := engine.ParseStored(ctx, "page")
	require.NoError(t, err)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, SourceID("page@v1"), result.Source.ID)
	assert.Equal(t, "main", singleNode[*Tag](t, result.Root).Name.String())
}
