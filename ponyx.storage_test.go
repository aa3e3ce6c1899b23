package ponyx

import (
	"context"
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSourceStorage runs the behaviour every SourceStorage shares
func testSourceStorage(t *testing.T, open func(t *testing.T) SourceStorage) {
	ctx := context.Background()

	t.Run("save assigns versions", func(t *testing.T) {
		s := open(t)
		src := &StoredSource{Name: "greeting", Source: "---\n<p>hi</p>", Tags: []string{"a"}}
		require.NoError(t, s.Save(ctx, src))
		assert.Equal(t, 1, src.Version)
		assert.NotEmpty(t, src.ID)
		assert.False(t, src.CreatedAt.IsZero())

		second := &StoredSource{Name: "greeting", Source: "---\n<p>hello</p>"}
		require.NoError(t, s.Save(ctx, second))
		assert.Equal(t, 2, second.Version)
		assert.NotEqual(t, src.ID, second.ID)

		latest, err := s.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, 2, latest.Version)
		assert.Equal(t, "---\n<p>hello</p>", latest.Source)

		first, err := s.GetVersion(ctx, "greeting", 1)
		require.NoError(t, err)
		assert.Equal(t, "---\n<p>hi</p>", first.Source)
		assert.Equal(t, []string{"a"}, first.Tags)
		assert.Equal(t, src.ID, first.ID)

		versions, err := s.ListVersions(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, []int{2, 1}, versions)
	})

	t.Run("metadata round trip", func(t *testing.T) {
		s := open(t)
		src := &StoredSource{
			Name:      "card",
			Source:    "---\n<Card/>",
			Ext:       ExtIDScript,
			Metadata:  map[string]string{"owner": "ui"},
			CreatedBy: "alice",
			Tags:      []string{"ui", "card"},
		}
		require.NoError(t, s.Save(ctx, src))

		got, err := s.Get(ctx, "card")
		require.NoError(t, err)
		assert.Equal(t, ExtIDScript, got.Ext)
		assert.Equal(t, "ui", got.Metadata["owner"])
		assert.Equal(t, "alice", got.CreatedBy)
		assert.ElementsMatch(t, []string{"ui", "card"}, got.Tags)
		assert.Equal(t, SourceID("card@v1"), got.SourceID())
	})

	t.Run("missing sources", func(t *testing.T) {
		s := open(t)

		_, err := s.Get(ctx, "missing")
		require.Error(t, err)
		var customErr *cuserr.CustomError
		assert.True(t, errors.As(err, &customErr))

		require.NoError(t, s.Save(ctx, &StoredSource{Name: "one", Source: "---"}))
		_, err = s.GetVersion(ctx, "one", 9)
		var storageErr *StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Equal(t, ErrMsgVersionNotFound, storageErr.Message)
		assert.Equal(t, 9, storageErr.Version)

		exists, err := s.Exists(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, exists)

		versions, err := s.ListVersions(ctx, "missing")
		require.NoError(t, err)
		assert.Empty(t, versions)

		assert.Error(t, s.Delete(ctx, "missing"))
	})

	t.Run("delete", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Save(ctx, &StoredSource{Name: "gone", Source: "---"}))
		require.NoError(t, s.Save(ctx, &StoredSource{Name: "gone", Source: "---"}))

		exists, err := s.Exists(ctx, "gone")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, s.Delete(ctx, "gone"))
		exists, err = s.Exists(ctx, "gone")
		require.NoError(t, err)
		assert.False(t, exists)

		require.NoError(t, s.Save(ctx, &StoredSource{Name: "gone", Source: "---"}))
		got, err := s.Get(ctx, "gone")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Version, "versions restart after delete")
	})

	t.Run("list", func(t *testing.T) {
		s := open(t)
		for _, src := range []*StoredSource{
			{Name: "page-home", Source: "---", Tags: []string{"page"}, CreatedBy: "alice"},
			{Name: "page-about", Source: "---", Tags: []string{"page", "static"}, CreatedBy: "bob"},
			{Name: "page-about", Source: "---\n<p/>", Tags: []string{"page", "static"}, CreatedBy: "bob"},
			{Name: "widget", Source: "---", Tags: []string{"ui"}, CreatedBy: "alice"},
		} {
			require.NoError(t, s.Save(ctx, src))
		}

		all, err := s.List(ctx, nil)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "page-about", all[0].Name)
		assert.Equal(t, 2, all[0].Version)
		assert.Equal(t, "page-home", all[1].Name)
		assert.Equal(t, "widget", all[2].Name)

		tests := []struct {
			name  string
			query SourceQuery
			want  []string
		}{
			{"prefix", SourceQuery{NamePrefix: "page-"}, []string{"page-about", "page-home"}},
			{"contains", SourceQuery{NameContains: "dge"}, []string{"widget"}},
			{"tags", SourceQuery{Tags: []string{"page", "static"}}, []string{"page-about"}},
			{"created by", SourceQuery{CreatedBy: "alice"}, []string{"page-home", "widget"}},
			{"limit", SourceQuery{Limit: 2}, []string{"page-about", "page-home"}},
			{"offset", SourceQuery{Offset: 1, Limit: 1}, []string{"page-home"}},
			{"offset past end", SourceQuery{Offset: 10}, nil},
			{"all versions", SourceQuery{NamePrefix: "page-about", IncludeAllVersions: true}, []string{"page-about", "page-about"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				query := tt.query
				got, err := s.List(ctx, &query)
				require.NoError(t, err)
				names := make([]string, 0, len(got))
				for _, src := range got {
					names = append(names, src.Name)
				}
				if tt.want == nil {
					assert.Empty(t, names)
					return
				}
				assert.Equal(t, tt.want, names)
			})
		}
	})

	t.Run("invalid names", func(t *testing.T) {
		s := open(t)
		for _, name := range []string{"", "..", "a/b", `a\b`, ".hidden"} {
			err := s.Save(ctx, &StoredSource{Name: name, Source: "---"})
			var storageErr *StorageError
			require.True(t, errors.As(err, &storageErr), "name %q", name)
		}
	})

	t.Run("returned values are copies", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Save(ctx, &StoredSource{Name: "c", Source: "---", Tags: []string{"x"}}))
		got, err := s.Get(ctx, "c")
		require.NoError(t, err)
		got.Tags[0] = "changed"

		again, err := s.Get(ctx, "c")
		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, again.Tags)
	})

	t.Run("closed storage", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.Close())

		_, err := s.Get(ctx, "any")
		assert.Error(t, err)
		assert.Error(t, s.Save(ctx, &StoredSource{Name: "any", Source: "---"}))
		_, err = s.List(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		s := open(t)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := s.Save(cancelled, &StoredSource{Name: "x", Source: "---"})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

type stubStorageDriver struct{}

func (stubStorageDriver) Open(string) (SourceStorage, error) {
	return NewMemoryStorage(), nil
}

func TestRegisterStorageDriver(t *testing.T) {
	RegisterStorageDriver("test-stub", stubStorageDriver{})
	t.Cleanup(func() {
		storageDriversMu.Lock()
		delete(storageDrivers, "test-stub")
		storageDriversMu.Unlock()
	})

	s, err := OpenStorage("test-stub", "")
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)
	assert.Contains(t, ListStorageDrivers(), "test-stub")
}

func TestRegisterStorageDriver_Panics(t *testing.T) {
	assert.Panics(t, func() { RegisterStorageDriver("nil-driver", nil) })
	assert.Panics(t, func() { RegisterStorageDriver(DriverMemory, stubStorageDriver{}) })
}

func TestOpenStorage(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, err := OpenStorage(DriverMemory, "")
		require.NoError(t, err)
		assert.IsType(t, &MemoryStorage{}, s)
	})

	t.Run("filesystem", func(t *testing.T) {
		dir := t.TempDir()
		s, err := OpenStorage(DriverFilesystem, dir)
		require.NoError(t, err)
		fsStorage, ok := s.(*FilesystemStorage)
		require.True(t, ok)
		assert.Equal(t, dir, fsStorage.Root())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := OpenStorage("nope", "")
		var storageErr *StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Equal(t, ErrMsgStorageDriverNotFound, storageErr.Message)
		assert.Equal(t, "nope", storageErr.Name)
	})
}

func TestListStorageDrivers(t *testing.T) {
	drivers := ListStorageDrivers()
	assert.Contains(t, drivers, DriverMemory)
	assert.Contains(t, drivers, DriverFilesystem)
	assert.Contains(t, drivers, DriverPostgres)
	assert.IsNonDecreasing(t, drivers)
}

func TestStorageError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *StorageError
		want string
	}{
		{"message only", &StorageError{Message: "failed"}, "failed"},
		{"with name", &StorageError{Message: "failed", Name: "a"}, "failed: a"},
		{"with version", &StorageError{Message: "failed", Name: "a", Version: 2}, "failed: a v2"},
		{"with cause", &StorageError{Message: "failed", Name: "a", Cause: errors.New("disk")}, "failed: a: disk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("disk")
	err := &StorageError{Message: "failed", Cause: cause}
	assert.True(t, errors.Is(err, cause))
}

func TestStoredSource_SourceID(t *testing.T) {
	src := &StoredSource{Name: "inbox", Version: 3}
	assert.Equal(t, SourceID("inbox@v3"), src.SourceID())
}

func TestGenerateStoredSourceID(t *testing.T) {
	a := generateStoredSourceID()
	b := generateStoredSourceID()
	assert.NotEqual(t, a, b)
	assert.Contains(t, string(a), storedSourceIDPrefix)
}
