package ponyx

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	testSourceStorage(t, func(t *testing.T) SourceStorage {
		return NewMemoryStorage()
	})
}

func TestMemoryStorage_Timestamps(t *testing.T) {
	s := NewMemoryStorage()
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	src := &StoredSource{Name: "a", Source: "---"}
	require.NoError(t, s.Save(context.Background(), src))
	assert.Equal(t, fixed, src.CreatedAt)
	assert.Equal(t, fixed, src.UpdatedAt)
}

func TestMemoryStorage_SaveDoesNotAliasCaller(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	src := &StoredSource{Name: "a", Source: "---", Metadata: map[string]string{"k": "v"}}
	require.NoError(t, s.Save(ctx, src))
	src.Metadata["k"] = "changed"

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "v", got.Metadata["k"])
}

func TestMemoryStorage_ConcurrentSave(t *testing.T) {
	s := NewMemoryStorage()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Save(ctx, &StoredSource{Name: "shared", Source: "---"})
		}()
	}
	wg.Wait()

	versions, err := s.ListVersions(ctx, "shared")
	require.NoError(t, err)
	require.Len(t, versions, 20)
	assert.Equal(t, 20, versions[0])
	assert.Equal(t, 1, versions[19])
}
