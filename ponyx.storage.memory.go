package ponyx

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory SourceStorage, intended for tests and
// tools. All data is lost when the process terminates.
type MemoryStorage struct {
	mu      sync.RWMutex
	sources map[string][]*StoredSource // name -> versions, newest first
	closed  bool
	now     func() time.Time
}

// MemoryStorageDriver is the driver for creating MemoryStorage instances.
type MemoryStorageDriver struct{}

func init() {
	RegisterStorageDriver(DriverMemory, &MemoryStorageDriver{})
}

// Open creates a new MemoryStorage. The connection string is ignored.
func (d *MemoryStorageDriver) Open(string) (SourceStorage, error) {
	return NewMemoryStorage(), nil
}

// NewMemoryStorage creates a new in-memory source storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sources: make(map[string][]*StoredSource),
		now:     time.Now,
	}
}

// Get retrieves the latest version of a source by name.
func (s *MemoryStorage) Get(ctx context.Context, name string) (*StoredSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	versions := s.sources[name]
	if len(versions) == 0 {
		return nil, NewSourceNotFoundError(name)
	}
	return copyStoredSource(versions[0]), nil
}

// GetVersion retrieves a specific version of a source.
func (s *MemoryStorage) GetVersion(ctx context.Context, name string, version int) (*StoredSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	for _, src := range s.sources[name] {
		if src.Version == version {
			return copyStoredSource(src), nil
		}
	}
	return nil, NewStorageVersionNotFoundError(name, version)
}

// Save stores a source as the next version of its name.
func (s *MemoryStorage) Save(ctx context.Context, src *StoredSource) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSourceName(src.Name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}

	versions := s.sources[src.Name]
	next := 1
	if len(versions) > 0 {
		next = versions[0].Version + 1
	}

	now := s.now()
	stored := copyStoredSource(src)
	stored.ID = generateStoredSourceID()
	stored.Version = next
	stored.CreatedAt = now
	stored.UpdatedAt = now

	src.ID = stored.ID
	src.Version = stored.Version
	src.CreatedAt = now
	src.UpdatedAt = now

	s.sources[src.Name] = append([]*StoredSource{stored}, versions...)
	return nil
}

// Delete removes all versions of a source.
func (s *MemoryStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	if _, ok := s.sources[name]; !ok {
		return NewSourceNotFoundError(name)
	}
	delete(s.sources, name)
	return nil
}

// List returns sources matching the query.
func (s *MemoryStorage) List(ctx context.Context, query *SourceQuery) ([]*StoredSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	if query == nil {
		query = &SourceQuery{}
	}

	var results []*StoredSource
	for _, versions := range s.sources {
		if !query.IncludeAllVersions {
			versions = versions[:1]
		}
		for _, src := range versions {
			if matchesSourceQuery(src, query) {
				results = append(results, copyStoredSource(src))
			}
		}
	}
	return sortAndPage(results, query), nil
}

// Exists checks if a source with the given name exists.
func (s *MemoryStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false, NewStorageClosedError()
	}
	return len(s.sources[name]) > 0, nil
}

// ListVersions returns all version numbers of a source, newest first.
func (s *MemoryStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	versions := s.sources[name]
	out := make([]int, len(versions))
	for i, src := range versions {
		out[i] = src.Version
	}
	return out, nil
}

// Close marks the storage as closed.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.sources = nil
	return nil
}
