package ponyx

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FilesystemStorage stores sources as plain .pony files, one per version,
// with per-name metadata in meta.json.
//
// Directory structure:
//
//	<root>/
//	  <source-name>/
//	    v1.pony
//	    v2.pony
//	    meta.json  # version number -> id, timestamps, tags, metadata
type FilesystemStorage struct {
	mu     sync.RWMutex
	root   string
	closed bool
	logger *zap.Logger
}

// fsMeta is the content of meta.json
type fsMeta struct {
	Versions map[int]fsVersionMeta `json:"versions"`
}

type fsVersionMeta struct {
	ID        StoredSourceID    `json:"id"`
	Ext       string            `json:"ext,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	CreatedBy string            `json:"created_by,omitempty"`
	Tags      []string          `json:"tags,omitempty"`
}

// FilesystemStorageDriver is the driver for creating FilesystemStorage instances.
type FilesystemStorageDriver struct{}

func init() {
	RegisterStorageDriver(DriverFilesystem, &FilesystemStorageDriver{})
}

// Open creates a FilesystemStorage rooted at the connection string.
func (d *FilesystemStorageDriver) Open(connectionString string) (SourceStorage, error) {
	return NewFilesystemStorage(connectionString, nil)
}

// NewFilesystemStorage creates a filesystem storage. The root directory is
// created if it doesn't exist.
func NewFilesystemStorage(root string, logger *zap.Logger) (*FilesystemStorage, error) {
	if root == "" {
		return nil, &StorageError{Message: ErrMsgInvalidStoredName}
	}
	if err := os.MkdirAll(root, fsDirPerm); err != nil {
		return nil, newStorageIOError(ErrMsgStorageIO, root, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilesystemStorage{root: root, logger: logger}, nil
}

// Root returns the storage directory
func (s *FilesystemStorage) Root() string {
	return s.root
}

// Get retrieves the latest version of a source by name.
func (s *FilesystemStorage) Get(ctx context.Context, name string) (*StoredSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateSourceName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	versions, err := s.versions(name)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, NewSourceNotFoundError(name)
	}
	return s.load(name, versions[0])
}

// GetVersion retrieves a specific version of a source.
func (s *FilesystemStorage) GetVersion(ctx context.Context, name string, version int) (*StoredSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateSourceName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	return s.load(name, version)
}

// Save writes the source as the next version of its name.
func (s *FilesystemStorage) Save(ctx context.Context, src *StoredSource) error {
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

	dir := filepath.Join(s.root, src.Name)
	if err := os.MkdirAll(dir, fsDirPerm); err != nil {
		return newStorageIOError(ErrMsgStorageIO, src.Name, err)
	}
	versions, err := s.versions(src.Name)
	if err != nil {
		return err
	}
	next := 1
	if len(versions) > 0 {
		next = versions[0] + 1
	}

	meta, err := s.readMeta(src.Name)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	entry := fsVersionMeta{
		ID:        generateStoredSourceID(),
		Ext:       src.Ext,
		Metadata:  copyStringMap(src.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: src.CreatedBy,
		Tags:      copyStringSlice(src.Tags),
	}
	meta.Versions[next] = entry

	if err := os.WriteFile(s.versionPath(src.Name, next), []byte(src.Source), fsFilePerm); err != nil {
		return newStorageIOError(ErrMsgStorageIO, src.Name, err)
	}
	if err := s.writeMeta(src.Name, meta); err != nil {
		return err
	}

	src.ID = entry.ID
	src.Version = next
	src.CreatedAt = now
	src.UpdatedAt = now

	s.logger.Debug(LogMsgStorageSave,
		zap.String(LogFieldName, src.Name),
		zap.Int(LogFieldVersion, next),
		zap.String(LogFieldDriver, DriverFilesystem))
	return nil
}

// Delete removes the source directory with all versions.
func (s *FilesystemStorage) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateSourceName(name); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return NewStorageClosedError()
	}
	dir := filepath.Join(s.root, name)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return NewSourceNotFoundError(name)
	}
	if err := os.RemoveAll(dir); err != nil {
		return newStorageIOError(ErrMsgStorageIO, name, err)
	}
	s.logger.Debug(LogMsgStorageDelete,
		zap.String(LogFieldName, name),
		zap.String(LogFieldDriver, DriverFilesystem))
	return nil
}

// List returns sources matching the query. Unreadable entries are skipped
// with a warning.
func (s *FilesystemStorage) List(ctx context.Context, query *SourceQuery) ([]*StoredSource, error) {
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

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, newStorageIOError(ErrMsgStorageIO, s.root, err)
	}

	var results []*StoredSource
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		versions, err := s.versions(name)
		if err != nil || len(versions) == 0 {
			continue
		}
		if !query.IncludeAllVersions {
			versions = versions[:1]
		}
		for _, v := range versions {
			src, err := s.load(name, v)
			if err != nil {
				s.logger.Warn(err.Error(), zap.String(LogFieldName, name), zap.Int(LogFieldVersion, v))
				continue
			}
			if matchesSourceQuery(src, query) {
				results = append(results, src)
			}
		}
	}
	return sortAndPage(results, query), nil
}

// Exists checks if a source with the given name has any version.
func (s *FilesystemStorage) Exists(ctx context.Context, name string) (bool, error) {
	versions, err := s.ListVersions(ctx, name)
	if err != nil {
		return false, err
	}
	return len(versions) > 0, nil
}

// ListVersions returns all version numbers of a source, newest first.
func (s *FilesystemStorage) ListVersions(ctx context.Context, name string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateSourceName(name); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, NewStorageClosedError()
	}
	return s.versions(name)
}

// Close marks the storage as closed.
func (s *FilesystemStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *FilesystemStorage) versionPath(name string, version int) string {
	return filepath.Join(s.root, name, fsVersionPrefix+strconv.Itoa(version)+fsSourceExt)
}

// versions lists version numbers from v<N>.pony file names (no locking).
func (s *FilesystemStorage) versions(name string) ([]int, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []int{}, nil
		}
		return nil, newStorageIOError(ErrMsgStorageIO, name, err)
	}

	versions := []int{}
	for _, entry := range entries {
		file := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(file, fsVersionPrefix) || !strings.HasSuffix(file, fsSourceExt) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(file, fsVersionPrefix), fsSourceExt))
		if err == nil && n > 0 {
			versions = append(versions, n)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(versions)))
	return versions, nil
}

// load reads one version and its metadata (no locking). A version missing
// from meta.json is still returned, with zero metadata.
func (s *FilesystemStorage) load(name string, version int) (*StoredSource, error) {
	data, err := os.ReadFile(s.versionPath(name, version))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStorageVersionNotFoundError(name, version)
		}
		return nil, newStorageIOError(ErrMsgStorageIO, name, err)
	}
	meta, err := s.readMeta(name)
	if err != nil {
		return nil, err
	}
	entry := meta.Versions[version]
	return &StoredSource{
		ID:        entry.ID,
		Name:      name,
		Source:    string(data),
		Version:   version,
		Ext:       entry.Ext,
		Metadata:  entry.Metadata,
		CreatedAt: entry.CreatedAt,
		UpdatedAt: entry.UpdatedAt,
		CreatedBy: entry.CreatedBy,
		Tags:      entry.Tags,
	}, nil
}

func (s *FilesystemStorage) readMeta(name string) (*fsMeta, error) {
	meta := &fsMeta{Versions: map[int]fsVersionMeta{}}
	data, err := os.ReadFile(filepath.Join(s.root, name, fsMetaFile))
	if errors.Is(err, fs.ErrNotExist) {
		return meta, nil
	}
	if err != nil {
		return nil, newStorageIOError(ErrMsgStorageIO, name, err)
	}
	if err := json.Unmarshal(data, meta); err != nil {
		return nil, newStorageIOError(ErrMsgStorageCorrupt, name, err)
	}
	if meta.Versions == nil {
		meta.Versions = map[int]fsVersionMeta{}
	}
	return meta, nil
}

func (s *FilesystemStorage) writeMeta(name string, meta *fsMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return newStorageIOError(ErrMsgStorageCorrupt, name, err)
	}
	if err := os.WriteFile(filepath.Join(s.root, name, fsMetaFile), data, fsFilePerm); err != nil {
		return newStorageIOError(ErrMsgStorageIO, name, err)
	}
	return nil
}
