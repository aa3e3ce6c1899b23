package ponyx

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// StoredSourceID is a unique identifier for one stored source version.
type StoredSourceID string

// StoredSource is a PonyX source with metadata, kept in a storage backend.
type StoredSource struct {
	// ID is the unique identifier for this version.
	ID StoredSourceID `json:"id"`

	// Name is the source name used for lookups.
	Name string `json:"name"`

	// Source is the raw PonyX text.
	Source string `json:"source"`

	// Version is the version number (1, 2, 3, ...). Higher versions are newer.
	Version int `json:"version"`

	// Ext is the embedding id the source is written for (optional).
	Ext string `json:"ext,omitempty"`

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]string `json:"metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// CreatedBy identifies who saved this version (optional).
	CreatedBy string `json:"created_by,omitempty"`

	// Tags for categorization and querying.
	Tags []string `json:"tags,omitempty"`
}

// SourceID returns the id diagnostics for this version are reported against
func (s *StoredSource) SourceID() SourceID {
	return SourceID(fmt.Sprintf(strStoredSourceFmt, s.Name, s.Version))
}

// SourceQuery defines filters for listing stored sources.
type SourceQuery struct {
	// NamePrefix filters to names starting with this prefix.
	NamePrefix string

	// NameContains filters to names containing this substring.
	NameContains string

	// Tags filters to sources having ALL specified tags.
	Tags []string

	// CreatedBy filters by creator.
	CreatedBy string

	// Limit is the maximum number of results (0 = no limit).
	Limit int

	// Offset is the number of results to skip.
	Offset int

	// IncludeAllVersions includes all versions, not just latest.
	IncludeAllVersions bool
}

// SourceStorage is the interface for pluggable source storage backends.
// Implementations must be safe for concurrent use.
type SourceStorage interface {
	// Get retrieves the latest version of a source by name.
	Get(ctx context.Context, name string) (*StoredSource, error)

	// GetVersion retrieves a specific version of a source.
	GetVersion(ctx context.Context, name string, version int) (*StoredSource, error)

	// Save stores a source as the next version of its name. ID, Version,
	// CreatedAt and UpdatedAt are set by the storage.
	Save(ctx context.Context, src *StoredSource) error

	// Delete removes all versions of a source.
	Delete(ctx context.Context, name string) error

	// List returns sources matching the query, ordered by name then
	// version descending.
	List(ctx context.Context, query *SourceQuery) ([]*StoredSource, error)

	// Exists checks if a source with the given name exists.
	Exists(ctx context.Context, name string) (bool, error)

	// ListVersions returns all version numbers of a source, newest first.
	ListVersions(ctx context.Context, name string) ([]int, error)

	// Close releases any resources held by the storage.
	Close() error
}

// StorageDriver is a factory for creating storage instances.
// Drivers register themselves during init().
type StorageDriver interface {
	// Open creates a new storage instance. The connection string is
	// driver-specific.
	Open(connectionString string) (SourceStorage, error)
}

// Storage driver names
const (
	DriverMemory     = "memory"
	DriverFilesystem = "filesystem"
	DriverPostgres   = "postgres"
)

// Storage driver registry
var (
	storageDriversMu sync.RWMutex
	storageDrivers   = make(map[string]StorageDriver)
)

// RegisterStorageDriver registers a storage driver by name.
// Panics if the driver is nil or the name is taken.
func RegisterStorageDriver(name string, driver StorageDriver) {
	storageDriversMu.Lock()
	defer storageDriversMu.Unlock()

	if driver == nil {
		panic(ErrMsgNilStorageDriver)
	}
	if _, exists := storageDrivers[name]; exists {
		panic(ErrMsgDriverAlreadyRegistered + ": " + name)
	}
	storageDrivers[name] = driver
}

// OpenStorage opens a storage connection using the named driver.
//
// Example:
//
//	storage, err := ponyx.OpenStorage("memory", "")
//	storage, err := ponyx.OpenStorage("filesystem", "/path/to/sources")
func OpenStorage(driverName, connectionString string) (SourceStorage, error) {
	storageDriversMu.RLock()
	driver, ok := storageDrivers[driverName]
	storageDriversMu.RUnlock()

	if !ok {
		return nil, NewStorageDriverNotFoundError(driverName)
	}
	return driver.Open(connectionString)
}

// ListStorageDrivers returns the sorted names of all registered drivers.
func ListStorageDrivers() []string {
	storageDriversMu.RLock()
	defer storageDriversMu.RUnlock()

	names := make([]string, 0, len(storageDrivers))
	for name := range storageDrivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Storage error message constants
const (
	ErrMsgNilStorageDriver        = "storage driver is nil"
	ErrMsgDriverAlreadyRegistered = "storage driver already registered"
	ErrMsgStorageDriverNotFound   = "storage driver not found"
	ErrMsgStorageClosed           = "storage is closed"
	ErrMsgVersionNotFound         = "source version not found"
	ErrMsgInvalidStoredName       = "invalid source name"
	ErrMsgStorageIO               = "storage I/O failed"
	ErrMsgStorageQuery            = "storage query failed"
	ErrMsgStorageMigration        = "storage migration failed"
	ErrMsgStorageCorrupt          = "stored metadata is corrupt"
)

// StorageError represents a storage-related error.
type StorageError struct {
	Message string
	Name    string
	Version int
	Cause   error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	msg := e.Message
	if e.Name != "" && e.Version > 0 {
		msg += ": " + e.Name + " v" + strconv.Itoa(e.Version)
	} else if e.Name != "" {
		msg += ": " + e.Name
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageDriverNotFoundError creates an error for a missing driver.
func NewStorageDriverNotFoundError(name string) error {
	return &StorageError{Message: ErrMsgStorageDriverNotFound, Name: name}
}

// NewStorageVersionNotFoundError creates an error for a missing version.
func NewStorageVersionNotFoundError(name string, version int) error {
	return &StorageError{Message: ErrMsgVersionNotFound, Name: name, Version: version}
}

// NewStorageClosedError creates an error for operations on closed storage.
func NewStorageClosedError() error {
	return &StorageError{Message: ErrMsgStorageClosed}
}

// newStorageIOError wraps a backend failure
func newStorageIOError(msg, name string, cause error) error {
	return &StorageError{Message: msg, Name: name, Cause: cause}
}

// validateSourceName rejects names that cannot be stored
func validateSourceName(name string) error {
	if name == "" {
		return &StorageError{Message: ErrMsgInvalidSourceName}
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return &StorageError{Message: ErrMsgInvalidStoredName, Name: name}
	}
	return nil
}

// matchesSourceQuery checks a stored source against the query filters.
func matchesSourceQuery(src *StoredSource, query *SourceQuery) bool {
	if query.NamePrefix != "" && !strings.HasPrefix(src.Name, query.NamePrefix) {
		return false
	}
	if query.NameContains != "" && !strings.Contains(src.Name, query.NameContains) {
		return false
	}
	if query.CreatedBy != "" && src.CreatedBy != query.CreatedBy {
		return false
	}
	for _, tag := range query.Tags {
		if !containsString(src.Tags, tag) {
			return false
		}
	}
	return true
}

// sortAndPage orders results by name then version descending and applies
// offset and limit.
func sortAndPage(results []*StoredSource, query *SourceQuery) []*StoredSource {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Name != results[j].Name {
			return results[i].Name < results[j].Name
		}
		return results[i].Version > results[j].Version
	})
	if query.Offset > 0 {
		if query.Offset >= len(results) {
			return []*StoredSource{}
		}
		results = results[query.Offset:]
	}
	if query.Limit > 0 && len(results) > query.Limit {
		results = results[:query.Limit]
	}
	return results
}

// generateStoredSourceID generates a unique id.
func generateStoredSourceID() StoredSourceID {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return StoredSourceID(storedSourceIDPrefix + base64.RawURLEncoding.EncodeToString(b))
}

// copyStoredSource creates a deep copy.
func copyStoredSource(src *StoredSource) *StoredSource {
	if src == nil {
		return nil
	}
	out := *src
	out.Metadata = copyStringMap(src.Metadata)
	out.Tags = copyStringSlice(src.Tags)
	return &out
}

func copyStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	result := make(map[string]string, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

func copyStringSlice(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
