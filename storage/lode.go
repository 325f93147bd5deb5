package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/justapithecus/lode/lode"

	"github.com/justapithecus/depthcap/types"
)

// rootPrefix is the top-level prefix for all capture artifacts.
const rootPrefix = "captures"

// Config holds partition keys for a capture session.
type Config struct {
	// SessionID is the partition key for the capture session.
	SessionID string
	// Day is the partition key derived from session start (YYYY-MM-DD UTC).
	Day string
}

// Validate checks that all partition keys are set and path-safe.
func (c Config) Validate() error {
	if c.SessionID == "" {
		return errors.New("storage: session id is required")
	}
	if c.Day == "" {
		return errors.New("storage: day is required")
	}
	if strings.ContainsAny(c.SessionID, "/\\") || strings.Contains(c.SessionID, "..") {
		return fmt.Errorf("storage: invalid session id %q", c.SessionID)
	}
	return nil
}

var errReadOnly = errors.New("storage opened read-only")

// LodeStorage writes artifacts to a Lode store.
// The store is created lazily on first use from the factory.
type LodeStorage struct {
	config   Config
	backend  string
	readOnly bool

	storeFactory lode.StoreFactory
	storeOnce    sync.Once
	store        lode.Store
	storeErr     error
}

// NewLodeStorage creates a storage over the given store factory.
// backend is a label ("fs", "s3", "memory") used in metrics and logs.
// Use lode.NewMemoryFactory() for testing.
func NewLodeStorage(cfg Config, backend string, factory lode.StoreFactory) (*LodeStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, errors.New("storage: store factory is required")
	}
	return &LodeStorage{
		config:       cfg,
		backend:      backend,
		storeFactory: factory,
	}, nil
}

// NewFS creates a storage rooted at a local directory, creating the
// directory if it does not exist.
func NewFS(cfg Config, root string) (*LodeStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, wrap(err, "init", root)
	}
	return NewLodeStorage(cfg, "fs", lode.NewFSFactory(root))
}

// NewBrowser opens a store for reading only: List and Get work across all
// sessions, Save fails.
func NewBrowser(backend string, factory lode.StoreFactory) (*LodeStorage, error) {
	if factory == nil {
		return nil, errors.New("storage: store factory is required")
	}
	return &LodeStorage{backend: backend, storeFactory: factory, readOnly: true}, nil
}

// Backend returns the backend label.
func (s *LodeStorage) Backend() string {
	return s.backend
}

// Save writes data to the session partition under name.
func (s *LodeStorage) Save(ctx context.Context, kind types.ArtifactKind, name string, data []byte) error {
	if s.readOnly {
		return NewStorageError(ErrUnclassified, "save", name, errReadOnly)
	}
	if err := validateName(name); err != nil {
		return NewStorageError(ErrUnclassified, "save", name, err)
	}
	store, err := s.getOrCreateStore()
	if err != nil {
		return err
	}

	p := s.buildPath(name)
	return wrap(store.Put(ctx, p, bytes.NewReader(data)), "save", p)
}

// Get reads a stored artifact by its full path (as returned by List).
func (s *LodeStorage) Get(ctx context.Context, p string) ([]byte, error) {
	store, err := s.getOrCreateStore()
	if err != nil {
		return nil, err
	}
	rc, err := store.Get(ctx, p)
	if err != nil {
		return nil, wrap(err, "get", p)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, wrap(err, "get", p)
	}
	return data, nil
}

// List returns stored artifacts across all sessions, newest partition first.
// Paths that do not follow the capture layout are skipped.
func (s *LodeStorage) List(ctx context.Context, opts ListOptions) ([]Entry, error) {
	store, err := s.getOrCreateStore()
	if err != nil {
		return nil, err
	}
	paths, err := store.List(ctx, rootPrefix+"/")
	if err != nil {
		return nil, wrap(err, "list", rootPrefix)
	}

	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		e, ok := parseEntry(p)
		if !ok {
			continue
		}
		if opts.Kind != "" && e.Kind != opts.Kind {
			continue
		}
		if opts.Session != "" && e.Session != opts.Session {
			continue
		}
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path > entries[j].Path
	})
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}
	return entries, nil
}

// getOrCreateStore lazily initializes the Store from the factory.
func (s *LodeStorage) getOrCreateStore() (lode.Store, error) {
	s.storeOnce.Do(func() {
		store, err := s.storeFactory()
		s.store = store
		s.storeErr = wrap(err, "init", s.backend)
	})
	return s.store, s.storeErr
}

// buildPath computes the partitioned path for an artifact.
// Format: captures/day=<d>/session=<id>/<name>
func (s *LodeStorage) buildPath(name string) string {
	return fmt.Sprintf("%s/day=%s/session=%s/%s", rootPrefix, s.config.Day, s.config.SessionID, name)
}

// validateName rejects names that would escape the session partition.
func validateName(name string) error {
	if name == "" {
		return errors.New("empty artifact name")
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("artifact name %q must not contain path separators or \"..\"", name)
	}
	return nil
}

// parseEntry extracts partition keys from a stored path.
func parseEntry(p string) (Entry, bool) {
	p = strings.TrimPrefix(p, "/")
	e := Entry{Path: p, Name: path.Base(p)}

	for _, seg := range strings.Split(path.Dir(p), "/") {
		switch {
		case strings.HasPrefix(seg, "day="):
			e.Day = strings.TrimPrefix(seg, "day=")
		case strings.HasPrefix(seg, "session="):
			e.Session = strings.TrimPrefix(seg, "session=")
		}
	}
	if e.Day == "" || e.Session == "" {
		return Entry{}, false
	}

	kind, ok := types.KindFromExt(strings.TrimPrefix(path.Ext(e.Name), "."))
	if !ok {
		return Entry{}, false
	}
	e.Kind = kind
	return e, true
}

// Verify LodeStorage implements Storage.
var _ Storage = (*LodeStorage)(nil)
