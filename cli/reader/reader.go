package reader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/justapithecus/depthcap/storage"
	"github.com/justapithecus/depthcap/types"
)

// Reader serves list and inspect queries.
type Reader struct {
	store Browser
}

// New creates a Reader. store may be nil; then only local files can be
// inspected and listing fails.
func New(store Browser) *Reader {
	return &Reader{store: store}
}

// ListArtifacts returns saved artifacts, newest first.
func (r *Reader) ListArtifacts(ctx context.Context, opts ListArtifactsOptions) ([]ListArtifactItem, error) {
	if r.store == nil {
		return nil, errors.New("no storage configured")
	}
	kind, err := ParseKind(opts.Kind)
	if err != nil {
		return nil, err
	}

	entries, err := r.store.List(ctx, storageListOptions(kind, opts))
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}

	items := make([]ListArtifactItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, ListArtifactItem{
			Name:    e.Name,
			Kind:    string(e.Kind),
			Session: e.Session,
			Day:     e.Day,
			Path:    e.Path,
		})
	}
	return items, nil
}

// InspectDepth summarizes a depth table. ref is a local file path; when no
// such file exists and a store is configured, ref is read as a stored path
// (as printed by list).
func (r *Reader) InspectDepth(ctx context.Context, ref string) (*InspectDepthResponse, error) {
	f, err := os.Open(ref)
	switch {
	case err == nil:
		defer func() { _ = f.Close() }()
		return parseDepthTable(ref, f)
	case !errors.Is(err, os.ErrNotExist) || r.store == nil:
		return nil, fmt.Errorf("open depth table: %w", err)
	}

	data, err := r.store.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("read stored depth table: %w", err)
	}
	return parseDepthTable(ref, bytes.NewReader(data))
}

func storageListOptions(kind types.ArtifactKind, opts ListArtifactsOptions) storage.ListOptions {
	return storage.ListOptions{Kind: kind, Session: opts.Session, Limit: opts.Limit}
}
