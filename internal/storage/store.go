// Package storage reads cost documents from and writes comments to the local
// filesystem or S3, chosen per location.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when a location does not hold a readable object.
var ErrNotFound = errors.New("storage: not found")

// Store reads and writes whole objects.
type Store interface {
	Read(ctx context.Context, loc Location) ([]byte, error)
	Write(ctx context.Context, loc Location, data []byte) error
}

// FindFirst reads the first candidate that exists. Candidates that are missing
// are skipped; any other read error stops the search. It returns ErrNotFound
// when no candidate exists.
func FindFirst(ctx context.Context, store Store, candidates []Location) (Location, []byte, error) {
	for _, loc := range candidates {
		data, err := store.Read(ctx, loc)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return loc, nil, err
		}
		return loc, data, nil
	}
	return Location{}, nil, ErrNotFound
}

// FileStore is a Store backed by the local filesystem.
type FileStore struct{}

// Read returns the file contents. Missing paths and directories are ErrNotFound.
func (FileStore) Read(_ context.Context, loc Location) ([]byte, error) {
	info, err := os.Stat(loc.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: stat %s: %w", loc, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrNotFound, loc)
	}
	data, err := os.ReadFile(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", loc, err)
	}
	return data, nil
}

// Write replaces the file at loc, creating parent directories as needed.
// The content is written to a temporary file and renamed into place, so a
// concurrent reader sees either the old or the new comment.
func (FileStore) Write(_ context.Context, loc Location, data []byte) error {
	dir := filepath.Dir(loc.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".infracost-comment-*")
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", loc, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write %s: %w", loc, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: write %s: %w", loc, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", loc, err)
	}
	if err := os.Rename(tmp.Name(), loc.Path); err != nil {
		return fmt.Errorf("storage: write %s: %w", loc, err)
	}
	return nil
}

// Router dispatches each location to the filesystem or S3. The S3 store is
// created on first use so runs that never touch S3 need no AWS configuration.
type Router struct {
	files Store

	mu    sync.Mutex
	s3    Store
	newS3 func(context.Context) (Store, error)
}

// NewRouter builds a Router from a filesystem store and an S3 store factory.
func NewRouter(files Store, newS3 func(context.Context) (Store, error)) *Router {
	return &Router{files: files, newS3: newS3}
}

// New returns a Router using FileStore and an S3Store built from cfg.
func New(cfg S3Config) *Router {
	return NewRouter(FileStore{}, func(ctx context.Context) (Store, error) {
		return NewS3Store(ctx, cfg)
	})
}

// Read implements Store.
func (r *Router) Read(ctx context.Context, loc Location) ([]byte, error) {
	s, err := r.storeFor(ctx, loc)
	if err != nil {
		return nil, err
	}
	return s.Read(ctx, loc)
}

// Write implements Store.
func (r *Router) Write(ctx context.Context, loc Location, data []byte) error {
	s, err := r.storeFor(ctx, loc)
	if err != nil {
		return err
	}
	return s.Write(ctx, loc, data)
}

func (r *Router) storeFor(ctx context.Context, loc Location) (Store, error) {
	if !loc.IsS3() {
		return r.files, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.s3 != nil {
		return r.s3, nil
	}
	if r.newS3 == nil {
		return nil, fmt.Errorf("storage: %s: S3 locations are not configured", loc)
	}
	s, err := r.newS3(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: init S3: %w", err)
	}
	r.s3 = s
	return s, nil
}
