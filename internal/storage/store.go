package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var (
	// ErrNotFound is returned when no blob exists for a CID.
	ErrNotFound = errors.New("storage: blob not found")

	// ErrCorrupt is returned when a stored blob no longer matches its CID.
	ErrCorrupt = errors.New("storage: blob does not match its CID")
)

// Handle identifies a stored blob.
type Handle struct {
	// CID is the content identifier of the blob.
	CID  string `json:"cid"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	// URL is where the blob can be fetched.
	URL string `json:"url"`
}

// Store persists blobs and returns their handle.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (Handle, error)
}

// LocalStore is a content-addressed Store backed by a directory.
type LocalStore struct {
	dir     string
	gateway string
}

// NewLocalStore creates dir if needed. gateway is the URL prefix of the
// returned handles; when empty, handles carry a file:// URL.
func NewLocalStore(dir, gateway string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve store directory: %w", err)
	}
	return &LocalStore{dir: abs, gateway: strings.TrimRight(gateway, "/")}, nil
}

// Sum returns the CIDv1 of data.
func Sum(data []byte) (cid.Cid, error) {
	return cid.NewPrefixV1(cid.Raw, multihash.SHA2_256).Sum(data)
}

// Put implements Store. Storing the same bytes twice yields the same handle.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}

	c, err := Sum(data)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to compute CID: %w", err)
	}

	path := filepath.Join(s.dir, c.String())
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		tmp, err := os.CreateTemp(s.dir, ".put-*")
		if err != nil {
			return Handle{}, fmt.Errorf("failed to create temporary blob: %w", err)
		}
		if _, err := tmp.Write(data); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			return Handle{}, fmt.Errorf("failed to write blob: %w", err)
		}
		if err := tmp.Close(); err != nil {
			_ = os.Remove(tmp.Name())
			return Handle{}, fmt.Errorf("failed to close blob: %w", err)
		}
		if err := os.Rename(tmp.Name(), path); err != nil {
			_ = os.Remove(tmp.Name())
			return Handle{}, fmt.Errorf("failed to store blob: %w", err)
		}
	}

	return Handle{
		CID:  c.String(),
		Name: name,
		Size: int64(len(data)),
		URL:  s.url(c),
	}, nil
}

// Get returns the blob for the given CID string and checks its integrity.
func (s *LocalStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	want, err := cid.Decode(id)
	if err != nil {
		return nil, fmt.Errorf("invalid CID %q: %w", id, err)
	}

	data, err := os.ReadFile(filepath.Join(s.dir, want.String())) //nolint:gosec // name is a decoded CID
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	got, err := want.Prefix().Sum(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compute CID: %w", err)
	}
	if !got.Equals(want) {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, id)
	}
	return data, nil
}

// Dir returns the absolute store directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) url(c cid.Cid) string {
	if s.gateway == "" {
		return "file://" + filepath.ToSlash(filepath.Join(s.dir, c.String()))
	}
	return s.gateway + "/" + c.String()
}
