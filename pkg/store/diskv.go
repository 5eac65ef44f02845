package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &journalStore{docs: &diskvDocuments{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		TempDir:           filepath.Join(basePath, tempDir),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}}, nil
}

const (
	// keyPrefix groups journal documents into one directory.
	keyPrefix = "journal"
	tempDir   = ".tmp"
)

type diskvDocuments struct {
	d        *diskv.Diskv
	basePath string
}

func (p *diskvDocuments) get(_ context.Context, key string) ([]byte, error) {
	val, err := p.d.Read(toKey(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errNotFound
	}
	return val, err
}

// putAll writes each document through the temp dir, so every file is
// replaced atomically. The set as a whole is not.
func (p *diskvDocuments) putAll(_ context.Context, docs []document) error {
	for _, doc := range docs {
		if err := p.d.Write(toKey(doc.key), doc.body); err != nil {
			return fmt.Errorf("%s: %w", doc.key, err)
		}
	}
	return nil
}

func (p *diskvDocuments) erase(_ context.Context, key string) error {
	err := p.d.Erase(toKey(key))
	if errors.Is(err, fs.ErrNotExist) {
		return errNotFound
	}
	return err
}

func (p *diskvDocuments) watchPath() string {
	return p.basePath
}

// keyForPath maps a file under the base path back to its document key.
func (p *diskvDocuments) keyForPath(path string) string {
	rel, err := filepath.Rel(p.basePath, path)
	if err != nil || rel == "." {
		return ""
	}
	parts := strings.Split(rel, string(os.PathSeparator))
	if len(parts) != 2 || parts[0] != keyPrefix {
		return ""
	}
	return fromKey(pathToKeyTransform(&diskv.PathKey{Path: parts[:1], FileName: parts[1]}))
}

func (p *diskvDocuments) close() error {
	return nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `journal-<document>`.
func toKey(document string) string {
	return keyPrefix + "-" + document
}

func fromKey(key string) string {
	return strings.TrimPrefix(key, keyPrefix+"-")
}
