package store

import (
	"fmt"
	"strings"
)

// Config locates the on-disk store.
type Config interface {
	BasePath() string
}

// BackendConfig is a Config that also names the storage backend.
type BackendConfig interface {
	Config
	Backend() string
}

const (
	// BackendDiskv keeps one file per document under the base path.
	BackendDiskv = "diskv"
	// BackendSQLite keeps every document in a single sqlite database.
	BackendSQLite = "sqlite"
)

// Open returns the Persistence selected by cfg. Configs that do not name a
// backend get diskv.
func Open(cfg Config) (Persistence, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: no config")
	}
	backend := BackendDiskv
	if bc, ok := cfg.(BackendConfig); ok && bc.Backend() != "" {
		backend = strings.ToLower(bc.Backend())
	}
	switch backend {
	case BackendDiskv:
		return Load(cfg)
	case BackendSQLite:
		return LoadSQLite(cfg)
	}
	return nil, fmt.Errorf("store: unknown backend %q", backend)
}
