package config

import (
	"fmt"
	"path/filepath"

	"github.com/itdojp/cspx/internal/cspx/engine"
	"github.com/itdojp/cspx/internal/cspx/store"
)

// NewStoreFactory builds the engine.StoreFactory cfg selects: a fresh
// in-memory set per exploration root for "memory", or a disk/hybrid
// backend rooted under cfg.Path, one subdirectory per root label so a
// refinement pair's spec and impl explorations never share a log.
func NewStoreFactory(cfg StoreConfig, metrics store.Metrics) (engine.StoreFactory, error) {
	switch cfg.Backend {
	case "memory", "":
		return engine.MemoryStoreFactory(metrics), nil

	case "disk":
		if cfg.Path == "" {
			return nil, fmt.Errorf("config: store.path is required for backend %q", cfg.Backend)
		}
		return func(label string) (store.Store, error) {
			return store.NewDiskStore(rootDir(cfg.Path, label), metrics), nil
		}, nil

	case "hybrid":
		if cfg.Path == "" {
			return nil, fmt.Errorf("config: store.path is required for backend %q", cfg.Backend)
		}
		return func(label string) (store.Store, error) {
			return store.NewHybridStore(rootDir(cfg.Path, label), cfg.HybridMaxStates, metrics), nil
		}, nil

	default:
		return nil, fmt.Errorf("config: unknown store.backend %q", cfg.Backend)
	}
}

// rootDir derives a per-root subdirectory from a sanitisable label (a
// process name or "<name>:spec" / "<name>:impl"), so two roots of the same
// Run never share a log/index pair.
func rootDir(base, label string) string {
	safe := make([]byte, 0, len(label))
	for i := 0; i < len(label); i++ {
		c := label[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			safe = append(safe, c)
		default:
			safe = append(safe, '_')
		}
	}
	return filepath.Join(base, string(safe))
}
