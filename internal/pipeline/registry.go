package pipeline

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/linesmith/linesmith/internal/pkg/config"
)

// Factory builds one source from configuration. Sources register themselves
// in init so a binary selects them by name only.
type Factory func(cfg *config.Config, logger *slog.Logger) (Source, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

func Register(name string, f Factory) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		panic("pipeline: empty name in Register")
	}
	if f == nil {
		panic("pipeline: nil factory in Register for " + n)
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[n]; exists {
		panic("pipeline: duplicate registration for " + n)
	}
	registry[n] = f
}

func FactoryByName(name string) (Factory, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[n]
	if !ok {
		return nil, fmt.Errorf("unknown source %q (available: %v)", name, AvailableNames())
	}
	return f, nil
}

func AvailableNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
