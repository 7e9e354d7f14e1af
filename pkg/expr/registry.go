package expr

import (
	"sort"
	"sync"

	"github.com/wildfunctions/dslgen/pkg/errors"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]*Language{}
)

// Register adds a frozen language to the registry under its name.
func Register(l *Language) error {
	if !l.Frozen() {
		if err := l.Validate(); err != nil {
			return err
		}
		return errors.Errorf(errors.KindIncompleteDialect, "language %s must be frozen before registration", l)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[l.name]; ok {
		return errors.Errorf(errors.KindConfig, "language %s already registered", l)
	}
	registry[l.name] = l
	return nil
}

// Lookup returns a registered language by name.
func Lookup(name string) (*Language, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	l, ok := registry[name]
	if !ok {
		return nil, errors.Errorf(errors.KindConfig, "unknown language: %s", name)
	}
	return l, nil
}

// Languages returns the registered language names, sorted.
func Languages() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
