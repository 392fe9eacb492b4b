package database

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// ErrUnknownNameFilter is returned when a query names a filter that was
// never registered.
var ErrUnknownNameFilter = errors.New("unknown name filter")

// filterRegistry holds the named name filters of a store.
type filterRegistry struct {
	mu      sync.RWMutex
	filters map[string]models.NameFilter
}

func newFilterRegistry() *filterRegistry {
	return &filterRegistry{filters: make(map[string]models.NameFilter)}
}

// register adds filter under key. It returns false and keeps the existing
// filter when key is already registered.
func (r *filterRegistry) register(key string, filter models.NameFilter) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.filters[key]; exists {
		return false
	}
	r.filters[key] = filter
	return true
}

func (r *filterRegistry) get(key string) (models.NameFilter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter, ok := r.filters[key]
	return filter, ok
}

// expand resolves every filter named by the query into its LIKE patterns.
func (r *filterRegistry) expand(nameFilters map[string]string) ([][]string, error) {
	keys := sortedKeys(nameFilters)
	out := make([][]string, 0, len(keys))
	for _, key := range keys {
		filter, ok := r.get(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownNameFilter, key)
		}
		out = append(out, filter(nameFilters[key]))
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
