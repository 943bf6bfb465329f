// Package archive remembers finished downloads so batch runs can skip them.
package archive

import (
	"sort"
	"sync"
	"time"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spacedl/spacedl/filesystem"
	"github.com/spacedl/spacedl/where"
)

var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.Archive(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// mu serializes read-modify-write cycles. gache hands out the map it
// encodes on Set, so callers only ever mutate a copy.
var mu sync.Mutex

func get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return lo.Assign(cached), nil
}

// Has reports whether spaceID was downloaded before.
func Has(spaceID string) (bool, error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return false, err
	}

	_, ok := saved[spaceID]
	return ok, nil
}

// Add records entry, replacing an earlier record of the same space.
func Add(entry Entry) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return err
	}

	if entry.SavedAt.IsZero() {
		entry.SavedAt = time.Now()
	}
	saved[entry.SpaceID] = &entry

	return cacher.Set(saved)
}

// All returns every record, most recent first.
func All() ([]*Entry, error) {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return nil, err
	}

	entries := make([]*Entry, 0, len(saved))
	for _, e := range saved {
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SavedAt.After(entries[j].SavedAt)
	})

	return entries, nil
}

// Remove forgets spaceID.
func Remove(spaceID string) error {
	mu.Lock()
	defer mu.Unlock()

	saved, err := get()
	if err != nil {
		return err
	}

	delete(saved, spaceID)
	return cacher.Set(saved)
}

// Registry exposes the archive as a value for consumers that take a store.
type Registry struct{}

func (Registry) Has(spaceID string) (bool, error) { return Has(spaceID) }
func (Registry) Add(entry Entry) error         { return Add(entry) }
