// Package interner deduplicates canonical command paths.
//
// Resolving the same path segments twice returns the same *unitypes.InternedName
// for as long as the entry stays in the bounded least-recently-used cache.
package interner

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"unilang/pkg/unitypes"
)

// DefaultCapacity is the capacity of the process-wide interner.
const DefaultCapacity = 10000

// Stats is a snapshot of interner activity.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// HitRate returns hits / (hits + misses), or 0 when nothing was resolved yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Interner maps canonical paths to shared InternedName instances.
// It is safe for concurrent use.
type Interner struct {
	capacity int
	cache    *lru.Cache[string, *unitypes.InternedName]
	// missMu serialises the lookup-or-insert sequence on a miss so that two
	// concurrent misses on the same path produce a single InternedName.
	missMu sync.Mutex

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

// New creates an Interner holding at most capacity names.
func New(capacity int) (*Interner, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("interner capacity must be positive, got %d", capacity)
	}
	in := &Interner{capacity: capacity}
	cache, err := lru.NewWithEvict[string, *unitypes.InternedName](capacity, func(string, *unitypes.InternedName) {
		in.evictions.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create interner cache: %w", err)
	}
	in.cache = cache
	return in, nil
}

// Canonical builds the dotted path for segments: "." followed by the segments
// joined with ".". An empty first segment is dropped when more segments follow.
func Canonical(segments []string) string {
	if len(segments) > 1 && segments[0] == "" {
		segments = segments[1:]
	}
	return "." + strings.Join(segments, ".")
}

// Resolve returns the interned canonical path for segments.
func (in *Interner) Resolve(segments []string) *unitypes.InternedName {
	return in.Intern(Canonical(segments))
}

// Intern returns the shared InternedName for an already canonical path.
func (in *Interner) Intern(path string) *unitypes.InternedName {
	if name, ok := in.cache.Get(path); ok {
		in.hits.Add(1)
		return name
	}

	in.missMu.Lock()
	defer in.missMu.Unlock()

	// Another goroutine may have inserted the path while we waited.
	if name, ok := in.cache.Peek(path); ok {
		in.hits.Add(1)
		return name
	}

	in.misses.Add(1)
	name := unitypes.NewInternedName(path)
	in.cache.Add(path, name)
	return name
}

// Contains reports whether path is currently cached, without touching recency.
func (in *Interner) Contains(path string) bool {
	return in.cache.Contains(path)
}

// Len returns the number of cached names.
func (in *Interner) Len() int {
	return in.cache.Len()
}

// Capacity returns the configured capacity.
func (in *Interner) Capacity() int {
	return in.capacity
}

// Stats returns a snapshot of the interner counters.
func (in *Interner) Stats() Stats {
	return Stats{
		Size:      in.cache.Len(),
		Capacity:  in.capacity,
		Hits:      in.hits.Load(),
		Misses:    in.misses.Load(),
		Evictions: in.evictions.Load(),
	}
}

// Clear drops every cached name and resets the counters.
// Names handed out earlier stay valid but are no longer shared with new resolutions.
func (in *Interner) Clear() {
	in.missMu.Lock()
	defer in.missMu.Unlock()
	in.cache.Purge()
	in.hits.Store(0)
	in.misses.Store(0)
	in.evictions.Store(0)
}

var (
	globalOnce sync.Once
	global     *Interner
)

// Global returns the process-wide interner.
func Global() *Interner {
	globalOnce.Do(func() {
		global, _ = New(DefaultCapacity)
	})
	return global
}

// Resolve resolves segments with the process-wide interner.
func Resolve(segments []string) *unitypes.InternedName {
	return Global().Resolve(segments)
}

// Intern interns a canonical path with the process-wide interner.
func Intern(path string) *unitypes.InternedName {
	return Global().Intern(path)
}
