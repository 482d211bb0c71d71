package cache

import (
	"sync"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-vector/internal/types"
)

type Cache interface {
	Reset()
}

// Key addresses one signal column inside an arena.
type Key struct {
	Kind types.IndicatorKind
	Role types.SignalRole
	Hash string
}

// Arena stores the signal columns computed for one shape signature. Columns
// are written once and never modified afterwards.
type Arena struct {
	signature string
	columns   map[Key][]int8
	mu        sync.RWMutex
}

func newArena(signature string) *Arena {
	return &Arena{
		signature: signature,
		columns:   make(map[Key][]int8),
	}
}

// Signature returns the signature key the arena belongs to.
func (a *Arena) Signature() string {
	return a.signature
}

// Get returns the column stored under (kind, role, hash).
func (a *Arena) Get(kind types.IndicatorKind, role types.SignalRole, hash string) optional.Option[[]int8] {
	a.mu.RLock()
	defer a.mu.RUnlock()

	column, ok := a.columns[Key{Kind: kind, Role: role, Hash: hash}]
	if !ok {
		return optional.None[[]int8]()
	}

	return optional.Some(column)
}

// Put stores a column. The first write wins; later writes for the same key
// are ignored and report false.
func (a *Arena) Put(kind types.IndicatorKind, role types.SignalRole, hash string, column []int8) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := Key{Kind: kind, Role: role, Hash: hash}
	if _, exists := a.columns[key]; exists {
		return false
	}

	a.columns[key] = column

	return true
}

// Len returns the number of stored columns.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return len(a.columns)
}

// SignalCache is the run scoped set of arenas, one per shape signature.
type SignalCache struct {
	arenas map[string]*Arena
	mu     sync.Mutex
}

func NewSignalCache() *SignalCache {
	return &SignalCache{
		arenas: make(map[string]*Arena),
	}
}

// Arena returns the arena for signature, creating it on first use.
func (c *SignalCache) Arena(signature types.ShapeSignature) *Arena {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := signature.Key()

	arena, ok := c.arenas[key]
	if !ok {
		arena = newArena(key)
		c.arenas[key] = arena
	}

	return arena
}

// Size returns the number of arenas.
func (c *SignalCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.arenas)
}

// Reset implements cache.Cache.
func (c *SignalCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.arenas = make(map[string]*Arena)
}
