package grid

import (
	"sync"

	"github.com/google/uuid"
)

// Handle is a non-owning reference to a Table. Formula cells carry a Handle
// instead of a pointer so that a cell never keeps its table alive and a
// cleared or released table stops resolving.
type Handle struct {
	id uuid.UUID
}

// registry maps live handles to their tables.
var registry = struct {
	mu     sync.RWMutex
	tables map[uuid.UUID]*Table
}{
	tables: make(map[uuid.UUID]*Table),
}

// newHandleID generates a UUID v7 for a table handle.
func newHandleID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New()
	}
	return id
}

func register(t *Table) Handle {
	h := Handle{id: newHandleID()}
	registry.mu.Lock()
	registry.tables[h.id] = t
	registry.mu.Unlock()
	return h
}

func revoke(h Handle) {
	registry.mu.Lock()
	delete(registry.tables, h.id)
	registry.mu.Unlock()
}

// Resolve returns the table behind h, or false if the table was cleared,
// released, or h is the zero Handle.
func (h Handle) Resolve() (*Table, bool) {
	if h.IsZero() {
		return nil, false
	}
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	t, ok := registry.tables[h.id]
	return t, ok
}

// IsZero reports whether h was never issued by a table.
func (h Handle) IsZero() bool {
	return h.id == uuid.Nil
}

// String returns the handle ID.
func (h Handle) String() string {
	return h.id.String()
}
