// Package repo holds validated records outside the validation core.
package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	recskema "github.com/reoring/recskema"
	g "github.com/reoring/recskema/dsl"
)

// ErrDuplicateID is returned by Save when the identifier is already stored.
var ErrDuplicateID = fmt.Errorf("repo: duplicate id")

// Memory is an in-memory, insertion-ordered store of instances keyed by a
// uuid field. It is safe for concurrent use.
type Memory struct {
	idField string

	mu    sync.RWMutex
	order []uuid.UUID
	items map[uuid.UUID]*g.Instance
}

// NewMemory returns a store keyed by the uuid field idField.
func NewMemory(idField string) *Memory {
	return &Memory{idField: idField, items: make(map[uuid.UUID]*g.Instance)}
}

// Save stores a copy of inst under its identifier.
func (m *Memory) Save(_ context.Context, inst *g.Instance) (uuid.UUID, error) {
	id, ok := g.Value[uuid.UUID](inst, m.idField)
	if !ok {
		return uuid.Nil, fmt.Errorf("repo: instance has no %s identifier", m.idField)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.items[id]; dup {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	m.items[id] = inst.Clone()
	m.order = append(m.order, id)
	return id, nil
}

// FindByID returns a copy of the stored instance. A miss wraps
// recskema.ErrNotFound.
func (m *Memory) FindByID(_ context.Context, id uuid.UUID) (*g.Instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, recskema.ErrNotFound)
	}
	return inst.Clone(), nil
}

// List returns copies of all stored instances in insertion order.
func (m *Memory) List(_ context.Context) []*g.Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*g.Instance, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.items[id].Clone())
	}
	return out
}

// Len returns the number of stored instances.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order)
}
