// Package memory keeps the note collection in process memory.
package memory

import (
	"context"
	"sync"

	"example.com/notes-registry/internal/notes"
)

var _ notes.Persister = (*Persister)(nil)

// Persister holds a private copy of the last saved collection.
// LoadErr and SaveErr, when set, are returned instead of touching the data.
type Persister struct {
	mu      sync.RWMutex
	data    notes.Collection
	saves   int
	LoadErr error
	SaveErr error
}

// New returns a Persister seeded with a copy of initial.
func New(initial ...notes.Note) *Persister {
	return &Persister{data: notes.Collection(initial).Clone()}
}

func (p *Persister) Load(_ context.Context) (notes.Collection, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.LoadErr != nil {
		return nil, p.LoadErr
	}
	return p.data.Clone(), nil
}

func (p *Persister) Save(_ context.Context, c notes.Collection) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.SaveErr != nil {
		return p.SaveErr
	}
	p.data = c.Clone()
	p.saves++
	return nil
}

// Saves reports how many successful saves have happened.
func (p *Persister) Saves() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.saves
}
