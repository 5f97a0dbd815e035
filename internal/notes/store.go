package notes

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Persister loads and saves the whole collection.
// Load must return an empty collection and a nil error when nothing has been
// persisted yet. Save must replace the persisted collection atomically.
type Persister interface {
	Load(ctx context.Context) (Collection, error)
	Save(ctx context.Context, c Collection) error
}

// NoteStore performs load-act-save cycles against a Persister.
//
// Mutations hold an exclusive lock across the whole cycle, so concurrent
// requests served by one NoteStore cannot lose each other's updates. Several
// processes sharing one backend are not coordinated.
type NoteStore struct {
	mu                sync.RWMutex
	p                 Persister
	requireUpdateText bool
}

type Option func(*NoteStore)

// WithRequireUpdateText makes Update reject an empty text with ErrInvalidInput.
// By default an empty text is stored as-is.
func WithRequireUpdateText(v bool) Option {
	return func(s *NoteStore) { s.requireUpdateText = v }
}

func NewStore(p Persister, opts ...Option) *NoteStore {
	s := &NoteStore{p: p}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *NoteStore) Load(ctx context.Context) (Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx)
}

func (s *NoteStore) Save(ctx context.Context, c Collection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx, c)
}

func (s *NoteStore) Get(ctx context.Context, name string) (Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.load(ctx)
	if err != nil {
		return Note{}, err
	}
	i := c.index(name)
	if i < 0 {
		return Note{}, ErrNotFound
	}
	return c[i], nil
}

func (s *NoteStore) List(ctx context.Context) (Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load(ctx)
}

func (s *NoteStore) Create(ctx context.Context, name, text string) (Note, error) {
	if name == "" || text == "" {
		return Note{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		return Note{}, err
	}
	if c.index(name) >= 0 {
		return Note{}, ErrAlreadyExists
	}

	n := Note{Name: name, Text: text}
	if err := s.save(ctx, append(c, n)); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (s *NoteStore) Update(ctx context.Context, name, text string) error {
	if s.requireUpdateText && text == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := c.index(name)
	if i < 0 {
		return ErrNotFound
	}
	c[i].Text = text
	return s.save(ctx, c)
}

func (s *NoteStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx)
	if err != nil {
		return err
	}
	i := c.index(name)
	if i < 0 {
		return ErrNotFound
	}
	c = append(c[:i], c[i+1:]...)
	return s.save(ctx, c)
}

func (s *NoteStore) load(ctx context.Context) (Collection, error) {
	c, err := s.p.Load(ctx)
	if err != nil {
		return nil, storageErr("load", err)
	}
	if c == nil {
		c = Collection{}
	}
	return c, nil
}

func (s *NoteStore) save(ctx context.Context, c Collection) error {
	if err := s.p.Save(ctx, c); err != nil {
		return storageErr("save", err)
	}
	return nil
}

func storageErr(op string, err error) error {
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
