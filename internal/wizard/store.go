package wizard

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultStoreSize = 1024
	DefaultIdleTTL   = 30 * time.Minute
)

// Store keeps in-progress wizards by ID. Wizards untouched for the idle TTL
// are dropped.
type Store struct {
	wizards *expirable.LRU[string, *Controller]
}

func NewStore(size int, idleTTL time.Duration) *Store {
	if size <= 0 {
		size = DefaultStoreSize
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{wizards: expirable.NewLRU[string, *Controller](size, nil, idleTTL)}
}

// Create starts a new wizard and returns its ID.
func (s *Store) Create(sections []Section, initial Fields) (string, *Controller, error) {
	c, err := New(sections, initial)
	if err != nil {
		return "", nil, err
	}
	id := uuid.New().String()
	s.wizards.Add(id, c)
	return id, c, nil
}

// Get returns the wizard and restarts its idle timer.
func (s *Store) Get(id string) (*Controller, bool) {
	c, ok := s.wizards.Get(id)
	if !ok {
		return nil, false
	}
	s.wizards.Add(id, c)
	return c, true
}

func (s *Store) Remove(id string) {
	s.wizards.Remove(id)
}

func (s *Store) Len() int {
	return s.wizards.Len()
}
