package whiteboard

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/visualnotes/visualnotes/pkg/errors"
)

// IDSource generates element identifiers.
type IDSource func() string

// UUIDSource is the default IDSource, producing random UUIDs.
func UUIDSource() string { return uuid.NewString() }

// SequenceSource returns an IDSource yielding prefix1, prefix2, ...
// It is deterministic and intended for tests and replays.
func SequenceSource(prefix string) IDSource {
	n := 0
	return func() string {
		n++
		return prefix + strconv.Itoa(n)
	}
}

// Store is the ordered element collection of one board. Order is z-order:
// later elements draw on top. Elements are never removed.
//
// Store hands out copies; callers cannot mutate stored elements except
// through Update.
type Store struct {
	elements []Element
	index    map[string]int
	nextID   IDSource
}

// NewStore returns an empty store. A nil ids uses UUIDSource.
func NewStore(ids IDSource) *Store {
	if ids == nil {
		ids = UUIDSource
	}
	return &Store{index: make(map[string]int), nextID: ids}
}

// Create assigns a fresh id to d, appends it and returns the stored
// element. It always succeeds.
func (s *Store) Create(d Draft) Element {
	id := s.nextID()
	for id == "" || s.has(id) {
		id = s.nextID()
	}
	e := Element{ID: id, X: d.X, Y: d.Y, Width: d.Width, Height: d.Height}
	if d.Content != nil {
		e.Content = d.Content.clone()
	}
	e.syncBounds()
	s.index[id] = len(s.elements)
	s.elements = append(s.elements, e)
	return e.Clone()
}

// Update merges p into the element with the given id and returns the
// result. Unknown ids fail with ErrCodeElementNotFound and leave the store
// unchanged.
func (s *Store) Update(id string, p Patch) (Element, error) {
	i, ok := s.index[id]
	if !ok {
		return Element{}, errors.New(errors.ErrCodeElementNotFound, "element %q not found", id)
	}
	e := s.elements[i].Clone()
	p.apply(&e)
	s.elements[i] = e
	return e.Clone(), nil
}

// Select looks up an element by id without changing anything.
func (s *Store) Select(id string) (Element, bool) {
	i, ok := s.index[id]
	if !ok {
		return Element{}, false
	}
	return s.elements[i].Clone(), true
}

// At returns the element at position i in z-order.
func (s *Store) At(i int) (Element, bool) {
	if i < 0 || i >= len(s.elements) {
		return Element{}, false
	}
	return s.elements[i].Clone(), true
}

// Len returns the number of stored elements.
func (s *Store) Len() int { return len(s.elements) }

// Elements returns copies of all elements in z-order.
func (s *Store) Elements() []Element {
	return cloneElements(s.elements)
}

// Snapshot returns an independent copy of the store contents.
func (s *Store) Snapshot() []Element {
	return cloneElements(s.elements)
}

// Restore replaces the store contents with a copy of snap.
func (s *Store) Restore(snap []Element) {
	s.elements = cloneElements(snap)
	s.index = make(map[string]int, len(s.elements))
	for i, e := range s.elements {
		s.index[e.ID] = i
	}
}

func (s *Store) has(id string) bool {
	_, ok := s.index[id]
	return ok
}

func cloneElements(in []Element) []Element {
	out := make([]Element, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

// IsNotFound reports whether err is an unknown-element error.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeElementNotFound)
}
