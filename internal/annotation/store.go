package annotation

import "fmt"

// Store is an ordered collection of annotation records and their drawable
// sets. Index i in both collections always describes the same annotation;
// every mutation touches both.
//
// Store is not safe for concurrent use.
type Store[S any] struct {
	data []*Annotation
	sets []S
}

// NewStore creates an empty store.
func NewStore[S any]() *Store[S] {
	return &Store[S]{}
}

// Len returns the number of records.
func (s *Store[S]) Len() int { return len(s.data) }

// Append adds a record with its drawable set and returns its index.
func (s *Store[S]) Append(a *Annotation, set S) int {
	s.data = append(s.data, a)
	s.sets = append(s.sets, set)
	return len(s.data) - 1
}

// At returns record i and its drawable set.
func (s *Store[S]) At(i int) (*Annotation, S, error) {
	if err := s.check(i); err != nil {
		var zero S
		return nil, zero, err
	}
	return s.data[i], s.sets[i], nil
}

// SetAt replaces the drawable set at i.
func (s *Store[S]) SetAt(i int, set S) error {
	if err := s.check(i); err != nil {
		return err
	}
	s.sets[i] = set
	return nil
}

// RemoveAt deletes record i and its drawable set, returning both.
func (s *Store[S]) RemoveAt(i int) (*Annotation, S, error) {
	a, set, err := s.At(i)
	if err != nil {
		return nil, set, err
	}
	s.data = append(s.data[:i], s.data[i+1:]...)

	var zero S
	s.sets[i] = zero
	s.sets = append(s.sets[:i], s.sets[i+1:]...)
	return a, set, nil
}

// Records returns a copy of the record slice. The records themselves are shared.
func (s *Store[S]) Records() []*Annotation {
	out := make([]*Annotation, len(s.data))
	copy(out, s.data)
	return out
}

// Sets returns a copy of the drawable set slice.
func (s *Store[S]) Sets() []S {
	out := make([]S, len(s.sets))
	copy(out, s.sets)
	return out
}

// ReplaceAll swaps in a new record list. Every record is validated first and
// nothing changes if one fails; the accepted records then get the same
// normalization as New (ordered rect corners, non-blank label). The new
// records get zero drawable sets; the previous sets are returned so the
// caller can detach them and build new ones.
func (s *Store[S]) ReplaceAll(records []*Annotation) ([]S, error) {
	for i, a := range records {
		if a == nil {
			return nil, fmt.Errorf("record %d: %w: nil record", i, ErrInvalidGeometry)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	for _, a := range records {
		a.normalize()
	}

	old := s.sets
	s.data = make([]*Annotation, len(records))
	copy(s.data, records)
	s.sets = make([]S, len(records))
	return old, nil
}

// IndexOf returns the index of record a, or -1.
func (s *Store[S]) IndexOf(a *Annotation) int {
	for i, d := range s.data {
		if d == a {
			return i
		}
	}
	return -1
}

func (s *Store[S]) check(i int) error {
	if i < 0 || i >= len(s.data) {
		return fmt.Errorf("index %d (len %d): %w", i, len(s.data), ErrIndexOutOfRange)
	}
	return nil
}
