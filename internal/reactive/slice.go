package reactive

import "fmt"

// Slice is an observable sequence. Every mutation notifies the field that
// owns it. It implements accessor.Sequence.
type Slice struct {
	items []any
	field *Field
}

// NewSlice creates a Slice that is not yet owned by a field.
func NewSlice(items ...any) *Slice {
	return &Slice{items: append([]any(nil), items...)}
}

// Len returns the number of items.
func (s *Slice) Len() int { return len(s.items) }

// At returns the item at index i.
func (s *Slice) At(i int) any { return s.items[i] }

// Items returns a copy of the items.
func (s *Slice) Items() []any { return append([]any(nil), s.items...) }

func (s *Slice) changed() {
	if s.field != nil {
		s.field.notify()
	}
}

func (s *Slice) check(i, limit int) error {
	if i < 0 || i >= limit {
		return fmt.Errorf("%w: %d with length %d", ErrIndexOutOfRange, i, len(s.items))
	}
	return nil
}

// Set replaces the item at index i.
func (s *Slice) Set(i int, v any) error {
	if err := s.check(i, len(s.items)); err != nil {
		return err
	}
	s.items[i] = v
	s.changed()
	return nil
}

// Append adds items to the end.
func (s *Slice) Append(items ...any) {
	s.items = append(s.items, items...)
	s.changed()
}

// Insert places v before index i. i may equal Len to append.
func (s *Slice) Insert(i int, v any) error {
	if err := s.check(i, len(s.items)+1); err != nil {
		return err
	}
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = v
	s.changed()
	return nil
}

// Remove deletes the item at index i.
func (s *Slice) Remove(i int) error {
	if err := s.check(i, len(s.items)); err != nil {
		return err
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.changed()
	return nil
}

// Truncate shortens the slice to n items. It is a no-op when n >= Len.
func (s *Slice) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(s.items) {
		return
	}
	s.items = s.items[:n]
	s.changed()
}
