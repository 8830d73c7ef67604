package engine

// Handle is a stable identifier for a row in a Table. Handles are never reused
// within a table, so a stale handle simply fails to resolve.
type Handle uint64

// NoHandle is the zero handle; no table ever issues it.
const NoHandle Handle = 0

// Table is an insertion-ordered arena of values keyed by Handle.
type Table[T any] struct {
	next  Handle
	rows  map[Handle]*T
	order []Handle
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{
		next: 1,
		rows: make(map[Handle]*T),
	}
}

// Insert stores v and returns its new handle.
func (t *Table[T]) Insert(v T) Handle {
	if t.rows == nil {
		t.rows = make(map[Handle]*T)
		t.next = 1
	}
	h := t.next
	t.next++
	t.rows[h] = &v
	t.order = append(t.order, h)
	return h
}

// Get returns a pointer to the stored value. The pointer stays valid until the
// row is removed.
func (t *Table[T]) Get(h Handle) (*T, bool) {
	v, ok := t.rows[h]
	return v, ok
}

func (t *Table[T]) Has(h Handle) bool {
	_, ok := t.rows[h]
	return ok
}

func (t *Table[T]) Remove(h Handle) bool {
	if _, ok := t.rows[h]; !ok {
		return false
	}
	delete(t.rows, h)
	for i, o := range t.order {
		if o == h {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear drops every row. The handle counter keeps running so handles issued
// before the clear never resolve again.
func (t *Table[T]) Clear() {
	clear(t.rows)
	t.order = t.order[:0]
}

// Replace swaps the whole content for values in one step and returns the new
// handles in the same order as values.
func (t *Table[T]) Replace(values []T) []Handle {
	t.Clear()
	handles := make([]Handle, 0, len(values))
	for _, v := range values {
		handles = append(handles, t.Insert(v))
	}
	return handles
}

func (t *Table[T]) Len() int {
	return len(t.order)
}

// Handles returns a copy of the live handles in insertion order.
func (t *Table[T]) Handles() []Handle {
	out := make([]Handle, len(t.order))
	copy(out, t.order)
	return out
}

// Each visits rows in insertion order. fn must not insert or remove rows.
func (t *Table[T]) Each(fn func(h Handle, v *T)) {
	for _, h := range t.order {
		fn(h, t.rows[h])
	}
}
