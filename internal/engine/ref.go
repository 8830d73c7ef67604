package engine

// Ref is a weak reference to a row of a Table. It does not keep the row alive;
// resolving it after the row is removed yields nothing.
//
// Example:
//
//	var sel engine.Ref[Item]
//	sel.Set(h)
//	if item, ok := sel.Get(items); ok {
//	    // use item
//	}
type Ref[T any] struct {
	handle Handle
}

// Get resolves the reference against t.
func (r Ref[T]) Get(t *Table[T]) (*T, bool) {
	if r.handle == NoHandle || t == nil {
		return nil, false
	}
	return t.Get(r.handle)
}

// IsValid reports whether the reference points somewhere. It does not check
// that the row still exists.
func (r Ref[T]) IsValid() bool {
	return r.handle != NoHandle
}

func (r Ref[T]) Handle() Handle {
	return r.handle
}

func (r *Ref[T]) Set(h Handle) {
	r.handle = h
}

func (r *Ref[T]) Clear() {
	r.handle = NoHandle
}
