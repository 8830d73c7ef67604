package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefResolve(t *testing.T) {
	tbl := NewTable[row]()
	h := tbl.Insert(row{Name: "target"})

	var r Ref[row]
	assert.False(t, r.IsValid())

	r.Set(h)
	assert.True(t, r.IsValid())
	assert.Equal(t, h, r.Handle())

	got, ok := r.Get(tbl)
	assert.True(t, ok)
	assert.Equal(t, "target", got.Name)
}

func TestRefDanglingAfterRemove(t *testing.T) {
	tbl := NewTable[row]()
	h := tbl.Insert(row{})

	var r Ref[row]
	r.Set(h)
	tbl.Remove(h)

	// still "valid" as a reference, but resolves to nothing
	assert.True(t, r.IsValid())
	_, ok := r.Get(tbl)
	assert.False(t, ok)
}

func TestRefClearAndNilTable(t *testing.T) {
	var r Ref[row]
	r.Set(5)
	_, ok := r.Get(nil)
	assert.False(t, ok)

	r.Clear()
	assert.False(t, r.IsValid())
}
