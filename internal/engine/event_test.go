package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventInvokeOrder(t *testing.T) {
	var e Event
	var calls []int
	e.AddListener(func() { calls = append(calls, 1) })
	e.AddListener(nil)
	e.AddListener(func() { calls = append(calls, 2) })

	e.Invoke()

	assert.Equal(t, []int{1, 2}, calls)
	assert.Equal(t, 2, e.ListenerCount())

	e.RemoveAllListeners()
	e.Invoke()
	assert.Len(t, calls, 2)
}

func TestEventWithArg(t *testing.T) {
	var e EventWithArg[Handle]
	var got []Handle
	e.AddListener(func(h Handle) { got = append(got, h) })

	e.Invoke(3)
	e.Invoke(7)

	assert.Equal(t, []Handle{3, 7}, got)
	assert.Equal(t, 1, e.ListenerCount())
}
