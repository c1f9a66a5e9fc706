package observe_test

import (
	"testing"

	"github.com/delaneyj/observeparty/observe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should return the same observer when observing twice
func TestObserveIsIdempotent(t *testing.T) {
	rs, _ := newTestSystem(t)
	state := observe.NewRecord().With("a", 1)

	first := rs.Observe(state, false)
	require.NotNil(t, first)
	assert.Same(t, first, rs.Observe(state, false))
	assert.Same(t, first, rs.Observe(first.Value(), false))
	assert.Same(t, first, observe.ObserverOf(state))
	assert.Same(t, state, first.Value())
}

// should not observe primitives, raw, instance or frozen values
func TestObserveIneligibleValues(t *testing.T) {
	rs, _ := newTestSystem(t)

	for name, v := range map[string]any{
		"nil":        nil,
		"int":        1,
		"string":     "s",
		"map":        map[string]any{"a": 1},
		"nil record": (*observe.Record)(nil),
		"nil list":   (*observe.List)(nil),
		"raw record": observe.NewRecord().With("a", 1).MarkRaw(),
		"raw list":   observe.NewList(1).MarkRaw(),
		"instance":   observe.NewInstance().With("a", 1),
		"sealed":     observe.NewRecord().With("a", 1).Seal(),
		"frozen":     observe.NewList(1).Freeze(),
	} {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, rs.Observe(v, true))
			assert.Nil(t, observe.ObserverOf(v))
		})
	}
}

// should observe nested records without notifying shallow readers on leaf writes
func TestObserveNested(t *testing.T) {
	rs, _ := newTestSystem(t)
	inner := observe.NewRecord().With("b", 1)
	state := observe.NewRecord().With("a", inner)

	rs.Observe(state, false)
	assert.NotNil(t, observe.ObserverOf(inner))

	leafRuns := effectRuns(rs, func() {
		state.Get("a").(*observe.Record).Get("b")
	})
	// reads a and, through it, the nested structural dep
	shallowRuns := effectRuns(rs, func() {
		state.Get("a")
	})

	require.NoError(t, inner.Set("b", 2))
	assert.Equal(t, 2, *leafRuns)
	assert.Equal(t, 1, *shallowRuns)
}

// should observe the items of an observed list
func TestObserveListObservesItems(t *testing.T) {
	rs, _ := newTestSystem(t)
	item := observe.NewRecord().With("x", 1)
	nested := observe.NewList(2)
	l := observe.NewList(item, nested, 3)

	rs.Observe(l, false)
	assert.NotNil(t, observe.ObserverOf(l))
	assert.NotNil(t, observe.ObserverOf(item))
	assert.NotNil(t, observe.ObserverOf(nested))
}

// should pass a frozen record through without reactivity
func TestFrozenRecordPassthrough(t *testing.T) {
	rs, _ := newTestSystem(t)
	state := observe.NewRecord().With("a", 1).Freeze()

	assert.Nil(t, rs.Observe(state, false))

	runs := effectRuns(rs, func() {
		state.Get("a")
	})
	assert.ErrorIs(t, state.Set("a", 2), observe.ErrReadOnly)
	assert.Equal(t, 1, state.Get("a"))
	assert.Equal(t, 1, *runs)
}

// should stop creating observers while observing is off
func TestToggleObserving(t *testing.T) {
	rs, _ := newTestSystem(t)
	existing := observe.NewRecord().With("a", 1)
	ob := rs.Observe(existing, false)

	rs.ToggleObserving(false)
	assert.False(t, rs.Observing())
	assert.Nil(t, rs.Observe(observe.NewRecord(), false))
	assert.Same(t, ob, rs.Observe(existing, false))

	rs.ToggleObserving(true)
	assert.NotNil(t, rs.Observe(observe.NewRecord(), false))
}

// should not observe while server rendering
func TestServerRenderingSkipsObservation(t *testing.T) {
	rs, _ := newTestSystem(t, observe.WithServerRendering(true))
	assert.Nil(t, rs.Observe(observe.NewRecord().With("a", 1), true))
}

// should count root bindings
func TestObserveAsRootCounts(t *testing.T) {
	rs, _ := newTestSystem(t)
	state := observe.NewRecord()

	ob := rs.Observe(state, false)
	assert.Equal(t, 0, ob.RootCount())
	rs.Observe(state, true)
	rs.Observe(state, true)
	assert.Equal(t, 2, ob.RootCount())
}

// should observe cyclic graphs without looping
func TestObserveCyclicGraph(t *testing.T) {
	rs, _ := newTestSystem(t)
	a := observe.NewRecord()
	b := observe.NewRecord().With("a", a)
	a.With("b", b)
	l := observe.NewList()
	l.Push(l, a)

	rs.Observe(a, false)
	rs.Observe(l, false)

	assert.NotNil(t, observe.ObserverOf(a))
	assert.NotNil(t, observe.ObserverOf(b))
	assert.NotNil(t, observe.ObserverOf(l))
	assert.Same(t, a, b.Get("a").(*observe.Record).Get("b").(*observe.Record).Get("a"))
}
