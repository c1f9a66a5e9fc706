package observe

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Watcher is the standard Subscriber. It runs a getter with itself as the
// active target, remembers every Dep the getter read, and re-runs
// synchronously when one of them notifies.
type Watcher struct {
	rs     *System
	id     uint64
	getter func() (any, error)
	cb     func(newValue, oldValue any)

	deep      bool
	lazy      bool
	immediate bool
	dirty     bool
	active    bool

	// deps from the last completed run, and the ones being collected now
	deps      []*Dep
	newDeps   []*Dep
	depIDs    mapset.Set[uint64]
	newDepIDs mapset.Set[uint64]

	value any
}

type WatchOption func(*Watcher)

// Deep makes the watcher read every nested property of its value, so a change
// anywhere below it triggers the callback.
func Deep() WatchOption {
	return func(w *Watcher) {
		w.deep = true
	}
}

// Lazy defers evaluation until Evaluate is called; updates only mark the
// watcher dirty.
func Lazy() WatchOption {
	return func(w *Watcher) {
		w.lazy = true
	}
}

// Immediate calls the callback once with the initial value.
func Immediate() WatchOption {
	return func(w *Watcher) {
		w.immediate = true
	}
}

// Watch creates a Watcher over getter. cb may be nil.
func (rs *System) Watch(getter func() (any, error), cb func(newValue, oldValue any), opts ...WatchOption) *Watcher {
	w := &Watcher{
		rs:        rs,
		id:        nextID(),
		getter:    getter,
		cb:        cb,
		active:    true,
		depIDs:    mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs: mapset.NewThreadUnsafeSet[uint64](),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.dirty = w.lazy

	if !w.lazy {
		w.value = w.Get()
	}
	if w.immediate && w.cb != nil {
		w.cb(w.value, nil)
	}
	return w
}

// Effect runs fn now and again whenever something it read changes.
func (rs *System) Effect(fn func() error) *Watcher {
	return rs.Watch(func() (any, error) {
		return nil, fn()
	}, nil)
}

func (w *Watcher) ID() uint64 {
	return w.id
}

// Value is the result of the last run.
func (w *Watcher) Value() any {
	return w.value
}

func (w *Watcher) Dirty() bool {
	return w.dirty
}

func (w *Watcher) Active() bool {
	return w.active
}

// Get runs the getter, collecting dependencies, and returns its value.
func (w *Watcher) Get() (value any) {
	defer w.cleanupDeps()

	w.rs.WithTarget(w, func() {
		defer func() {
			if r := recover(); r != nil {
				if w.rs.onError == nil {
					panic(r)
				}
				w.rs.handleError(w, &PanicError{Value: r})
			}
		}()

		v, err := w.getter()
		if err != nil {
			w.rs.handleError(w, fmt.Errorf("watcher %d: %w", w.id, err))
		}
		if w.deep {
			w.rs.traverse(v)
		}
		value = v
	})
	return value
}

// AddDep records d for the run in progress and subscribes to it unless the
// previous run already did.
func (w *Watcher) AddDep(d *Dep) {
	id := d.ID()
	if !w.newDepIDs.Add(id) {
		return
	}
	w.newDeps = append(w.newDeps, d)
	if !w.depIDs.Contains(id) {
		d.AddSub(w)
	}
}

// cleanupDeps unsubscribes from deps the last run no longer read.
func (w *Watcher) cleanupDeps() {
	for _, d := range w.deps {
		if !w.newDepIDs.Contains(d.ID()) {
			d.RemoveSub(w)
		}
	}

	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()

	clear(w.deps)
	w.deps, w.newDeps = w.newDeps, w.deps[:0]
}

// Update is called by a Dep when one of the watcher's dependencies changed.
func (w *Watcher) Update() {
	if w.lazy {
		w.dirty = true
		return
	}
	w.Run()
}

// Run re-evaluates the watcher and calls the callback when the value
// changed, is a container, or the watcher is deep.
func (w *Watcher) Run() {
	if !w.active {
		return
	}
	value := w.Get()
	if !sameValue(value, w.value) || isContainer(value) || w.deep {
		old := w.value
		w.value = value
		if w.cb != nil {
			w.cb(value, old)
		}
	}
}

// Evaluate runs a lazy watcher and clears its dirty flag.
func (w *Watcher) Evaluate() any {
	w.value = w.Get()
	w.dirty = false
	return w.value
}

// Depend makes the active target depend on everything this watcher depends on.
func (w *Watcher) Depend() {
	for _, d := range w.deps {
		d.Depend()
	}
}

// Teardown unsubscribes the watcher from all of its deps. It never runs again.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	for _, d := range w.deps {
		d.RemoveSub(w)
	}
	w.active = false
}
