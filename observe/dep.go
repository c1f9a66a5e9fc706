package observe

import (
	"cmp"
	"slices"
)

// Subscriber is a re-runnable computation. Implementations must be pointer
// types: a Dep tells subscribers apart by identity.
type Subscriber interface {
	ID() uint64

	// AddDep is called by Dep.Depend while the subscriber is the active target.
	// The subscriber decides whether to subscribe back with Dep.AddSub.
	AddDep(d *Dep)

	// Update re-runs the computation after a dependency changed.
	Update()
}

// Dep is the set of subscribers interested in one trackable location.
type Dep struct {
	rs   *System
	id   uint64
	subs []Subscriber
}

// NewDep creates a Dep for collaborators implementing their own trackable
// values.
func (rs *System) NewDep() *Dep {
	return &Dep{
		rs: rs,
		id: nextID(),
	}
}

func (d *Dep) ID() uint64 {
	return d.id
}

func (d *Dep) Len() int {
	return len(d.subs)
}

func (d *Dep) AddSub(sub Subscriber) {
	if slices.Contains(d.subs, sub) {
		return
	}
	d.subs = append(d.subs, sub)
}

func (d *Dep) RemoveSub(sub Subscriber) {
	if i := slices.Index(d.subs, sub); i != -1 {
		d.subs = slices.Delete(d.subs, i, i+1)
	}
}

// Depend links the active subscriber, if any, to this Dep.
func (d *Dep) Depend() {
	if target := d.rs.CurrentTarget(); target != nil {
		target.AddDep(d)
	}
}

// Notify re-runs every subscriber in ascending id order. The list is copied
// first; subscribers re-register or drop themselves while running.
func (d *Dep) Notify() {
	subs := slices.Clone(d.subs)
	slices.SortFunc(subs, func(a, b Subscriber) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	d.rs.metrics.DepNotified(len(subs))

	for _, sub := range subs {
		sub.Update()
	}
}
