package observe

// Observer marks a Record or List as tracked. Its dep fires on structural
// changes: keys added or removed through the System, and list mutations.
type Observer struct {
	rs        *System
	value     any
	dep       *Dep
	rootCount int
}

// Observe returns the Observer of value, creating one if value is an
// eligible Record or List. It returns nil for anything else. asRoot counts
// one more binding that uses value as its root data.
func (rs *System) Observe(value any, asRoot bool) *Observer {
	var ob *Observer

	switch v := value.(type) {
	case *Record:
		if v == nil {
			return nil
		}
		if v.ob != nil {
			ob = v.ob
		} else if rs.canObserve() && v.IsExtensible() && !v.raw && !v.instance {
			ob = rs.newRecordObserver(v)
		}
	case *List:
		if v == nil {
			return nil
		}
		if v.ob != nil {
			ob = v.ob
		} else if rs.canObserve() && !v.frozen && !v.raw {
			ob = rs.newListObserver(v)
		}
	default:
		return nil
	}

	if asRoot && ob != nil {
		ob.rootCount++
	}
	return ob
}

// ObserverOf returns the Observer already attached to v, without creating one.
func ObserverOf(v any) *Observer {
	switch x := v.(type) {
	case *Record:
		if x != nil {
			return x.ob
		}
	case *List:
		if x != nil {
			return x.ob
		}
	}
	return nil
}

func (rs *System) canObserve() bool {
	return rs.Observing() && !rs.serverRendering
}

func (rs *System) newRecordObserver(r *Record) *Observer {
	ob := &Observer{rs: rs, value: r, dep: rs.NewDep()}
	// the marker goes on before walking so cycles stop here
	r.ob = ob
	rs.metrics.ObserverCreated()

	for _, key := range r.Keys() {
		rs.defineReactive(r, key, propertyConfig{})
	}
	return ob
}

func (rs *System) newListObserver(l *List) *Observer {
	ob := &Observer{rs: rs, value: l, dep: rs.NewDep()}
	l.ob = ob
	rs.metrics.ObserverCreated()

	ob.intercept(l)
	ob.observeItems(l.Items())
	return ob
}

func (ob *Observer) observeItems(items []any) {
	for _, item := range items {
		ob.rs.Observe(item, false)
	}
}

// Value returns the observed *Record or *List.
func (ob *Observer) Value() any {
	return ob.value
}

// Dep returns the structural dependency set.
func (ob *Observer) Dep() *Dep {
	return ob.dep
}

// RootCount is how many bindings use the value as their root data.
func (ob *Observer) RootCount() int {
	return ob.rootCount
}
