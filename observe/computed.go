package observe

// Computed is a cached derived value. It only re-evaluates when read after
// one of its dependencies changed.
type Computed struct {
	w *Watcher
}

func (rs *System) Computed(fn func() (any, error)) *Computed {
	return &Computed{
		w: rs.Watch(fn, nil, Lazy()),
	}
}

// Value returns the cached value, evaluating first if stale. Inside another
// computation the reader also becomes dependent on the computed's sources.
func (c *Computed) Value() any {
	if c.w.dirty {
		c.w.Evaluate()
	}
	if c.w.rs.CurrentTarget() != nil {
		c.w.Depend()
	}
	return c.w.value
}

func (c *Computed) Watcher() *Watcher {
	return c.w
}

func (c *Computed) Teardown() {
	c.w.Teardown()
}
