// Package observe tracks reads and writes on mutable object graphs and
// re-runs the computations that read whatever changed.
//
// A System wraps *Record and *List values with Observers. Every existing
// record key becomes an intercepted property with its own Dep; list
// mutators notify the list's structural Dep. Watchers, Effects and Computed
// values read those properties while registered as the active target and
// are re-run synchronously when a write reaches one of their Deps.
//
//	rs := observe.NewSystem()
//	state := observe.NewRecord().With("count", 1)
//	rs.Observe(state, true)
//
//	rs.Effect(func() error {
//		log.Printf("count is %v", state.Get("count"))
//		return nil
//	})
//	state.Set("count", 2) // logs "count is 2"
//
// Keys added later through plain Record.Set are not tracked; use
// System.SetProperty and System.DeleteProperty for structural changes.
package observe
