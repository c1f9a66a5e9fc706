package observe

const (
	methodPush    = "push"
	methodPop     = "pop"
	methodShift   = "shift"
	methodUnshift = "unshift"
	methodSplice  = "splice"
	methodSort    = "sort"
	methodReverse = "reverse"
)

// MutatingMethods lists the List operations that notify an observed list.
var MutatingMethods = []string{
	methodPush,
	methodPop,
	methodShift,
	methodUnshift,
	methodSplice,
	methodSort,
	methodReverse,
}

// mutationHook runs after the native operation has changed the buffer.
type mutationHook func(method string, inserted []any)

// intercept routes l's mutators through ob: inserted items get observed and
// the list's structural dep fires on every call, whether or not anything
// actually moved.
func (ob *Observer) intercept(l *List) {
	l.hook = func(method string, inserted []any) {
		if len(inserted) > 0 {
			ob.observeItems(inserted)
		}
		ob.rs.metrics.ListMutated(method)
		ob.dep.Notify()
	}
}

// dependList registers the structural dep of every observed item in l, since
// reading an item by index cannot be intercepted.
func dependList(l *List, seen map[*List]struct{}) {
	if _, ok := seen[l]; ok {
		return
	}
	seen[l] = struct{}{}

	for _, item := range l.items {
		if ob := ObserverOf(item); ob != nil {
			ob.dep.Depend()
		}
		if nested, ok := item.(*List); ok && nested != nil {
			dependList(nested, seen)
		}
	}
}
