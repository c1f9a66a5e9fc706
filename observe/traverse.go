package observe

import mapset "github.com/deckarep/golang-set/v2"

// traverse reads every nested property of v so that the active target
// depends on all of them.
func (rs *System) traverse(v any) {
	seen := mapset.NewThreadUnsafeSet[any]()
	traverseValue(v, seen)
}

func traverseValue(v any, seen mapset.Set[any]) {
	switch x := v.(type) {
	case *Record:
		if x == nil || x.raw || x.IsFrozen() || !seen.Add(x) {
			return
		}
		if x.ob != nil {
			x.ob.dep.Depend()
		}
		for _, key := range x.Keys() {
			traverseValue(x.Get(key), seen)
		}
	case *List:
		if x == nil || x.raw || x.frozen || !seen.Add(x) {
			return
		}
		if x.ob != nil {
			x.ob.dep.Depend()
		}
		for _, item := range x.Items() {
			traverseValue(item, seen)
		}
	}
}
