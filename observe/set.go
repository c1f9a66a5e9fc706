package observe

import (
	"fmt"
	"math"
)

// SetProperty writes key on target and makes it reactive when target is an
// observed Record that did not have key yet. It returns value in every case;
// misuse is reported as a development warning, never as an error.
//
// List targets take a non-negative key of any integer type: the list grows
// if needed and the write goes through Splice, so it notifies and observes
// value.
func (rs *System) SetProperty(target any, key any, value any) any {
	switch t := target.(type) {
	case *List:
		if t == nil {
			break
		}
		i, ok := listIndex(key)
		if !ok {
			rs.warn(ErrInvalidKey, "list keys must be non-negative integer indexes", "key", fmt.Sprint(key))
			return value
		}
		t.SetLength(max(t.Len(), i))
		t.Splice(i, 1, value)
		return value

	case *Record:
		if t == nil {
			break
		}
		k, ok := key.(string)
		if !ok {
			rs.warn(ErrInvalidKey, "record keys must be strings", "key", fmt.Sprint(key))
			return value
		}
		if t.Has(k) {
			if err := t.Set(k, value); err != nil {
				rs.warn(err, "cannot assign existing property", "key", k)
			}
			return value
		}

		ob := t.ob
		if t.instance || (ob != nil && ob.rootCount > 0) {
			rs.warn(ErrRootTarget, "avoid adding reactive properties to an instance or its root data at runtime, declare them upfront", "key", k)
			return value
		}
		if ob == nil {
			if err := t.Set(k, value); err != nil {
				rs.warn(err, "cannot add property", "key", k)
			}
			return value
		}
		if err := rs.defineReactive(t, k, propertyConfig{value: value, hasValue: true}); err != nil {
			rs.warn(err, "cannot add reactive property", "key", k)
			return value
		}
		ob.dep.Notify()
		return value
	}

	rs.warn(ErrInvalidTarget, "cannot set reactive property", "target", fmt.Sprintf("%T", target), "key", fmt.Sprint(key))
	return value
}

// DeleteProperty removes key from target and notifies the target's
// structural dep. List indexes are removed through Splice.
func (rs *System) DeleteProperty(target any, key any) {
	switch t := target.(type) {
	case *List:
		if t == nil {
			break
		}
		i, ok := listIndex(key)
		if !ok {
			rs.warn(ErrInvalidKey, "list keys must be non-negative integer indexes", "key", fmt.Sprint(key))
			return
		}
		t.Splice(i, 1)
		return

	case *Record:
		if t == nil {
			break
		}
		k, ok := key.(string)
		if !ok {
			rs.warn(ErrInvalidKey, "record keys must be strings", "key", fmt.Sprint(key))
			return
		}
		ob := t.ob
		if t.instance || (ob != nil && ob.rootCount > 0) {
			rs.warn(ErrRootTarget, "avoid deleting properties on an instance or its root data, set them to nil instead", "key", k)
			return
		}
		if !t.Has(k) {
			return
		}
		if err := t.Delete(k); err != nil {
			rs.warn(err, "cannot delete property", "key", k)
			return
		}
		if ob == nil {
			return
		}
		ob.dep.Notify()
		return
	}

	rs.warn(ErrInvalidTarget, "cannot delete reactive property", "target", fmt.Sprintf("%T", target), "key", fmt.Sprint(key))
}

// listIndex converts a non-negative integer of any kind to an index.
func listIndex(key any) (int, bool) {
	var i int64
	switch k := key.(type) {
	case int:
		i = int64(k)
	case int8:
		i = int64(k)
	case int16:
		i = int64(k)
	case int32:
		i = int64(k)
	case int64:
		i = k
	case uint:
		if uint64(k) > math.MaxInt {
			return 0, false
		}
		i = int64(k)
	case uint8:
		i = int64(k)
	case uint16:
		i = int64(k)
	case uint32:
		i = int64(k)
	case uint64:
		if k > math.MaxInt {
			return 0, false
		}
		i = int64(k)
	default:
		return 0, false
	}
	if i < 0 || i > math.MaxInt {
		return 0, false
	}
	return int(i), true
}
