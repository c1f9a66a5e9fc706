package observe

import (
	"regexp"
	"strconv"
	"strings"
)

var bailRE = regexp.MustCompile(`[^\w.$]`)

// parsePath turns "a.b.0.c" into a getter walking Records by key and Lists
// by index. Anything but word characters, dots and $ is rejected.
func parsePath(path string) (func(root *Record) any, bool) {
	if path == "" || bailRE.MatchString(path) {
		return nil, false
	}
	segments := strings.Split(path, ".")

	return func(root *Record) any {
		var cur any = root
		for _, seg := range segments {
			switch x := cur.(type) {
			case *Record:
				if x == nil {
					return nil
				}
				cur = x.Get(seg)
			case *List:
				i, err := strconv.Atoi(seg)
				if x == nil || err != nil {
					return nil
				}
				cur = x.At(i)
			default:
				return nil
			}
		}
		return cur
	}, true
}

// WatchPath watches a dotted path below root. It warns and returns nil if
// the path is malformed.
func (rs *System) WatchPath(root *Record, path string, cb func(newValue, oldValue any), opts ...WatchOption) *Watcher {
	get, ok := parsePath(path)
	if !ok {
		rs.warn(ErrInvalidPath, "watch path accepts only dot-delimited keys", "path", path)
		return nil
	}
	return rs.Watch(func() (any, error) {
		return get(root), nil
	}, cb, opts...)
}
