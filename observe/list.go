package observe

import (
	"fmt"
	"slices"
	"strings"
)

// List is a sequence whose in-place mutations can be intercepted. Only the
// seven mutators notify once the list is observed; At, SetIndex and
// SetLength are plain, untracked buffer operations.
type List struct {
	items []any

	ob   *Observer
	hook mutationHook

	frozen bool
	raw    bool
}

func NewList(items ...any) *List {
	return &List{items: slices.Clone(items)}
}

func (l *List) Len() int {
	return len(l.items)
}

// At returns the item at i, or nil when i is out of range.
func (l *List) At(i int) any {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Items returns a copy of the backing buffer.
func (l *List) Items() []any {
	return slices.Clone(l.items)
}

// SetIndex writes i directly, growing the list with nils if needed. The write
// is not intercepted.
func (l *List) SetIndex(i int, v any) {
	if l.frozen || i < 0 {
		return
	}
	if i >= len(l.items) {
		l.SetLength(i + 1)
	}
	l.items[i] = v
}

// SetLength truncates or nil-pads the list. Not intercepted.
func (l *List) SetLength(n int) {
	if l.frozen || n < 0 {
		return
	}
	if n <= len(l.items) {
		clear(l.items[n:])
		l.items = l.items[:n]
		return
	}
	l.items = append(l.items, make([]any, n-len(l.items))...)
}

// Freeze makes every mutator a no-op. Frozen lists are never observed.
func (l *List) Freeze() *List {
	l.frozen = true
	return l
}

func (l *List) IsFrozen() bool {
	return l.frozen
}

func (l *List) MarkRaw() *List {
	l.raw = true
	return l
}

func (l *List) IsRaw() bool {
	return l.raw
}

// Push appends items and returns the new length.
func (l *List) Push(items ...any) int {
	if l.frozen {
		return len(l.items)
	}
	l.items = append(l.items, items...)
	l.mutated(methodPush, items)
	return len(l.items)
}

// Pop removes and returns the last item.
func (l *List) Pop() any {
	if l.frozen {
		return nil
	}
	var last any
	if n := len(l.items); n > 0 {
		last = l.items[n-1]
		l.items[n-1] = nil
		l.items = l.items[:n-1]
	}
	l.mutated(methodPop, nil)
	return last
}

// Shift removes and returns the first item.
func (l *List) Shift() any {
	if l.frozen {
		return nil
	}
	var first any
	if len(l.items) > 0 {
		first = l.items[0]
		l.items = slices.Delete(l.items, 0, 1)
	}
	l.mutated(methodShift, nil)
	return first
}

// Unshift inserts items at the front and returns the new length.
func (l *List) Unshift(items ...any) int {
	if l.frozen {
		return len(l.items)
	}
	l.items = slices.Insert(l.items, 0, items...)
	l.mutated(methodUnshift, items)
	return len(l.items)
}

// Splice removes deleteCount items at start, inserts items in their place
// and returns the removed items. A negative start counts from the end;
// start and deleteCount are clamped to the list bounds.
func (l *List) Splice(start, deleteCount int, items ...any) []any {
	if l.frozen {
		return nil
	}
	n := len(l.items)
	switch {
	case start < 0:
		start = max(n+start, 0)
	case start > n:
		start = n
	}
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := slices.Clone(l.items[start : start+deleteCount])
	l.items = slices.Replace(l.items, start, start+deleteCount, items...)
	l.mutated(methodSplice, items)
	return removed
}

// Sort sorts in place with cmp. A nil cmp orders items by their string form.
func (l *List) Sort(cmp func(a, b any) int) {
	if l.frozen {
		return
	}
	if cmp == nil {
		cmp = func(a, b any) int {
			return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
		}
	}
	slices.SortStableFunc(l.items, cmp)
	l.mutated(methodSort, nil)
}

func (l *List) Reverse() {
	if l.frozen {
		return
	}
	slices.Reverse(l.items)
	l.mutated(methodReverse, nil)
}

func (l *List) mutated(method string, inserted []any) {
	if l.hook != nil {
		l.hook(method, inserted)
	}
}
