package observe

import "github.com/petermattis/goid"

// targetStack is the register of subscribers collecting dependencies on one
// goroutine. The top entry is the active one; a nil entry means untracked.
type targetStack struct {
	subs []Subscriber
}

func (rs *System) stackFor(gid int64) *targetStack {
	if s, ok := rs.targets.Load(gid); ok {
		return s.(*targetStack)
	}
	s := &targetStack{}
	rs.targets.Store(gid, s)
	return s
}

// CurrentTarget returns the subscriber collecting dependencies on the calling
// goroutine, or nil.
func (rs *System) CurrentTarget() Subscriber {
	s, ok := rs.targets.Load(goid.Get())
	if !ok {
		return nil
	}
	subs := s.(*targetStack).subs
	if len(subs) == 0 {
		return nil
	}
	return subs[len(subs)-1]
}

// WithTarget runs fn with sub as the active subscriber and restores the
// previous one afterwards, even if fn panics. A nil sub runs fn untracked.
func (rs *System) WithTarget(sub Subscriber, fn func()) {
	gid := goid.Get()
	s := rs.stackFor(gid)
	s.subs = append(s.subs, sub)
	defer func() {
		s.subs[len(s.subs)-1] = nil
		s.subs = s.subs[:len(s.subs)-1]
		if len(s.subs) == 0 {
			rs.targets.Delete(gid)
		}
	}()

	fn()
}

// Untrack runs fn without attributing its reads to the active subscriber.
func (rs *System) Untrack(fn func()) {
	rs.WithTarget(nil, fn)
}
