package observe_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/delaneyj/observeparty/observe"
	"github.com/stretchr/testify/assert"
)

// countingSub is a hand-rolled Subscriber that counts updates.
type countingSub struct {
	id       uint64
	deps     []*observe.Dep
	updates  int
	onUpdate func()
}

func (p *countingSub) ID() uint64 { return p.id }

func (p *countingSub) AddDep(d *observe.Dep) {
	p.deps = append(p.deps, d)
	d.AddSub(p)
}

func (p *countingSub) Update() {
	p.updates++
	if p.onUpdate != nil {
		p.onUpdate()
	}
}

// newTestSystem returns a System whose warnings land in the returned buffer
// and whose computation errors fail the test.
func newTestSystem(t *testing.T, opts ...observe.Option) (*observe.System, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	base := []observe.Option{
		observe.WithLogger(logger),
		observe.WithErrorHandler(func(from observe.Subscriber, err error) {
			assert.FailNow(t, err.Error())
		}),
	}
	return observe.NewSystem(append(base, opts...)...), buf
}

// counter watches getter and counts callback invocations.
func counter(rs *observe.System, getter func() any) *int {
	n := new(int)
	rs.Watch(func() (any, error) {
		return getter(), nil
	}, func(newValue, oldValue any) {
		*n++
	})
	return n
}

// effectRuns counts every run of an effect, including the first.
func effectRuns(rs *observe.System, fn func()) *int {
	n := new(int)
	rs.Effect(func() error {
		*n++
		fn()
		return nil
	})
	return n
}
