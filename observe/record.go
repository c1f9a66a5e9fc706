package observe

import (
	"slices"
	"sort"
)

// Descriptor describes one own property of a Record. A property is either a
// data property (Value, Writable) or an accessor (Get, Set).
type Descriptor struct {
	Value    any
	Writable bool

	Get func() any
	Set func(v any)

	Enumerable   bool
	Configurable bool
}

func (d Descriptor) IsAccessor() bool {
	return d.Get != nil || d.Set != nil
}

// DataDescriptor is the descriptor a plain assignment creates.
func DataDescriptor(v any) Descriptor {
	return Descriptor{
		Value:        v,
		Writable:     true,
		Enumerable:   true,
		Configurable: true,
	}
}

// Record is a dynamically shaped object: an ordered set of own properties.
// Reads and writes go through the property descriptors, which is how an
// Observer intercepts them.
type Record struct {
	keys  []string
	props map[string]*Descriptor

	ob *Observer

	notExtensible bool
	raw           bool
	instance      bool
}

func NewRecord() *Record {
	return &Record{
		props: map[string]*Descriptor{},
	}
}

// NewRecordFrom copies m into a new Record. Keys are added in sorted order so
// that iteration is deterministic.
func NewRecordFrom(m map[string]any) *Record {
	r := NewRecord()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.With(k, m[k])
	}
	return r
}

// NewInstance creates a Record marking a framework root instance. Instances
// are never observed themselves and refuse runtime key addition.
func NewInstance() *Record {
	r := NewRecord()
	r.instance = true
	return r
}

// With is Set for building values in one expression: it returns r for
// chaining and drops the write when Set would fail. Existing keys keep their
// descriptor, so a reactive property stays reactive.
func (r *Record) With(key string, v any) *Record {
	_ = r.Set(key, v)
	return r
}

// Get reads key through its getter, if any. Missing keys read as nil.
func (r *Record) Get(key string) any {
	v, _ := r.Lookup(key)
	return v
}

func (r *Record) Lookup(key string) (any, bool) {
	p, ok := r.props[key]
	if !ok {
		return nil, false
	}
	if p.IsAccessor() {
		if p.Get == nil {
			return nil, true
		}
		return p.Get(), true
	}
	return p.Value, true
}

// Set assigns key. New keys become plain data properties; they are not
// reactive even on an observed record (see System.SetProperty).
func (r *Record) Set(key string, v any) error {
	p, ok := r.props[key]
	if !ok {
		if r.notExtensible {
			return ErrNotExtensible
		}
		d := DataDescriptor(v)
		r.keys = append(r.keys, key)
		r.props[key] = &d
		return nil
	}

	if p.IsAccessor() {
		if p.Set == nil {
			return ErrReadOnly
		}
		p.Set(v)
		return nil
	}
	if !p.Writable {
		return ErrReadOnly
	}
	p.Value = v
	return nil
}

// Has reports whether key is an own property.
func (r *Record) Has(key string) bool {
	_, ok := r.props[key]
	return ok
}

// Keys returns the own enumerable keys in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, len(r.keys))
	for _, k := range r.keys {
		if r.props[k].Enumerable {
			keys = append(keys, k)
		}
	}
	return keys
}

func (r *Record) Len() int {
	return len(r.keys)
}

// Delete removes an own property. Deleting a missing key is not an error.
func (r *Record) Delete(key string) error {
	p, ok := r.props[key]
	if !ok {
		return nil
	}
	if !p.Configurable {
		return ErrNotConfigurable
	}
	delete(r.props, key)
	r.keys = slices.DeleteFunc(r.keys, func(k string) bool { return k == key })
	return nil
}

func (r *Record) OwnPropertyDescriptor(key string) (Descriptor, bool) {
	p, ok := r.props[key]
	if !ok {
		return Descriptor{}, false
	}
	return *p, true
}

// DefineProperty installs d for key, keeping the key's position if it
// already exists.
func (r *Record) DefineProperty(key string, d Descriptor) error {
	p, ok := r.props[key]
	if !ok {
		if r.notExtensible {
			return ErrNotExtensible
		}
		r.keys = append(r.keys, key)
		r.props[key] = &d
		return nil
	}
	if !p.Configurable {
		return ErrNotConfigurable
	}
	*p = d
	return nil
}

func (r *Record) PreventExtensions() *Record {
	r.notExtensible = true
	return r
}

// Seal prevents extensions and makes every property non-configurable.
func (r *Record) Seal() *Record {
	r.notExtensible = true
	for _, p := range r.props {
		p.Configurable = false
	}
	return r
}

// Freeze seals r and makes every data property read-only.
func (r *Record) Freeze() *Record {
	r.Seal()
	for _, p := range r.props {
		if !p.IsAccessor() {
			p.Writable = false
		}
	}
	return r
}

func (r *Record) IsExtensible() bool {
	return !r.notExtensible
}

func (r *Record) IsSealed() bool {
	if !r.notExtensible {
		return false
	}
	for _, p := range r.props {
		if p.Configurable {
			return false
		}
	}
	return true
}

func (r *Record) IsFrozen() bool {
	if !r.IsSealed() {
		return false
	}
	for _, p := range r.props {
		if !p.IsAccessor() && p.Writable {
			return false
		}
	}
	return true
}

// MarkRaw excludes r from observation.
func (r *Record) MarkRaw() *Record {
	r.raw = true
	return r
}

func (r *Record) IsRaw() bool {
	return r.raw
}

func (r *Record) IsInstance() bool {
	return r.instance
}
