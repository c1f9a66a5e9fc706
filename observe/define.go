package observe

type propertyConfig struct {
	value    any
	hasValue bool
	onWrite  func(newValue any)
	shallow  bool
}

type PropertyOption func(*propertyConfig)

// WithValue sets the initial value instead of reading the existing property.
func WithValue(v any) PropertyOption {
	return func(c *propertyConfig) {
		c.value = v
		c.hasValue = true
	}
}

// WithOnWrite is called with the new value on every effective write, in
// development only. It is meant for warnings about suspicious mutations.
func WithOnWrite(fn func(newValue any)) PropertyOption {
	return func(c *propertyConfig) {
		c.onWrite = fn
	}
}

// Shallow keeps the property's values from being observed.
func Shallow() PropertyOption {
	return func(c *propertyConfig) {
		c.shallow = true
	}
}

// DefineReactive turns obj[key] into a tracked property. A non-configurable
// existing property is left alone without error. ErrNotExtensible is
// returned when key is new and obj does not accept new keys.
func (rs *System) DefineReactive(obj *Record, key string, opts ...PropertyOption) error {
	var cfg propertyConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return rs.defineReactive(obj, key, cfg)
}

func (rs *System) defineReactive(obj *Record, key string, cfg propertyConfig) error {
	property, exists := obj.OwnPropertyDescriptor(key)
	if exists && !property.Configurable {
		return nil
	}
	if !exists && !obj.IsExtensible() {
		return ErrNotExtensible
	}

	dep := rs.NewDep()
	getter, setter := property.Get, property.Set

	val := cfg.value
	if (getter == nil || setter != nil) && !cfg.hasValue {
		val = obj.Get(key)
	}

	var childOb *Observer
	if !cfg.shallow {
		childOb = rs.Observe(val, false)
	}

	current := func() any {
		if getter != nil {
			return getter()
		}
		return val
	}

	reactiveGetter := func() any {
		value := current()
		if rs.CurrentTarget() != nil {
			dep.Depend()
			if childOb != nil {
				childOb.dep.Depend()
				if l, ok := value.(*List); ok && l != nil {
					dependList(l, map[*List]struct{}{})
				}
			}
		}
		return value
	}

	reactiveSetter := func(newVal any) {
		if sameValue(current(), newVal) {
			return
		}
		if !rs.production && cfg.onWrite != nil {
			cfg.onWrite(newVal)
		}
		// accessor without setter
		if getter != nil && setter == nil {
			return
		}
		if setter != nil {
			setter(newVal)
		} else {
			val = newVal
		}
		if !cfg.shallow {
			childOb = rs.Observe(newVal, false)
		}
		dep.Notify()
	}

	if err := obj.DefineProperty(key, Descriptor{
		Get:          reactiveGetter,
		Set:          reactiveSetter,
		Enumerable:   true,
		Configurable: true,
	}); err != nil {
		return err
	}
	rs.metrics.PropertyDefined()
	return nil
}
