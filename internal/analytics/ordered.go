package analytics

// ordered is a map that remembers the order in which keys were first seen.
type ordered[K comparable, V any] struct {
	keys []K
	vals map[K]V
}

func newOrdered[K comparable, V any]() *ordered[K, V] {
	return &ordered[K, V]{vals: make(map[K]V)}
}

// update applies fn to the current value for k, or to the zero value if
// k has not been seen yet.
func (o *ordered[K, V]) update(k K, fn func(V) V) {
	v, ok := o.vals[k]
	if !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = fn(v)
}

func (o *ordered[K, V]) get(k K) V {
	return o.vals[k]
}

func (o *ordered[K, V]) has(k K) bool {
	_, ok := o.vals[k]
	return ok
}

func (o *ordered[K, V]) len() int {
	return len(o.keys)
}

// each visits entries in first-seen order.
func (o *ordered[K, V]) each(fn func(K, V)) {
	for _, k := range o.keys {
		fn(k, o.vals[k])
	}
}
