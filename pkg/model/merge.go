package model

// Mergeable is implemented by every data point type. Merge applies a partial
// update on top of the receiver and returns the resulting snapshot. The
// receiver and the returned value are independent: maps are never mutated in
// place, so a previously published snapshot stays valid for readers.
type Mergeable[T any] interface {
	Merge(partial T) T
}

// mergeScalar keeps the current value unless the incoming one is present.
// A nil incoming field means "unchanged", never "cleared".
func mergeScalar[T any](cur, in *T) *T {
	if in != nil {
		return in
	}
	return cur
}

// mergeNested merges an optional nested object. An incoming object is adopted
// wholesale when there is no current one, otherwise merged field by field.
func mergeNested[T Mergeable[T]](cur, in *T) *T {
	if in == nil {
		return cur
	}
	if cur == nil {
		return in
	}
	merged := (*cur).Merge(*in)
	return &merged
}

// mergeMap unions the keys of both maps into a fresh map. Values present in
// both are merged recursively, keys only present in the incoming update are
// inserted, existing keys are never removed.
func mergeMap[K comparable, V Mergeable[V]](cur, in map[K]V) map[K]V {
	if in == nil {
		return cur
	}
	out := make(map[K]V, len(cur)+len(in))
	for k, v := range cur {
		out[k] = v
	}
	for k, v := range in {
		if existing, ok := out[k]; ok {
			out[k] = existing.Merge(v)
		} else {
			out[k] = v
		}
	}
	return out
}

// mergeSlice replaces the current sequence when the update carries one.
// The upstream feed resends full lists on change, so there is no
// element-wise merge for plain sequences.
func mergeSlice[T any](cur, in []T) []T {
	if in == nil {
		return cur
	}
	return in
}
