package jsonvalue

import (
	"regexp"
	"strconv"
)

// Accept decides whether a value found under a matching key is usable.
type Accept func(Value) bool

// NonNull accepts anything but null.
func NonNull(v Value) bool {
	return !v.IsNull()
}

// ScalarOrContainer accepts strings, numbers, arrays and objects.
func ScalarOrContainer(v Value) bool {
	return v.IsScalar() || v.IsContainer()
}

// Find returns the first non-null value whose key matches pattern.
func Find(root Value, pattern *regexp.Regexp) (Value, bool) {
	return FindFunc(root, pattern, NonNull)
}

// FindFunc searches root depth-first with an explicit LIFO stack.
//
// A popped object is examined in member order and the first matching key
// whose value passes accept is returned at once. Nested containers seen on
// the way are pushed, so the last nested container of the popped object is
// searched next. Arrays are keyed by decimal index. Containers are visited
// at most once, which also terminates on cyclic values.
func FindFunc(root Value, pattern *regexp.Regexp, accept Accept) (Value, bool) {
	if !root.IsContainer() {
		return Value{}, false
	}

	stack := []Value{root}
	seen := make(map[any]struct{})

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := identity(cur)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		var found Value
		var ok bool
		each(cur, func(key string, v Value) bool {
			if pattern.MatchString(key) && accept(v) {
				found, ok = v, true
				return false
			}
			if v.IsContainer() {
				stack = append(stack, v)
			}
			return true
		})
		if ok {
			return found, true
		}
	}

	return Value{}, false
}

func identity(v Value) any {
	if v.kind == KindArray {
		return v.arr
	}
	return v.obj
}

func each(v Value, fn func(key string, v Value) bool) {
	switch v.kind {
	case KindObject:
		for _, m := range v.obj.Members {
			if !fn(m.Key, m.Value) {
				return
			}
		}
	case KindArray:
		for i, item := range v.arr.Items {
			if !fn(strconv.Itoa(i), item) {
				return
			}
		}
	}
}
