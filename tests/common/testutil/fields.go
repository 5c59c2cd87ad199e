//go:build unit || e2e

package testutil

import "strings"

// Field sets key to value, or removes it when value is nil. A dotted key such
// as "rentalItems.0.quantity" walks into nested objects and arrays.
func Field(key string, value any) func(m map[string]any) {
	return func(m map[string]any) {
		parts := strings.Split(key, ".")
		parent, ok := walk(m, parts[:len(parts)-1])
		if !ok {
			return
		}
		last := parts[len(parts)-1]
		if value == nil {
			delete(parent, last)
			return
		}
		parent[last] = value
	}
}

func walk(m map[string]any, path []string) (map[string]any, bool) {
	var cur any = m
	for _, p := range path {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[p]
		case []any:
			i, ok := index(p, len(node))
			if !ok {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	obj, ok := cur.(map[string]any)
	return obj, ok
}

func index(s string, n int) (int, bool) {
	i := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		i = i*10 + int(r-'0')
	}
	return i, s != "" && i < n
}
