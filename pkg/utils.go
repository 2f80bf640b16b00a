package pkg

import "sort"

func Filter[T any](items []T, predicate func(T) bool) []T {
	filtered := []T{}
	for _, item := range items {
		if predicate(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

func SortedKeys[V any](m Map[string, V]) []string {
	keys := m.Keys()
	sort.Strings(keys)
	return keys
}
