package store

// Helpers shared by every collection. Each one builds a new slice so a
// previously captured snapshot never observes the change.

func replaceByID[T any](items []T, id int64, idOf func(T) int64, fn func(T) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		if idOf(item) == id {
			item = fn(item)
		}
		out[i] = item
	}
	return out
}

func removeByID[T any](items []T, id int64, idOf func(T) int64) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}

func appendItem[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

// Contains reports whether any item carries id
func Contains[T any](items []T, id int64, idOf func(T) int64) bool {
	for _, item := range items {
		if idOf(item) == id {
			return true
		}
	}
	return false
}
