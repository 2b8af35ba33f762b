package lox

// Map работает как lo.Map, но iteratee без индекса, чтобы передавать
// готовые конвертеры вида newRESTX.
func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}
