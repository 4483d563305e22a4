package functional

func Map[T, V any](slice []T, f func(T) V) []V {
	result := make([]V, len(slice))
	for i, v := range slice {
		result[i] = f(v)
	}
	return result
}

// FilterMap keeps f(v) for every v where f reports ok.
func FilterMap[T, V any](slice []T, f func(T) (V, bool)) []V {
	result := make([]V, 0, len(slice))
	for _, v := range slice {
		if mapped, ok := f(v); ok {
			result = append(result, mapped)
		}
	}
	return result
}
