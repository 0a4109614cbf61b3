package utils

// Result carries either the outcome of an async operation or its error on a channel
type Result[T any] struct {
	Data T
	Err  error
}
