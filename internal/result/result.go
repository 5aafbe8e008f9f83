// Package result carries the outcome of every fallible storefront call.
// Expected failures travel in the failure branch instead of an error chain,
// so callers branch once and render the message as-is.
package result

const (
	// ServerErrMsg is shown for any 5xx response. Server internals never leak.
	ServerErrMsg = "An internal server error occured, please try again later"
	// NetworkErrMsg is shown when no HTTP response arrived at all.
	NetworkErrMsg = "Network error occurred, cannot connect to our servers, please try again later"
)

type Result[T any] struct {
	OK         bool
	Content    T
	ErrMessage string
}

func Ok[T any](content T) Result[T] {
	return Result[T]{OK: true, Content: content}
}

func Fail[T any](msg string) Result[T] {
	return Result[T]{OK: false, ErrMessage: msg}
}

// ServerError is the failure every 5xx translates to.
func ServerError[T any]() Result[T] {
	return Fail[T](ServerErrMsg)
}

// NetworkError is the failure every transport-level error translates to.
func NetworkError[T any]() Result[T] {
	return Fail[T](NetworkErrMsg)
}
