package state

// Status is the variant of a UIState
type Status int

const (
	StatusLoading Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// UIState is the tri-state value a screen renders: Loading, Success with
// data, or Error with a message.
type UIState[T any] struct {
	Status  Status
	Data    T      // Set when Status == StatusSuccess
	Message string // Set when Status == StatusError
}

// Loading returns a loading state
func Loading[T any]() UIState[T] {
	return UIState[T]{Status: StatusLoading}
}

// Success returns a success state carrying data
func Success[T any](data T) UIState[T] {
	return UIState[T]{Status: StatusSuccess, Data: data}
}

// Failure returns an error state carrying err's message
func Failure[T any](err error) UIState[T] {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return UIState[T]{Status: StatusError, Message: msg}
}

func (s UIState[T]) IsLoading() bool { return s.Status == StatusLoading }
func (s UIState[T]) IsSuccess() bool { return s.Status == StatusSuccess }
func (s UIState[T]) IsError() bool   { return s.Status == StatusError }
