package auth

import "fmt"

const (
	// DefaultRejectedMessage is shown when the server rejects a request
	// without a message.
	DefaultRejectedMessage = "Something went wrong"
	// UnreachableMessage is shown when the server cannot be reached or its
	// reply cannot be read.
	UnreachableMessage = "Failed to connect to the server"
)

// ErrorKind classifies an auth failure.
type ErrorKind string

const (
	// KindRejected means the server answered with success=false.
	KindRejected ErrorKind = "rejected"
	// KindUnreachable means the request never produced a readable answer.
	KindUnreachable ErrorKind = "unreachable"
	// KindInvalid means the request failed local validation and was not sent.
	KindInvalid ErrorKind = "invalid"
)

// Error is returned by every failed auth call. Message is safe to show to
// the user as-is.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("auth: %s: %s", e.Op, e.Message)
}

// Notice returns the user-facing message.
func (e *Error) Notice() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
