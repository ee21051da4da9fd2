package graph

import "fmt"

const (
	codeUnauthenticated = "UNAUTHENTICATED"
	codeBadUserInput    = "BAD_USER_INPUT"
)

// AuthenticationError is returned by operations that need a logged in caller.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string { return e.Message }

func (e *AuthenticationError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": codeUnauthenticated}
}

var errNotAuthenticated = &AuthenticationError{Message: "not authenticated"}

// UserInputError reports rejected input or a failed write. The arguments of
// the failing operation are attached for the client.
type UserInputError struct {
	Message     string
	InvalidArgs map[string]interface{}
	Err         error
}

func (e *UserInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UserInputError) Unwrap() error { return e.Err }

func (e *UserInputError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": codeBadUserInput}
	if len(e.InvalidArgs) > 0 {
		ext["invalidArgs"] = e.InvalidArgs
	}
	return ext
}

func userInputError(msg string, err error, args map[string]interface{}) *UserInputError {
	return &UserInputError{Message: msg, InvalidArgs: args, Err: err}
}
