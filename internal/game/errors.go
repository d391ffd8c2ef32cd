package game

import "errors"

// UserError is a command failure that should be reported to the issuing
// connection only. It never changes world state and is never retried.
type UserError struct {
	msg string
}

func NewUserError(msg string) *UserError {
	return &UserError{msg: msg}
}

func (e *UserError) Error() string {
	return e.msg
}

// IsUserError reports whether err should be relayed to the player rather
// than logged as a server fault.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already attached")
	ErrRoomNotFound   = errors.New("room not found")
)
