package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyArguments  = errors.New("protocol: too many arguments")
	ErrTooManySchemas    = errors.New("protocol: too many schemas")
	ErrUnknownField      = errors.New("protocol: unknown field")
	ErrIndexOutOfRange   = errors.New("protocol: index out of range")
	ErrShortFrame        = errors.New("protocol: short frame")
	ErrInvalidLength     = errors.New("protocol: invalid argument length")
	ErrCommandOutOfRange = errors.New("protocol: command out of range")
	ErrUnassignedAddress = errors.New("protocol: unassigned address")
	ErrRegistrySealed    = errors.New("protocol: registry sealed")
	ErrInvalidSchema     = errors.New("protocol: invalid schema")
	ErrInvalidArgs       = errors.New("protocol: invalid arguments")
	ErrNoCommand         = errors.New("protocol: no command")
)

// FieldError reports a failed named or positional field access.
type FieldError struct {
	Field string
	Index int
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%v: %q", e.Err, e.Field)
	}
	return fmt.Sprintf("%v: %d", e.Err, e.Index)
}

func (e *FieldError) Unwrap() error { return e.Err }

// ArgsError reports argv bytes a command's decode hook rejected.
type ArgsError struct {
	Command string
	Argv    []byte
	Err     error
}

func (e *ArgsError) Error() string {
	return fmt.Sprintf("protocol: command=%s argv=% x: %v", e.Command, e.Argv, e.Err)
}

func (e *ArgsError) Unwrap() error { return e.Err }

// NeedArgs returns an ErrInvalidArgs error unless argv holds exactly n bytes.
func NeedArgs(argv []byte, n int) error {
	if len(argv) != n {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidArgs, n, len(argv))
	}
	return nil
}
