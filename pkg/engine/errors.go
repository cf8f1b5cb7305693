package engine

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal engine error.
type Kind int

const (
	UnterminatedBlock Kind = iota + 1
	InvalidToken
	StepLimit
)

func (k Kind) String() string {
	switch k {
	case UnterminatedBlock:
		return "unterminated block"
	case InvalidToken:
		return "invalid token"
	case StepLimit:
		return "step limit"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinels for errors.Is.
var (
	ErrUnterminatedBlock = errors.New("unterminated block")
	ErrInvalidToken      = errors.New("invalid token")
	ErrStepLimit         = errors.New("step limit exceeded")
)

// Error is a fatal condition raised while running a program.
type Error struct {
	Kind  Kind
	Line  int
	Token byte
	// Limit is set for StepLimit.
	Limit int
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnterminatedBlock:
		return fmt.Sprintf("Unterminated Block `%c` in line %d", e.Token, e.Line)
	case InvalidToken:
		return fmt.Sprintf("Invalid Token `%c` in line %d", e.Token, e.Line)
	case StepLimit:
		return fmt.Sprintf("Step limit of %d exceeded in line %d", e.Limit, e.Line)
	}
	return fmt.Sprintf("%s in line %d", e.Kind, e.Line)
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnterminatedBlock:
		return e.Kind == UnterminatedBlock
	case ErrInvalidToken:
		return e.Kind == InvalidToken
	case ErrStepLimit:
		return e.Kind == StepLimit
	}
	return false
}
