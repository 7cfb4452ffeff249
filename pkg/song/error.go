package song

import "errors"

// Error kinds. A compile error unwraps to exactly one of these.
var (
	ErrStructure              = errors.New("song: malformed structure")
	ErrUnknownToken           = errors.New("song: unrecognized token")
	ErrMalformedNote          = errors.New("song: malformed note")
	ErrMalformedTempo         = errors.New("song: malformed tempo")
	ErrMalformedSettings      = errors.New("song: malformed settings")
	ErrUnknownKey             = errors.New("song: unknown key signature")
	ErrMalformedTransposition = errors.New("song: malformed transposition")
)

// Error is a compile error recorded in a Song. Message is the text shown to
// the user; Offset is the character offset of the offending token, or -1
// when the error is not tied to a position.
type Error struct {
	Kind    error  `json:"-" yaml:"-"`
	Offset  int    `json:"offset" yaml:"offset"`
	Message string `json:"message" yaml:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}
