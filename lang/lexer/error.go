package lexer

import (
	"fmt"
	"strings"

	"github.com/aql-lang/aql/lang/token"
)

// Error is a lexical error tied to a source position, the Go analogue of
// aqlX_lexerror attaching line/near-token/message.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorList collects all lexical errors found while scanning a chunk, rather
// than stopping at the first one, so a single pass can report as much as
// possible.
type ErrorList []*Error

func (el *ErrorList) Add(pos token.Position, msg string) {
	*el = append(*el, &Error{Pos: pos, Msg: msg})
}

func (el ErrorList) Error() string {
	switch len(el) {
	case 0:
		return "no errors"
	case 1:
		return el[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (and %d more errors)", el[0], len(el)-1)
	return sb.String()
}

// Err returns el as an error, or nil if el is empty.
func (el ErrorList) Err() error {
	if len(el) == 0 {
		return nil
	}
	return el
}
