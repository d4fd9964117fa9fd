package document

import (
	"fmt"

	"github.com/pkg/errors"
)

var ErrMalformedDocument = errors.New("malformed document")

// MalformedDocumentError reports a structural violation found by Tokenize.
// Line is 1-based, and 0 when the document ended in a state that still
// expected input.
type MalformedDocumentError struct {
	Line  int
	Cause string
}

func (e *MalformedDocumentError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", ErrMalformedDocument, e.Cause)
	}
	return fmt.Sprintf("%s: line %d: %s", ErrMalformedDocument, e.Line, e.Cause)
}

func (e *MalformedDocumentError) Unwrap() error {
	return ErrMalformedDocument
}

func malformed(line int, format string, args ...interface{}) error {
	return &MalformedDocumentError{
		Line:  line,
		Cause: fmt.Sprintf(format, args...),
	}
}
