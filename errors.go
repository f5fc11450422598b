package formkit

import "errors"

// ErrUnknownField is returned by Validate for a value the document does not
// declare.
var ErrUnknownField = errors.New("formkit: unknown field")
