package tabular

import "errors"

// ErrInputNotFound wraps a missing input path (exit code 2 at the CLI).
var ErrInputNotFound = errors.New("input file not found")

// ErrDecoding wraps a text that could not be decoded under any candidate
// encoding (exit code 3 at the CLI).
var ErrDecoding = errors.New("unable to decode input under any known encoding")
