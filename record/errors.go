// Package record reads and writes the NSEC/NSEC3 record-file format: a
// line-oriented text dump of a chain, optionally gzip/bz2-compressed by
// filename extension, grounded on the original rrfile.py reader/writer and
// adapted onto Go's io/bufio idioms the way blocky's lists package streams
// line-oriented sources (see lists/list_cache.go's processFile).
package record

import (
	"errors"
	"fmt"
)

// ErrParse wraps a malformed line in an input record file. §7's FileParse
// taxonomy entry: fatal, since a corrupt record file cannot be resumed from.
var ErrParse = errors.New("record: could not parse file")

// ParseError reports the file and line number a parse failure occurred at.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("record: %s:%d: %s", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return ErrParse }
