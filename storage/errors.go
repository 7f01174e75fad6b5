package storage

import "fmt"

// ErrIO reports a failure creating, writing or closing an output file.
type ErrIO struct {
	Op   string
	Path string
	Err  error
}

func (e ErrIO) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e ErrIO) Unwrap() error {
	return e.Err
}
