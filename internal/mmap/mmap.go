package mmap

import (
	"errors"
	"fmt"
	"os"
)

var ErrEmpty = errors.New("mmap: empty mapping")

// ReadFile maps the whole file, hands the bytes to fn and unmaps them
// again. fn must not retain the slice.
func ReadFile(filename string, fn func(b []byte) error) error {
	fd, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer fd.Close()

	finfo, err := fd.Stat()
	if err != nil {
		return err
	}
	if finfo.Size() == 0 {
		return fn(nil)
	}
	b, err := Mmap(fd, 0, finfo.Size())
	if err != nil {
		return err
	}
	ferr := fn(b)
	if err := Munmap(b); err != nil && ferr == nil {
		return fmt.Errorf("munmap %s: %w", filename, err)
	}
	return ferr
}
