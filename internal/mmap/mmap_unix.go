//go:build !windows

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// Mmap maps size bytes of fd starting at offset read-only.
func Mmap(fd *os.File, offset int64, size int64) ([]byte, error) {
	if size <= 0 {
		return nil, ErrEmpty
	}
	b, err := unix.Mmap(int(fd.Fd()), offset, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, os.NewSyscallError("mmap", err)
	}
	return b, nil
}

func Munmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}
