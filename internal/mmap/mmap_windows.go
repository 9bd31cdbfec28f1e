//go:build windows

package mmap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Mmap maps size bytes of fd starting at offset read-only.
func Mmap(fd *os.File, offset int64, size int64) ([]byte, error) {
	if size <= 0 {
		return nil, ErrEmpty
	}
	maxsize := size + offset
	handle, err := windows.CreateFileMapping(windows.Handle(fd.Fd()), nil,
		windows.PAGE_READONLY, uint32(maxsize>>32), uint32(maxsize&0xffffffff), nil)
	if err != nil {
		return nil, os.NewSyscallError("CreateFileMapping", err)
	}

	addr, err := windows.MapViewOfFile(handle, windows.FILE_MAP_READ,
		uint32(offset>>32), uint32(offset&0xffffffff), uintptr(size))
	if addr == 0 {
		_ = windows.CloseHandle(handle)
		return nil, os.NewSyscallError("MapViewOfFile", err)
	}

	if err := windows.CloseHandle(handle); err != nil {
		return nil, os.NewSyscallError("CloseHandle", err)
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size)), nil
}

func Munmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&b[0])))
}
