package lnreader

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LineNumberReader reads text resources line by line and remembers where it
// is, so that parse errors can point at the offending line.
type LineNumberReader struct {
	r         *bufio.Reader
	rawBuffer []byte
	Name      string
	NumLine   int
}

func NewLineNumberReader(r io.Reader, name string) *LineNumberReader {
	return &LineNumberReader{
		r:    bufio.NewReader(r),
		Name: name,
	}
}

// ReadLine returns the next line without its line terminator. The returned
// slice is only valid until the next call.
func (r *LineNumberReader) ReadLine() ([]byte, error) {
	line, err := r.r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		r.rawBuffer = append(r.rawBuffer[:0], line...)
		for err == bufio.ErrBufferFull {
			line, err = r.r.ReadSlice('\n')
			r.rawBuffer = append(r.rawBuffer, line...)
		}
		line = r.rawBuffer
	}
	if len(line) > 0 && err == io.EOF {
		err = nil
	} else if err != nil {
		return nil, err
	}
	line = bytes.TrimSuffix(line, []byte{'\n'})
	line = bytes.TrimSuffix(line, []byte{'\r'})
	if r.NumLine == 0 {
		line = bytes.TrimPrefix(line, utf8BOM)
	}
	r.NumLine++
	return line, nil
}

// Errorf returns an error prefixed with the resource name and the number of
// the line read last. %w verbs are honoured.
func (r *LineNumberReader) Errorf(format string, a ...interface{}) error {
	return fmt.Errorf("%s:%d: "+format, append([]interface{}{r.Name, r.NumLine}, a...)...)
}

// StripComment cuts l at the first '#' and drops the white space before it.
func StripComment(l []byte) []byte {
	if i := bytes.IndexByte(l, '#'); i >= 0 {
		l = l[:i]
		return bytes.TrimRight(l, " \t\r\n\v\f")
	}
	return l
}

func IsEmptyLine(l []byte) bool {
	for _, c := range l {
		if c != ' ' && c != '\n' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}
