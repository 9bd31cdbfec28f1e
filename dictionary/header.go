package dictionary

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/msnoigrs/gokuromoji/internal/mmap"
)

const (
	HeaderFileName = "header.bin"

	SystemDictVersion = 0x6b726d6a64696331

	DescriptionSize   = 256
	HeaderStorageSize = 8 + 8 + DescriptionSize
)

// DictionaryHeader is stored in front of every compiled dictionary: the
// format version, the creation time in Unix seconds and a NUL padded UTF-8
// description.
type DictionaryHeader struct {
	Version     uint64
	CreateTime  int64
	Description string
}

func NewDictionaryHeader(description string) *DictionaryHeader {
	return &DictionaryHeader{
		Version:     SystemDictVersion,
		CreateTime:  time.Now().Unix(),
		Description: description,
	}
}

func ParseDictionaryHeader(b []byte) (*DictionaryHeader, error) {
	if len(b) < HeaderStorageSize {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidFormat)
	}
	dh := &DictionaryHeader{
		Version:    binary.LittleEndian.Uint64(b),
		CreateTime: int64(binary.LittleEndian.Uint64(b[8:])),
	}
	if dh.Version != SystemDictVersion {
		return nil, fmt.Errorf("%w: %#x", ErrInvalidVersion, dh.Version)
	}
	desc := b[16:HeaderStorageSize]
	if i := bytes.IndexByte(desc, 0); i >= 0 {
		desc = desc[:i]
	}
	dh.Description = string(desc)
	return dh, nil
}

func (dh *DictionaryHeader) WriteTo(w io.Writer) (int64, error) {
	desc := []byte(dh.Description)
	if len(desc) > DescriptionSize {
		return 0, fmt.Errorf("description is too long: %d bytes", len(desc))
	}
	b := make([]byte, HeaderStorageSize)
	binary.LittleEndian.PutUint64(b, dh.Version)
	binary.LittleEndian.PutUint64(b[8:], uint64(dh.CreateTime))
	copy(b[16:], desc)
	n, err := w.Write(b)
	return int64(n), err
}

func ReadDictionaryHeader(filename string) (*DictionaryHeader, error) {
	var dh *DictionaryHeader
	err := mmap.ReadFile(filename, func(b []byte) error {
		var err error
		dh, err = ParseDictionaryHeader(b)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return dh, nil
}

func (dh *DictionaryHeader) Print(w io.Writer) {
	ctime := time.Unix(dh.CreateTime, 0)
	zone, _ := ctime.Zone()
	fmt.Fprintf(w, "version: %#x\n", dh.Version)
	fmt.Fprintf(w, "createTime: %s[%s]\n", ctime.Format(time.RFC3339), zone)
	fmt.Fprintf(w, "description: %s\n", dh.Description)
}
