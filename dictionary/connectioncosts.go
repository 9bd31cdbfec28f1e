package dictionary

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/msnoigrs/gokuromoji/internal/lnreader"
	"github.com/msnoigrs/gokuromoji/internal/mmap"
)

const ConnectionCostsFileName = "connectionCosts.bin"

// ConnectionCosts is the table of transition costs between the right id of
// a word (forward) and the left id of the word that follows it (backward).
type ConnectionCosts struct {
	size  int
	costs []int16
}

func NewConnectionCosts(forwardSize int, backwardSize int) *ConnectionCosts {
	return &ConnectionCosts{
		size:  backwardSize,
		costs: make([]int16, forwardSize*backwardSize),
	}
}

func (cc *ConnectionCosts) Cost(forwardID int, backwardID int) int {
	return int(cc.costs[backwardID+forwardID*cc.size])
}

func (cc *ConnectionCosts) SetCost(forwardID int, backwardID int, cost int16) {
	cc.costs[backwardID+forwardID*cc.size] = cost
}

func (cc *ConnectionCosts) ForwardSize() int {
	if cc.size == 0 {
		return 0
	}
	return len(cc.costs) / cc.size
}

func (cc *ConnectionCosts) BackwardSize() int {
	return cc.size
}

// CompileConnectionCosts reads a matrix.def: a "forwardSize backwardSize"
// header followed by "forwardID backwardID cost" lines.
func CompileConnectionCosts(r io.Reader, name string) (*ConnectionCosts, error) {
	lr := lnreader.NewLineNumberReader(r, name)

	line, err := lr.ReadLine()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: %w: missing header", name, ErrInvalidFormat)
	}
	if err != nil {
		return nil, err
	}
	header := strings.Fields(string(line))
	if len(header) != 2 {
		return nil, lr.Errorf("%w: header needs two sizes", ErrInvalidFormat)
	}
	forwardSize, err := strconv.Atoi(header[0])
	if err != nil || forwardSize < 0 {
		return nil, lr.Errorf("%w: invalid forward size %q", ErrInvalidFormat, header[0])
	}
	backwardSize, err := strconv.Atoi(header[1])
	if err != nil || backwardSize < 0 {
		return nil, lr.Errorf("%w: invalid backward size %q", ErrInvalidFormat, header[1])
	}
	cc := NewConnectionCosts(forwardSize, backwardSize)

	for {
		line, err := lr.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if lnreader.IsEmptyLine(line) {
			continue
		}
		cols := strings.Fields(string(line))
		if len(cols) != 3 {
			return nil, lr.Errorf("%w: expected 3 fields, got %d", ErrInvalidFormat, len(cols))
		}
		var v [3]int64
		for i, c := range cols {
			v[i], err = strconv.ParseInt(c, 10, 16)
			if err != nil {
				return nil, lr.Errorf("%w: %v", ErrInvalidFormat, err)
			}
		}
		if v[0] < 0 || int(v[0]) >= forwardSize || v[1] < 0 || int(v[1]) >= backwardSize {
			return nil, lr.Errorf("%w: id out of range", ErrInvalidFormat)
		}
		cc.SetCost(int(v[0]), int(v[1]), int16(v[2]))
	}
	return cc, nil
}

// WriteTo writes the backward size, the byte length of the table and the
// table itself, little endian.
func (cc *ConnectionCosts) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(cc.size)); err != nil {
		return 0, err
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(2*len(cc.costs))); err != nil {
		return 4, err
	}
	if err := binary.Write(bw, binary.LittleEndian, cc.costs); err != nil {
		return 8, err
	}
	return int64(8 + 2*len(cc.costs)), bw.Flush()
}

func ReadConnectionCosts(r io.Reader) (*ConnectionCosts, error) {
	var size, byteLen int32
	br := bufio.NewReader(r)
	if err := binary.Read(br, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if err := binary.Read(br, binary.LittleEndian, &byteLen); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if err := checkCostsHeader(size, byteLen); err != nil {
		return nil, err
	}
	cc := &ConnectionCosts{
		size:  int(size),
		costs: make([]int16, byteLen/2),
	}
	if err := binary.Read(br, binary.LittleEndian, cc.costs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	return cc, nil
}

func NewConnectionCostsFromBytes(b []byte) (*ConnectionCosts, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("%w: truncated connection costs", ErrInvalidFormat)
	}
	size := int32(binary.LittleEndian.Uint32(b))
	byteLen := int32(binary.LittleEndian.Uint32(b[4:]))
	if err := checkCostsHeader(size, byteLen); err != nil {
		return nil, err
	}
	if len(b)-8 != int(byteLen) {
		return nil, fmt.Errorf("%w: got %d cost bytes, expected %d", ErrInvalidFormat, len(b)-8, byteLen)
	}
	cc := &ConnectionCosts{
		size:  int(size),
		costs: make([]int16, byteLen/2),
	}
	for i := range cc.costs {
		cc.costs[i] = int16(binary.LittleEndian.Uint16(b[8+2*i:]))
	}
	return cc, nil
}

func checkCostsHeader(size int32, byteLen int32) error {
	if size < 0 || byteLen < 0 || byteLen%2 != 0 {
		return fmt.Errorf("%w: bad connection costs header", ErrInvalidFormat)
	}
	if size == 0 && byteLen != 0 || size > 0 && int(byteLen/2)%int(size) != 0 {
		return fmt.Errorf("%w: cost table is not rectangular", ErrInvalidFormat)
	}
	return nil
}

func OpenConnectionCosts(filename string) (*ConnectionCosts, error) {
	var cc *ConnectionCosts
	err := mmap.ReadFile(filename, func(b []byte) error {
		var err error
		cc, err = NewConnectionCostsFromBytes(b)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cc, nil
}
