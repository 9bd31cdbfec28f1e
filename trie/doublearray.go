package trie

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/msnoigrs/gokuromoji/internal/mmap"
)

const (
	DoubleArrayTrieFileName = "doubleArrayTrie.bin"

	TerminatingCharacter = '\u0001'

	baseCheckInitialSize   = 4096
	tailInitialSize        = 1024
	tailOffset             = 100000000
	bufferGrowthPercentage = 0.25

	// bytes after the mode flag and the two lengths
	headerSize = 1 + 4 + 4
	// slack written past the highest used cell
	writeMargin = 64
)

var ErrInvalidFormat = errors.New("invalid double array trie")

type ProgressFunc func(state int, max int)

// DoubleArrayTrie maps surface strings to state ids. BASE[i] == 0 marks an
// unused cell, CHECK[i] holds the state a transition into i comes from, and
// BASE values >= tailOffset point into the tail buffer. Once built or read
// it is never mutated.
type DoubleArrayTrie struct {
	compact bool
	base    []int32
	check   []int32
	tail    []rune

	tailIndex         int
	maxBaseCheckIndex int
}

// Build compiles keys into a double-array trie. With compact set the child
// cells of a state are addressed as base+c instead of index+base+c.
func Build(keys []string, compact bool, f ProgressFunc) *DoubleArrayTrie {
	t := New()
	for i, k := range keys {
		t.Add(k)
		if f != nil {
			f(i+1, len(keys))
		}
	}
	da := &DoubleArrayTrie{
		compact:   compact,
		base:      make([]int32, baseCheckInitialSize),
		check:     make([]int32, baseCheckInitialSize),
		tail:      make([]rune, tailInitialSize),
		tailIndex: tailOffset,
	}
	da.base[0] = 1
	da.add(-1, 0, t.Root)
	return da
}

func (da *DoubleArrayTrie) Compact() bool {
	return da.compact
}

func (da *DoubleArrayTrie) add(previous int, index int, n *Node) {
	// the root always takes array cells so that lookups can start from it
	if previous >= 0 && len(n.Children) > 0 && n.HasSinglePath() && n.Children[0].Key != TerminatingCharacter {
		da.base[index] = int32(da.tailIndex)
		da.addToTail(n.Children[0])
		da.check[index] = int32(previous)
		return
	}

	startIndex := index
	if da.compact {
		startIndex = 0
	}
	base := da.findBase(startIndex, n.Children)
	da.base[index] = int32(base)
	if previous >= 0 {
		da.check[index] = int32(previous)
	}

	for _, child := range n.Children {
		if da.compact {
			da.add(index, base+int(child.Key), child)
		} else {
			da.add(index, index+base+int(child.Key), child)
		}
	}
}

func (da *DoubleArrayTrie) findBase(index int, nodes []*Node) int {
	base := int(da.base[index])
	if base < 0 {
		return base
	}

	for {
		collision := false
		for _, n := range nodes {
			next := index + base + int(n.Key)
			if next > da.maxBaseCheckIndex {
				da.maxBaseCheckIndex = next
			}
			if len(da.base) <= next {
				da.extendBuffers(next)
			}
			if da.base[next] != 0 {
				base++
				collision = true
				break
			}
		}
		if !collision {
			break
		}
	}

	for _, n := range nodes {
		if n.Key == TerminatingCharacter {
			da.base[index+base+int(n.Key)] = -1
		} else {
			da.base[index+base+int(n.Key)] = 1
		}
	}
	return base
}

func (da *DoubleArrayTrie) extendBuffers(next int) {
	size := next + int(float64(len(da.base))*bufferGrowthPercentage)
	base := make([]int32, size)
	copy(base, da.base)
	da.base = base
	check := make([]int32, size)
	copy(check, da.check)
	da.check = check
}

func (da *DoubleArrayTrie) addToTail(n *Node) {
	for {
		if len(da.tail) < da.tailIndex-tailOffset+1 {
			tail := make([]rune, len(da.tail)+int(float64(len(da.tail))*bufferGrowthPercentage))
			copy(tail, da.tail)
			da.tail = tail
		}
		da.tail[da.tailIndex-tailOffset] = n.Key
		da.tailIndex++
		if len(n.Children) == 0 {
			break
		}
		n = n.Children[0]
	}
}

// UtilizationRate reports the share of used cells below the highest used
// index.
func (da *DoubleArrayTrie) UtilizationRate() float64 {
	if da.maxBaseCheckIndex <= 0 {
		return 0
	}
	zeros := 0
	for i := 0; i < da.maxBaseCheckIndex && i < len(da.base); i++ {
		if da.base[i] == 0 {
			zeros++
		}
	}
	return float64(da.maxBaseCheckIndex-zeros) / float64(da.maxBaseCheckIndex)
}

func (da *DoubleArrayTrie) next(index int, base int, c rune) int {
	if da.compact {
		return base + int(c)
	}
	return index + base + int(c)
}

// Lookup returns the state id of key when key is a complete entry, 0 when
// key is only a prefix of some entry and a negative value otherwise.
func (da *DoubleArrayTrie) Lookup(key []rune) int {
	index := 0
	base := 1
	for i, c := range key {
		previous := index
		index = da.next(index, base, c)
		if index < 0 || index >= len(da.base) {
			return -1
		}
		base = int(da.base[index])
		if base == 0 {
			return -1
		}
		if int(da.check[index]) != previous {
			return -1
		}
		if base >= tailOffset {
			return da.matchTail(base, index, key[i+1:])
		}
	}

	end := da.next(index, base, TerminatingCharacter)
	if end >= 0 && end < len(da.check) && int(da.check[end]) == index {
		return index
	}
	return 0
}

func (da *DoubleArrayTrie) LookupString(key string) int {
	return da.Lookup([]rune(key))
}

func (da *DoubleArrayTrie) matchTail(base int, index int, key []rune) int {
	pos := base - tailOffset
	if pos+len(key) >= len(da.tail) {
		return -1
	}
	for i, c := range key {
		if c != da.tail[pos+i] {
			return -1
		}
	}
	if da.tail[pos+len(key)] == TerminatingCharacter {
		return index
	}
	return 0
}

// CommonPrefixSearch returns [state id, end offset] for every complete
// entry that is a prefix of key[offset:], shortest first. The results are
// those of calling Lookup on each prefix until it reports a negative value.
func (da *DoubleArrayTrie) CommonPrefixSearch(key []rune, offset int) [][2]int {
	var result [][2]int

	index := 0
	base := 1
	for i := offset; i < len(key); i++ {
		previous := index
		index = da.next(index, base, key[i])
		if index < 0 || index >= len(da.base) {
			return result
		}
		base = int(da.base[index])
		if base == 0 || int(da.check[index]) != previous {
			return result
		}
		if base >= tailOffset {
			pos := base - tailOffset
			for j := i + 1; ; j++ {
				t := pos + j - i - 1
				if t >= len(da.tail) {
					return result
				}
				if da.tail[t] == TerminatingCharacter {
					return append(result, [2]int{index, j})
				}
				if j >= len(key) || key[j] != da.tail[t] {
					return result
				}
			}
		}
		end := da.next(index, base, TerminatingCharacter)
		if end >= 0 && end < len(da.check) && int(da.check[end]) == index {
			result = append(result, [2]int{index, i + 1})
		}
	}
	return result
}

// Walk calls fn for every key with the state id Lookup returns for it. The
// key slice must not be retained.
func (da *DoubleArrayTrie) Walk(fn func(key []rune, stateID int)) {
	children := map[int][]int{}
	for i := 1; i < len(da.base); i++ {
		if da.base[i] != 0 {
			p := int(da.check[i])
			children[p] = append(children[p], i)
		}
	}

	var walk func(index int, key []rune)
	walk = func(index int, key []rune) {
		base := int(da.base[index])
		for _, i := range children[index] {
			c := rune(i - base)
			if !da.compact {
				c -= rune(index)
			}
			b := int(da.base[i])
			switch {
			case c == TerminatingCharacter:
				fn(key, index)
			case b >= tailOffset:
				k := append(key[:len(key):len(key)], c)
				for t := b - tailOffset; t < len(da.tail) && da.tail[t] != TerminatingCharacter; t++ {
					k = append(k, da.tail[t])
				}
				fn(k, i)
			default:
				walk(i, append(key[:len(key):len(key)], c))
			}
		}
	}
	walk(0, nil)
}

func (da *DoubleArrayTrie) baseCheckSize() int {
	size := da.maxBaseCheckIndex + writeMargin
	if size > len(da.base) {
		size = len(da.base)
	}
	return size
}

func (da *DoubleArrayTrie) tailSize() int {
	size := da.tailIndex - tailOffset + writeMargin
	if size > len(da.tail) {
		size = len(da.tail)
	}
	return size
}

// WriteTo writes the mode flag, the base/check length, the tail length and
// then the base, check and tail arrays, little endian.
func (da *DoubleArrayTrie) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	baseCheckSize := da.baseCheckSize()
	tailSize := da.tailSize()

	var n int64
	write := func(data interface{}) error {
		if err := binary.Write(bw, binary.LittleEndian, data); err != nil {
			return err
		}
		n += int64(binary.Size(data))
		return nil
	}

	if err := write(da.compact); err != nil {
		return n, err
	}
	if err := write(int32(baseCheckSize)); err != nil {
		return n, err
	}
	if err := write(int32(tailSize)); err != nil {
		return n, err
	}
	if err := write(da.base[:baseCheckSize]); err != nil {
		return n, err
	}
	if err := write(da.check[:baseCheckSize]); err != nil {
		return n, err
	}
	if err := write(da.tail[:tailSize]); err != nil {
		return n, err
	}
	return n, bw.Flush()
}

func ReadDoubleArrayTrie(r io.Reader) (*DoubleArrayTrie, error) {
	br := bufio.NewReader(r)
	var (
		compact       bool
		baseCheckSize int32
		tailSize      int32
	)
	if err := binary.Read(br, binary.LittleEndian, &compact); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if err := binary.Read(br, binary.LittleEndian, &baseCheckSize); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if err := binary.Read(br, binary.LittleEndian, &tailSize); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}
	if baseCheckSize < 0 || tailSize < 0 {
		return nil, fmt.Errorf("%w: negative length", ErrInvalidFormat)
	}

	da := &DoubleArrayTrie{
		compact: compact,
		base:    make([]int32, baseCheckSize),
		check:   make([]int32, baseCheckSize),
		tail:    make([]rune, tailSize),
	}
	for _, a := range [][]int32{da.base, da.check, da.tail} {
		if err := binary.Read(br, binary.LittleEndian, a); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
		}
	}
	da.setSizes()
	return da, nil
}

// NewDoubleArrayTrieFromBytes decodes a trie written by WriteTo. The
// arrays are copied out of b.
func NewDoubleArrayTrieFromBytes(b []byte) (*DoubleArrayTrie, error) {
	if len(b) < headerSize {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidFormat)
	}
	compact := b[0] != 0
	baseCheckSize := int(int32(binary.LittleEndian.Uint32(b[1:])))
	tailSize := int(int32(binary.LittleEndian.Uint32(b[5:])))
	if baseCheckSize < 0 || tailSize < 0 {
		return nil, fmt.Errorf("%w: negative length", ErrInvalidFormat)
	}
	if len(b)-headerSize != 4*(2*baseCheckSize+tailSize) {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrInvalidFormat, len(b), headerSize+4*(2*baseCheckSize+tailSize))
	}

	da := &DoubleArrayTrie{
		compact: compact,
		base:    make([]int32, baseCheckSize),
		check:   make([]int32, baseCheckSize),
		tail:    make([]rune, tailSize),
	}
	offset := headerSize
	for _, a := range [][]int32{da.base, da.check, da.tail} {
		for i := range a {
			a[i] = int32(binary.LittleEndian.Uint32(b[offset:]))
			offset += 4
		}
	}
	da.setSizes()
	return da, nil
}

// Open reads a trie file through a read-only mapping.
func Open(filename string) (*DoubleArrayTrie, error) {
	var da *DoubleArrayTrie
	err := mmap.ReadFile(filename, func(b []byte) error {
		var err error
		da, err = NewDoubleArrayTrieFromBytes(b)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return da, nil
}

// setSizes restores the bookkeeping WriteTo relies on so that a trie that
// was read can be written again unchanged.
func (da *DoubleArrayTrie) setSizes() {
	da.maxBaseCheckIndex = len(da.base) - writeMargin
	da.tailIndex = tailOffset + len(da.tail) - writeMargin
}
