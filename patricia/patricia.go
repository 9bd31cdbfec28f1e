// Package patricia implements a PATRICIA bit trie over string keys. Keys are
// compared bit by bit on their UTF-8 bytes, most significant bit first, and
// every bit past the end of a key reads as set.
//
// Nodes live in an arena and refer to each other by index. Index 0 is the
// sentinel root; its left link points back at itself until the first key is
// inserted, and its right link holds the empty key.
//
// A Trie may be read from many goroutines at once once it is no longer
// modified. Writes must not run concurrently with anything else.
package patricia

import (
	"errors"
	"unicode/utf8"
)

// ErrInvalidKey is returned by Put for a key that is not valid UTF-8. Such a
// key can read the same bits as a shorter key followed by 0xFF bytes.
var ErrInvalidKey = errors.New("patricia: key is not valid UTF-8")

const (
	root = 0
	none = -1
)

type node[V any] struct {
	key   string
	value V
	bit   int
	left  int
	right int
}

type Trie[V any] struct {
	nodes []node[V]
	size  int
}

func New[V any]() *Trie[V] {
	t := &Trie[V]{}
	t.Clear()
	return t
}

func (t *Trie[V]) Clear() {
	t.nodes = append(t.nodes[:0], node[V]{bit: -1, left: root, right: none})
	t.size = 0
}

func (t *Trie[V]) Len() int {
	return t.size
}

// Put stores value under key, replacing any previous value. The key must be
// valid UTF-8.
func (t *Trie[V]) Put(key string, value V) error {
	if !utf8.ValidString(key) {
		return ErrInvalidKey
	}
	if key == "" {
		if t.nodes[root].right == none {
			t.nodes = append(t.nodes, node[V]{bit: -1, left: none, right: none})
			t.nodes[root].right = len(t.nodes) - 1
			t.size++
		}
		t.nodes[t.nodes[root].right].value = value
		return nil
	}

	nearest := t.findNearest(key)
	if nearest != root && t.nodes[nearest].key == key {
		t.nodes[nearest].value = value
		return nil
	}

	bit := t.firstDifferingBit(key, nearest)
	t.insert(node[V]{key: key, value: value, bit: bit})
	t.size++
	return nil
}

func (t *Trie[V]) Get(key string) (V, bool) {
	var zero V
	if key == "" {
		if e := t.nodes[root].right; e != none {
			return t.nodes[e].value, true
		}
		return zero, false
	}
	nearest := t.findNearest(key)
	if nearest != root && t.nodes[nearest].key == key {
		return t.nodes[nearest].value, true
	}
	return zero, false
}

func (t *Trie[V]) ContainsKey(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// ContainsKeyPrefix reports whether some key starts with prefix. The empty
// prefix is always contained.
func (t *Trie[V]) ContainsKeyPrefix(prefix string) bool {
	if prefix == "" {
		return true
	}
	nearest := t.findNearest(prefix)
	if nearest == root {
		return false
	}
	k := t.nodes[nearest].key
	return len(k) >= len(prefix) && k[:len(prefix)] == prefix
}

// Keys returns every key, the empty key first if present.
func (t *Trie[V]) Keys() []string {
	keys := make([]string, 0, t.size)
	if t.nodes[root].right != none {
		keys = append(keys, "")
	}
	t.walk(t.nodes[root].left, -1, func(n *node[V]) {
		keys = append(keys, n.key)
	})
	return keys
}

// Values returns the values in the order Keys returns their keys.
func (t *Trie[V]) Values() []V {
	values := make([]V, 0, t.size)
	if e := t.nodes[root].right; e != none {
		values = append(values, t.nodes[e].value)
	}
	t.walk(t.nodes[root].left, -1, func(n *node[V]) {
		values = append(values, n.value)
	})
	return values
}

func (t *Trie[V]) walk(i int, bit int, fn func(n *node[V])) {
	n := &t.nodes[i]
	if n.bit <= bit {
		return
	}
	t.walk(n.left, n.bit, fn)
	t.walk(n.right, n.bit, fn)
	fn(n)
}

func (t *Trie[V]) findNearest(key string) int {
	current := t.nodes[root].left
	parent := root
	for t.nodes[parent].bit < t.nodes[current].bit {
		parent = current
		if !isSet(t.nodes[current].bit, key) {
			current = t.nodes[current].left
		} else {
			current = t.nodes[current].right
		}
	}
	return current
}

// firstDifferingBit compares key with the key of node i. The root has no
// key and reads as all zero bits. Two distinct valid UTF-8 strings always
// differ within the longer one's bits; the search is capped there.
func (t *Trie[V]) firstDifferingBit(key string, i int) int {
	other := t.nodes[i].key
	limit := 8 * len(key)
	if 8*len(other) > limit {
		limit = 8 * len(other)
	}
	if i == root {
		for bit := 0; bit < limit; bit++ {
			if isSet(bit, key) {
				return bit
			}
		}
		return limit
	}
	bit := 0
	for bit < limit && isSet(bit, key) == isSet(bit, other) {
		bit++
	}
	return bit
}

func (t *Trie[V]) insert(n node[V]) {
	current := t.nodes[root].left
	parent := root
	for t.nodes[parent].bit < t.nodes[current].bit && t.nodes[current].bit < n.bit {
		parent = current
		if !isSet(t.nodes[current].bit, n.key) {
			current = t.nodes[current].left
		} else {
			current = t.nodes[current].right
		}
	}

	self := len(t.nodes)
	if !isSet(n.bit, n.key) {
		n.left = self
		n.right = current
	} else {
		n.left = current
		n.right = self
	}
	t.nodes = append(t.nodes, n)

	if parent == root || !isSet(t.nodes[parent].bit, n.key) {
		t.nodes[parent].left = self
	} else {
		t.nodes[parent].right = self
	}
}

func isSet(bit int, key string) bool {
	if bit < 0 {
		return false
	}
	i := bit / 8
	if i >= len(key) {
		return true
	}
	return key[i]&(0x80>>uint(bit%8)) != 0
}
