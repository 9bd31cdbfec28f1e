package trie

// Trie is the build-time character trie the double-array trie is compiled
// from. It is discarded once the double-array trie is built.
type Trie struct {
	Root *Node
}

type Node struct {
	Key      rune
	Children []*Node
}

func New() *Trie {
	return &Trie{
		Root: &Node{},
	}
}

// Add inserts value followed by TerminatingCharacter. Empty values are
// ignored.
func (t *Trie) Add(value string) {
	if value == "" {
		return
	}
	n := t.Root
	for _, c := range value {
		n = n.AddChild(c)
	}
	n.AddChild(TerminatingCharacter)
}

// AddChild returns the child labelled key, appending a new one if none
// exists. Children keep insertion order.
func (n *Node) AddChild(key rune) *Node {
	for _, c := range n.Children {
		if c.Key == key {
			return c
		}
	}
	c := &Node{Key: key}
	n.Children = append(n.Children, c)
	return c
}

func (n *Node) HasSinglePath() bool {
	switch len(n.Children) {
	case 0:
		return true
	case 1:
		return n.Children[0].HasSinglePath()
	default:
		return false
	}
}
