package dictionary

import (
	"errors"

	"github.com/msnoigrs/gokuromoji/trie"
)

var (
	ErrInvalidFormat              = errors.New("invalid dictionary format")
	ErrIllegalUserDictionaryEntry = errors.New("illegal user dictionary entry")
	ErrInvalidVersion             = errors.New("invalid dictionary version")
)

// ProgressFunc is called with the number of processed items and the total.
type ProgressFunc = trie.ProgressFunc
