package gokuromoji

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/msnoigrs/gokuromoji/dictionary"
)

// Mode selects how the tokenizer segments.
type Mode int

const (
	// Normal returns the cheapest segmentation.
	Normal Mode = iota
	// Search penalizes long words so compounds are split into their parts.
	Search
	// Extended is Search with unknown words cut into single characters.
	Extended
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Search:
		return "search"
	case Extended:
		return "extended"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "normal", "n", "":
		return Normal, nil
	case "search", "s":
		return Search, nil
	case "extended", "e":
		return Extended, nil
	}
	return Normal, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m Mode) penalized() bool {
	return m == Search || m == Extended
}

type options struct {
	mode      Mode
	penalties Penalties
	split     bool
	user      *dictionary.UserDictionary
	schema    *dictionary.Schema
	logger    *log.Logger
}

type Option func(*options)

func WithMode(mode Mode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

func WithPenalties(penalties Penalties) Option {
	return func(o *options) {
		o.penalties = penalties
	}
}

// WithSplit turns off or on cutting the input after 。 and 、.
func WithSplit(split bool) Option {
	return func(o *options) {
		o.split = split
	}
}

func WithUserDictionary(user *dictionary.UserDictionary) Option {
	return func(o *options) {
		o.user = user
	}
}

// WithSchema names the feature layout of the dictionary. The default is
// UniDic.
func WithSchema(schema *dictionary.Schema) Option {
	return func(o *options) {
		o.schema = schema
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Tokenizer segments text with a compiled dictionary. It keeps no state
// between calls and is safe for concurrent use.
type Tokenizer struct {
	builder *latticeBuilder
	viterbi *viterbiSearcher
	multi   *multiSearcher
	split   bool
	schema  *dictionary.Schema
	words   map[NodeType]dictionary.WordDictionary
	logger  *log.Logger
	mode    Mode
}

// Tokenization is one segmentation of a text and its path cost.
type Tokenization struct {
	Tokens []*Token
	Cost   int
}

func New(d *dictionary.Dictionary, opts ...Option) (*Tokenizer, error) {
	o := &options{
		penalties: DefaultPenalties,
		split:     true,
		schema:    dictionary.UniDic,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}
	if d == nil {
		return nil, fmt.Errorf("no dictionary")
	}

	words := map[NodeType]dictionary.WordDictionary{
		Known:    d.TokenInfo,
		Unknown:  d.Unknown,
		Inserted: dictionary.NewInsertedDictionary(o.schema.TotalFeatures),
	}
	if o.user != nil {
		if o.user.Schema() != o.schema {
			return nil, fmt.Errorf("user dictionary schema %s does not match %s", o.user.Schema().Name, o.schema.Name)
		}
		if err := d.CheckIDs("user", o.user, o.user.Len()); err != nil {
			return nil, err
		}
		words[User] = o.user
	}

	viterbi := newViterbiSearcher(d, o.mode, o.penalties)
	t := &Tokenizer{
		builder: newLatticeBuilder(d, o.user, o.mode),
		viterbi: viterbi,
		multi:   newMultiSearcher(viterbi),
		split:   o.split,
		schema:  o.schema,
		words:   words,
		logger:  o.logger,
		mode:    o.mode,
	}
	t.logger.Debug("tokenizer", "mode", o.mode, "schema", o.schema.Name, "split", o.split, "userDictionary", o.user != nil)
	return t, nil
}

func (t *Tokenizer) Mode() Mode {
	return t.mode
}

func (t *Tokenizer) Schema() *dictionary.Schema {
	return t.schema
}

// Tokenize returns the cheapest segmentation of text.
func (t *Tokenizer) Tokenize(text string) []*Token {
	tokens := []*Token{}
	for _, c := range t.chunks([]rune(text)) {
		l := t.builder.build(c.text)
		path, _ := t.viterbi.search(l)
		tokens = append(tokens, t.toTokens(l, path, c.offset)...)
	}
	return tokens
}

// MultiTokenize returns up to maxCount segmentations of text whose cost is
// at most the cheapest cost plus costSlack, cheapest first. A maxCount below
// one yields no segmentation.
func (t *Tokenizer) MultiTokenize(text string, maxCount int, costSlack int) [][]*Token {
	results := t.MultiTokenizeWithCost(text, maxCount, costSlack)
	paths := make([][]*Token, len(results))
	for i, r := range results {
		paths[i] = r.Tokens
	}
	return paths
}

func (t *Tokenizer) MultiTokenizeNBest(text string, n int) [][]*Token {
	return t.MultiTokenize(text, n, math.MaxInt)
}

func (t *Tokenizer) MultiTokenizeBySlack(text string, costSlack int) [][]*Token {
	return t.MultiTokenize(text, math.MaxInt, costSlack)
}

func (t *Tokenizer) MultiTokenizeWithCost(text string, maxCount int, costSlack int) []Tokenization {
	if maxCount < 1 {
		return nil
	}
	chunks := t.chunks([]rune(text))
	results := make([]*multiSearchResult, len(chunks))
	for i, c := range chunks {
		results[i] = t.searchMultiple(c, maxCount, costSlack)
	}

	result := results[0]
	if len(results) > 1 {
		result = newMultiSearchMerger(maxCount, costSlack).merge(results)
	}

	tokenizations := make([]Tokenization, result.len())
	for i := range tokenizations {
		tokenizations[i] = Tokenization{
			Tokens: result.paths[i],
			Cost:   result.costs[i],
		}
	}
	return tokenizations
}

func (t *Tokenizer) searchMultiple(c chunk, maxCount int, costSlack int) *multiSearchResult {
	l := t.builder.build(c.text)
	result := &multiSearchResult{}
	for _, p := range t.multi.searchMultiple(l, maxCount, costSlack) {
		result.add(t.toTokens(l, p.nodes, c.offset), p.cost)
	}
	return result
}

type chunk struct {
	text   []rune
	offset int
}

// chunks cuts text after every 。 and 、. The whole text is a single chunk
// when splitting is off or there is nothing to cut.
func (t *Tokenizer) chunks(text []rune) []chunk {
	if !t.split {
		return []chunk{{text: text}}
	}
	var chunks []chunk
	offset := 0
	for i, c := range text {
		if c == '。' || c == '、' {
			chunks = append(chunks, chunk{text: text[offset : i+1], offset: offset})
			offset = i + 1
		}
	}
	if offset < len(text) || len(chunks) == 0 {
		chunks = append(chunks, chunk{text: text[offset:], offset: offset})
	}
	return chunks
}

func (t *Tokenizer) toTokens(l *lattice, path []int, offset int) []*Token {
	tokens := make([]*Token, 0, len(path))
	for _, n := range path {
		node := &l.nodes[n]
		if node.isSentinel() {
			continue
		}
		tokens = append(tokens, &Token{
			Surface:  l.surface(n),
			Position: offset + node.start,
			WordID:   node.wordID,
			Type:     node.kind,
			words:    t.words[node.kind],
			schema:   t.schema,
		})
	}
	return tokens
}
