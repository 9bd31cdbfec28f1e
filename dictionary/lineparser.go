package dictionary

import (
	"fmt"
	"strings"
)

const (
	quote = '"'
	comma = ','
)

// ParseLine splits a CSV dictionary line. Fields may be quoted, and a
// doubled quote inside a quoted field stands for one quote.
func ParseLine(line string) ([]string, error) {
	var (
		result      []string
		b           strings.Builder
		insideQuote bool
		quoteCount  int
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == quote {
			insideQuote = !insideQuote
			quoteCount++
		}
		if c == comma && !insideQuote {
			result = append(result, Unescape(b.String()))
			b.Reset()
			continue
		}
		b.WriteByte(c)
	}
	result = append(result, Unescape(b.String()))

	if quoteCount%2 != 0 {
		return nil, fmt.Errorf("%w: unmatched quote in %q", ErrInvalidFormat, line)
	}
	return result, nil
}

// Unescape drops the enclosing quotes of a field and collapses doubled
// quotes.
func Unescape(text string) string {
	var b strings.Builder
	foundQuote := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if (i == 0 || i == len(text)-1) && c == quote {
			continue
		}
		if c == quote {
			if foundQuote {
				b.WriteByte(quote)
				foundQuote = false
			} else {
				foundQuote = true
			}
			continue
		}
		foundQuote = false
		b.WriteByte(c)
	}
	return b.String()
}

// Escape is the inverse of Unescape: quotes are doubled and a field holding
// a comma is quoted.
func Escape(text string) string {
	hasQuote := strings.IndexByte(text, quote) >= 0
	hasComma := strings.IndexByte(text, comma) >= 0
	if !hasQuote && !hasComma {
		return text
	}
	if hasQuote {
		text = strings.ReplaceAll(text, `"`, `""`)
	}
	if hasComma {
		text = `"` + text + `"`
	}
	return text
}
