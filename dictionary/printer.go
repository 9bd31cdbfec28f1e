package dictionary

import (
	"bufio"
	"fmt"
	"io"
)

// PrintDictionary writes every lexicon entry of d back in source form, in
// word id order.
func PrintDictionary(d *Dictionary, output io.Writer) error {
	bw := bufio.NewWriter(output)
	ti := d.TokenInfo
	surfaces := surfacesByWordID(d)
	for wordID := 0; wordID < ti.Size(); wordID++ {
		e := &Entry{
			Surface:  surfaces[wordID],
			LeftID:   ti.LeftID(wordID),
			RightID:  ti.RightID(wordID),
			WordCost: ti.WordCost(wordID),
			Features: ti.Features(wordID),
		}
		if _, err := fmt.Fprintln(bw, e); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// PrintUnknownDictionary writes the unknown-word entries in unk.def form.
func PrintUnknownDictionary(d *Dictionary, output io.Writer) error {
	bw := bufio.NewWriter(output)
	for i := range d.Unknown.Entries {
		if _, err := fmt.Fprintln(bw, &d.Unknown.Entries[i]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func PrintUserDictionary(d *UserDictionary, output io.Writer) error {
	bw := bufio.NewWriter(output)
	for wordID := 0; wordID < d.Len(); wordID++ {
		if _, err := fmt.Fprintf(bw, "%d\t%s\n", wordID, d.Entry(wordID)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// surfacesByWordID recovers surfaces from the trie, which is the only place
// the compiled dictionary keeps them.
func surfacesByWordID(d *Dictionary) []string {
	surfaces := make([]string, d.TokenInfo.Size())
	d.Trie.Walk(func(key []rune, stateID int) {
		for _, wordID := range d.TokenInfo.LookupWordIDs(stateID) {
			surfaces[wordID] = string(key)
		}
	})
	return surfaces
}
