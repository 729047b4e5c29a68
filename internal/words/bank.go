// Package words holds the prompt table the drawer is given each turn.
package words

import (
	"bytes"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/scythe504/kaliyo-backend/internal"
	"github.com/scythe504/kaliyo-backend/internal/utils"
)

//go:embed letters.csv
var lettersCSV []byte

// Bank is immutable after construction and safe for concurrent reads.
type Bank struct {
	entries []internal.WordEntry
	intN    func(n int) int
}

func New(entries []internal.WordEntry) (*Bank, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("word bank: no entries")
	}
	copied := make([]internal.WordEntry, len(entries))
	copy(copied, entries)
	return &Bank{entries: copied, intN: rand.IntN}, nil
}

// Default returns the built-in Kannada letter table.
func Default() (*Bank, error) {
	entries, err := utils.ReadWordsCSV(bytes.NewReader(lettersCSV))
	if err != nil {
		return nil, err
	}
	return New(entries)
}

// Load reads a bank from a CSV file, or the built-in table when path is empty.
func Load(path string) (*Bank, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	entries, err := utils.ReadWordsCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(entries)
}

// Random picks uniformly; repeats across turns are allowed.
func (b *Bank) Random() internal.WordEntry {
	return b.entries[b.intN(len(b.entries))]
}

func (b *Bank) Len() int {
	return len(b.entries)
}

func (b *Bank) Lookup(display string) (internal.WordEntry, bool) {
	for _, e := range b.entries {
		if e.Display == display {
			return e, true
		}
	}
	return internal.WordEntry{}, false
}
