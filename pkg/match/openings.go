package match

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// NewBook reads an opening book: a plain text file with one FEN per
// line. Blank lines and lines starting with # are skipped. Order is
// either "sequential" (the default) or "random".
func NewBook(path string, order string) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("match: opening book: %w", err)
	}

	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.Trim(line, " \n\r\t")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entries = append(entries, line)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("match: opening book %s holds no positions", path)
	}

	return &Book{entries: entries, order: order}, nil
}

// Book is a sequence of opening positions. Not safe for concurrent
// use; the series scheduler is its only caller.
type Book struct {
	entries []string
	order   string
	current int
}

// Current returns the opening in play.
func (book *Book) Current() string {
	return book.entries[book.current]
}

// Next advances to another opening according to the configured order.
func (book *Book) Next() {
	switch book.order {
	case "random":
		book.current = rand.Intn(len(book.entries))
	default:
		book.current = (book.current + 1) % len(book.entries)
	}
}

// Len returns the number of openings in the book.
func (book *Book) Len() int {
	return len(book.entries)
}
