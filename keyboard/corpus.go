package keyboard

import (
	"cmp"
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode"
)

// Word is a distinct word of a text and how often it occurs.
type Word struct {
	Letters []rune
	Count   int
}

// Corpus is the word list a keyboard is scored against.
type Corpus struct {
	words []Word
}

// NewCorpus splits a text into words of the alphabet. Any other character
// separates words. Letters are lower cased.
func NewCorpus(text, alphabet string) *Corpus {
	counts := make(map[string]int)
	for _, word := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !strings.ContainsRune(alphabet, unicode.ToLower(r))
	}) {
		counts[word]++
	}

	words := make([]Word, 0, len(counts))
	for word, count := range counts {
		words = append(words, Word{Letters: []rune(word), Count: count})
	}
	slices.SortFunc(words, func(a, b Word) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return slices.Compare(a.Letters, b.Letters)
	})
	return &Corpus{words: words}
}

// LoadCorpus reads a text file.
func LoadCorpus(path, alphabet string) (*Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read text '%s': %w", path, err)
	}
	corpus := NewCorpus(string(data), alphabet)
	if len(corpus.words) == 0 {
		return nil, fmt.Errorf("text '%s' has no words of the alphabet", path)
	}
	return corpus, nil
}

// Words returns the distinct words, most frequent first.
func (c *Corpus) Words() []Word {
	return c.words
}
