// Package digraphs loads letter pair frequencies and scores letter sets by
// how often their letters follow each other.
package digraphs

import (
	"fmt"
	"os"
	"unicode/utf8"

	"sigs.k8s.io/yaml"
)

// Pair is an ordered pair of letters.
type Pair [2]rune

// Digraphs maps ordered letter pairs to their frequency.
// A Digraphs value is read-only after construction and safe for concurrent use.
type Digraphs struct {
	frequencies map[Pair]float64
}

// New builds a table from two letter keys such as "th" to frequencies.
func New(frequencies map[string]float64) (*Digraphs, error) {
	d := &Digraphs{frequencies: make(map[Pair]float64, len(frequencies))}
	for key, frequency := range frequencies {
		if utf8.RuneCountInString(key) != 2 {
			return nil, fmt.Errorf("digraph %q must have exactly two letters", key)
		}
		if frequency < 0 {
			return nil, fmt.Errorf("digraph %q has negative frequency %v", key, frequency)
		}
		first, size := utf8.DecodeRuneInString(key)
		second, _ := utf8.DecodeRuneInString(key[size:])
		d.frequencies[Pair{first, second}] += frequency
	}
	return d, nil
}

// Load reads a JSON or YAML object of digraph frequencies from a file.
func Load(path string) (*Digraphs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read digraphs '%s': %w", path, err)
	}
	var frequencies map[string]float64
	if err := yaml.Unmarshal(data, &frequencies); err != nil {
		return nil, fmt.Errorf("failed to parse digraphs '%s': %w", path, err)
	}
	d, err := New(frequencies)
	if err != nil {
		return nil, fmt.Errorf("invalid digraphs '%s': %w", path, err)
	}
	return d, nil
}

// Frequency returns the frequency of first followed by second.
func (d *Digraphs) Frequency(first, second rune) float64 {
	return d.frequencies[Pair{first, second}]
}

// Len returns the number of known pairs.
func (d *Digraphs) Len() int {
	return len(d.frequencies)
}

// Score sums the frequencies of all ordered pairs of distinct letters of the
// set, that is how often a letter of the set is followed by another one.
func (d *Digraphs) Score(letters []rune) float64 {
	total := 0.0
	for _, first := range letters {
		for _, second := range letters {
			if first != second {
				total += d.frequencies[Pair{first, second}]
			}
		}
	}
	return total
}
