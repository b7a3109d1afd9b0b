package letters

import (
	"fmt"
	"slices"
	"unicode"
)

// Config holds the parameters of the letters behaviour, the [Letters] section.
type Config struct {
	LeftCount   int    `ini:"left_count"`   // Letters on the left side.
	FrozenLeft  string `ini:"frozen_left"`  // Letters pinned to the left side.
	FrozenRight string `ini:"frozen_right"` // Letters pinned to the right side.
	Alphabet    string `ini:"alphabet"`
	Digraphs    string `ini:"digraphs"` // Digraph frequencies file.
	Result      string `ini:"result"`   // Name of the stored result record.
}

func DefaultConfig() Config {
	return Config{
		LeftCount: 15,
		Alphabet:  "abcdefghijklmnopqrstuvwxyz",
		Digraphs:  "digraphs.json",
		Result:    "letters",
	}
}

// Validate checks that a split satisfying the frozen letters exists.
func (c Config) Validate() error {
	alphabet := []rune(c.Alphabet)
	if len(alphabet) < 2 {
		return fmt.Errorf("config error: alphabet needs at least two letters")
	}
	for _, letter := range alphabet {
		if letter == ';' || unicode.IsSpace(letter) {
			return fmt.Errorf("config error: alphabet cannot contain %q", letter)
		}
	}
	if unique := slices.Compact(sorted(alphabet)); len(unique) != len(alphabet) {
		return fmt.Errorf("config error: alphabet %q repeats letters", c.Alphabet)
	}
	if c.LeftCount <= 0 || c.LeftCount >= len(alphabet) {
		return fmt.Errorf("config error: left_count must be between 1 and %d", len(alphabet)-1)
	}

	for _, letter := range c.FrozenLeft + c.FrozenRight {
		if !slices.Contains(alphabet, letter) {
			return fmt.Errorf("config error: frozen letter %q is not in the alphabet", letter)
		}
	}
	for _, letter := range c.FrozenLeft {
		if slices.Contains([]rune(c.FrozenRight), letter) {
			return fmt.Errorf("config error: letter %q is frozen on both sides", letter)
		}
	}
	if n := len([]rune(c.FrozenLeft)); n > c.LeftCount {
		return fmt.Errorf("config error: %d letters frozen left, left_count is %d", n, c.LeftCount)
	}
	if n := len([]rune(c.FrozenRight)); n > len(alphabet)-c.LeftCount {
		return fmt.Errorf("config error: %d letters frozen right, only %d fit", n, len(alphabet)-c.LeftCount)
	}
	if c.Result == "" {
		return fmt.Errorf("config error: result must be set")
	}
	return nil
}
