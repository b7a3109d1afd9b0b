package keyboard

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Config holds the parameters of the keyboard behaviour, the [Keyboard] section.
type Config struct {
	Layout   string `ini:"layout"` // Layout definition file.
	Text     string `ini:"text"`   // Text the keyboards are scored against.
	Alphabet string `ini:"alphabet"`
	Result   string `ini:"result"` // Name of the stored result record.
}

func DefaultConfig() Config {
	return Config{
		Layout:   "keyboard.json",
		Text:     "text.txt",
		Alphabet: "abcdefghijklmnopqrstuvwxyz",
		Result:   "keyboards",
	}
}

func (c Config) Validate() error {
	n := utf8.RuneCountInString(c.Alphabet)
	if n == 0 {
		return fmt.Errorf("config error: alphabet must be set")
	}
	if n > Slots {
		return fmt.Errorf("config error: alphabet has %d letters, a keyboard has %d keys", n, Slots)
	}
	seen := make(map[rune]bool, n)
	for _, letter := range c.Alphabet {
		if letter == empty || letter == ' ' {
			return fmt.Errorf("config error: alphabet cannot contain %q", letter)
		}
		if seen[letter] {
			return fmt.Errorf("config error: alphabet %q repeats %q", c.Alphabet, letter)
		}
		seen[letter] = true
	}
	if strings.ToLower(c.Alphabet) != c.Alphabet {
		return fmt.Errorf("config error: alphabet must be lower case")
	}
	if c.Result == "" {
		return fmt.Errorf("config error: result must be set")
	}
	return nil
}
