package letters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := map[string]func(c *Config){
		"short alphabet":       func(c *Config) { c.Alphabet = "a" },
		"repeated letters":     func(c *Config) { c.Alphabet = "abca" },
		"separator letter":     func(c *Config) { c.Alphabet = "abc;" },
		"space letter":         func(c *Config) { c.Alphabet = "ab c" },
		"tab letter":           func(c *Config) { c.Alphabet = "ab\tc" },
		"zero left count":      func(c *Config) { c.LeftCount = 0 },
		"whole alphabet left":  func(c *Config) { c.LeftCount = 26 },
		"unknown frozen":       func(c *Config) { c.FrozenLeft = "1" },
		"frozen on both sides": func(c *Config) { c.FrozenLeft, c.FrozenRight = "ab", "b" },
		"too many frozen left": func(c *Config) { c.LeftCount, c.FrozenLeft = 1, "ab" },
		"too many frozen right": func(c *Config) {
			c.LeftCount, c.FrozenRight = 25, "ab"
		},
		"no result": func(c *Config) { c.Result = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			mutate(&c)
			assert.ErrorContains(t, c.Validate(), "config error")
		})
	}
}
