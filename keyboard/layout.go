package keyboard

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"unicode/utf8"

	"sigs.k8s.io/yaml"
)

// Position is a key slot. 0-14 are the left half, 15-29 the right half.
// Each half has three rows of five keys, counted from the pinky, so the right
// half mirrors the left one.
type Position uint8

const (
	// Slots is the number of key positions of a keyboard.
	Slots = 30
	// HalfSlots is the number of positions of one half.
	HalfSlots = Slots / 2
	// RowSlots is the number of positions of one row of a half.
	RowSlots = 5

	minEffort = 1.0
	maxEffort = 5.0
)

// Left reports whether the position belongs to the left half.
func (p Position) Left() bool { return p < HalfSlots }

// Definition is the layout file: a JSON or YAML document.
type Definition struct {
	// MaxEffort scales the 1-5 effort grades down to the 1-MaxEffort range.
	MaxEffort float64 `json:"maxEffort"`
	// Efforts grades typing the second position right after the first one,
	// for the left half only. The right half uses the same grades.
	Efforts map[string]map[string]float64 `json:"efforts"`
	// Frozen pins letters to positions.
	Frozen map[string]Position `json:"frozen"`
	// Blocked positions never carry a letter.
	Blocked        []Position `json:"blocked"`
	SwitchPenalty  float64    `json:"switchPenalty"`
	SameKeyPenalty float64    `json:"sameKeyPenalty"`
}

// Layout is a validated and normalised Definition.
// A Layout is read-only after construction and safe for concurrent use.
type Layout struct {
	efforts        [Slots][Slots]float64
	frozen         map[rune]Position
	blocked        [Slots]bool
	maxEffort      float64
	switchPenalty  float64
	sameKeyPenalty float64
}

// LoadLayout reads a layout definition file.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout '%s': %w", path, err)
	}
	var definition Definition
	if err := yaml.Unmarshal(data, &definition); err != nil {
		return nil, fmt.Errorf("failed to parse layout '%s': %w", path, err)
	}
	layout, err := NewLayout(definition)
	if err != nil {
		return nil, fmt.Errorf("invalid layout '%s': %w", path, err)
	}
	return layout, nil
}

// NewLayout validates a definition, normalises its efforts and mirrors them
// onto the right half. Pairs without a grade cost MaxEffort.
func NewLayout(definition Definition) (*Layout, error) {
	if definition.MaxEffort < minEffort || definition.MaxEffort > maxEffort {
		return nil, fmt.Errorf("maxEffort %v must be between %v and %v", definition.MaxEffort, minEffort, maxEffort)
	}
	if definition.SwitchPenalty < 0 || definition.SameKeyPenalty < 0 {
		return nil, fmt.Errorf("penalties cannot be negative")
	}

	layout := &Layout{
		frozen:         make(map[rune]Position, len(definition.Frozen)),
		maxEffort:      definition.MaxEffort,
		switchPenalty:  definition.SwitchPenalty,
		sameKeyPenalty: definition.SameKeyPenalty,
	}
	for i := range layout.efforts {
		for j := range layout.efforts[i] {
			layout.efforts[i][j] = definition.MaxEffort
		}
	}

	factor := (definition.MaxEffort - minEffort) / (maxEffort - minEffort)
	for from, row := range definition.Efforts {
		first, err := parsePosition(from)
		if err != nil {
			return nil, err
		}
		for to, value := range row {
			second, err := parsePosition(to)
			if err != nil {
				return nil, err
			}
			if value < minEffort || value > maxEffort {
				return nil, fmt.Errorf("effort %v of %d-%d must be between %v and %v", value, first, second, minEffort, maxEffort)
			}
			effort := (value-minEffort)*factor + minEffort
			layout.efforts[first][second] = effort
			layout.efforts[first+HalfSlots][second+HalfSlots] = effort
		}
	}

	for _, p := range definition.Blocked {
		if p >= Slots {
			return nil, fmt.Errorf("blocked position %d is out of range", p)
		}
		layout.blocked[p] = true
	}

	taken := make(map[Position]rune, len(definition.Frozen))
	for key, p := range definition.Frozen {
		if utf8.RuneCountInString(key) != 1 {
			return nil, fmt.Errorf("frozen key %q must be a single letter", key)
		}
		letter, _ := utf8.DecodeRuneInString(key)
		if p >= Slots || layout.blocked[p] {
			return nil, fmt.Errorf("letter %q is frozen at unusable position %d", letter, p)
		}
		if other, ok := taken[p]; ok {
			return nil, fmt.Errorf("letters %q and %q are frozen at the same position %d", other, letter, p)
		}
		taken[p] = letter
		layout.frozen[letter] = p
	}
	return layout, nil
}

func parsePosition(s string) (Position, error) {
	p, err := strconv.ParseUint(s, 10, 8)
	if err != nil || p >= HalfSlots {
		return 0, fmt.Errorf("effort position %q must be between 0 and %d", s, HalfSlots-1)
	}
	return Position(p), nil
}

// Effort returns the normalised effort of typing second right after first.
// Both positions are expected on the same half.
func (l *Layout) Effort(first, second Position) float64 {
	return l.efforts[first][second]
}

// Blocked reports whether a position can never carry a letter.
func (l *Layout) Blocked(p Position) bool {
	return p >= Slots || l.blocked[p]
}

// Frozen returns the position a letter is pinned to.
func (l *Layout) Frozen(letter rune) (Position, bool) {
	p, ok := l.frozen[letter]
	return p, ok
}

// Movable reports whether the content of a position may be swapped: it is in
// range, not blocked and not holding a frozen letter.
func (l *Layout) Movable(p Position) bool {
	if l.Blocked(p) {
		return false
	}
	for _, frozen := range l.frozen {
		if frozen == p {
			return false
		}
	}
	return true
}

// Free returns the movable positions in ascending order.
func (l *Layout) Free() []Position {
	free := make([]Position, 0, Slots)
	for p := range Position(Slots) {
		if l.Movable(p) {
			free = append(free, p)
		}
	}
	return free
}

// FrozenLetters returns the pinned letters in ascending order.
func (l *Layout) FrozenLetters() []rune {
	letters := make([]rune, 0, len(l.frozen))
	for letter := range l.frozen {
		letters = append(letters, letter)
	}
	slices.Sort(letters)
	return letters
}
