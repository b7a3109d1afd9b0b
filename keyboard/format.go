package keyboard

import (
	"fmt"
	"strings"
)

const (
	empty = '_'
	rows  = HalfSlots / RowSlots
)

func display(letter rune) rune {
	if letter == 0 {
		return empty
	}
	return letter
}

// order lists the positions in the order they are rendered: the left half
// row by row from the pinky, then the right half row by row from the index
// finger, which is how the keys are physically laid out.
var order = func() []Position {
	positions := make([]Position, 0, Slots)
	for row := range Position(rows) {
		for column := range Position(RowSlots) {
			positions = append(positions, row*RowSlots+column)
		}
	}
	for row := range Position(rows) {
		for column := range Position(RowSlots) {
			positions = append(positions, HalfSlots+row*RowSlots+RowSlots-1-column)
		}
	}
	return positions
}()

// FormatLayout renders the keys as "qwert asdfg zxcvb  yuiop hjkl; nm,./".
func FormatLayout(keys Keys) string {
	var sb strings.Builder
	for i, p := range order {
		switch {
		case i == HalfSlots:
			sb.WriteString("  ")
		case i > 0 && i%RowSlots == 0:
			sb.WriteByte(' ')
		}
		sb.WriteRune(display(keys[p]))
	}
	return sb.String()
}

// FormatResult renders a keyboard as one result line:
//
//	layout; left presses; right presses; balance; factor; effort;
func FormatResult(keys Keys, score Score) string {
	return fmt.Sprintf("%s; %d; %d; %.3f; %.3f; %.3f;",
		FormatLayout(keys), score.Left, score.Right, score.Balance(), score.Factor(), score.Effort)
}

// ParseResult reads the keys back from a line written by FormatResult.
// Layout characters may include ';', so the layout is read by position and
// the score fields are ignored.
func ParseResult(line string) (Keys, error) {
	var keys Keys
	runes := []rune(strings.TrimSpace(line))
	width := Slots + 2*(rows-1) + 2
	if len(runes) < width {
		return keys, fmt.Errorf("result line %q is shorter than a layout", line)
	}

	i := 0
	for n, p := range order {
		switch {
		case n == HalfSlots:
			if runes[i] != ' ' || runes[i+1] != ' ' {
				return keys, fmt.Errorf("result line %q: halves must be separated by two spaces", line)
			}
			i += 2
		case n > 0 && n%RowSlots == 0:
			if runes[i] != ' ' {
				return keys, fmt.Errorf("result line %q: rows must be separated by a space", line)
			}
			i++
		}
		if letter := runes[i]; letter != empty {
			if letter == ' ' {
				return keys, fmt.Errorf("result line %q: unexpected space in a row", line)
			}
			keys[p] = letter
		}
		i++
	}
	if len(runes) > width && runes[width] != ';' {
		return keys, fmt.Errorf("result line %q: layout must be followed by ';'", line)
	}
	return keys, nil
}
