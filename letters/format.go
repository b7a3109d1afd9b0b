package letters

import (
	"fmt"
	"strconv"
	"strings"
)

// Factor rewards balanced sides: 1 when both scores are equal, lower the more
// one side outweighs the other.
func Factor(left, right float64) float64 {
	high, low := max(left, right), min(left, right)
	if high == 0 {
		return 1
	}
	return 1.1 - 0.1/(low/high)
}

// Score is the total of both sides weighted by the cube of their factor.
func Score(left, right float64) float64 {
	factor := Factor(left, right)
	return (left + right) * factor * factor * factor
}

// FormatResult renders a split as one result line:
//
//	len; left; left score; len; right; right score; factor; total; score;
func FormatResult(left, right []rune, leftScore, rightScore float64) string {
	return fmt.Sprintf("%d; %s; %.3f; %d; %s; %.3f; %.3f; %.3f; %.3f;",
		len(left), string(left), leftScore,
		len(right), string(right), rightScore,
		Factor(leftScore, rightScore),
		leftScore+rightScore,
		Score(leftScore, rightScore))
}

// ParseResult extracts both letter sets from a line written by FormatResult.
// Scores are not parsed, they are recomputed by the behaviour.
func ParseResult(line string) (left, right []rune, err error) {
	fields := strings.Split(line, ";")
	if len(fields) < 6 {
		return nil, nil, fmt.Errorf("result line %q has %d fields, want at least 6", line, len(fields))
	}

	parse := func(countField, lettersField string) ([]rune, error) {
		count, err := strconv.Atoi(strings.TrimSpace(countField))
		if err != nil {
			return nil, fmt.Errorf("result line %q: invalid letter count: %w", line, err)
		}
		letters := []rune(strings.TrimSpace(lettersField))
		if len(letters) != count {
			return nil, fmt.Errorf("result line %q: %d letters listed, %d expected", line, len(letters), count)
		}
		return letters, nil
	}

	if left, err = parse(fields[0], fields[1]); err != nil {
		return nil, nil, err
	}
	if right, err = parse(fields[3], fields[4]); err != nil {
		return nil, nil, err
	}
	return left, right, nil
}
