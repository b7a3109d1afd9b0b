package keyboard

import "math"

// Score is the cost of typing a corpus on a keyboard.
type Score struct {
	Effort float64 // Summed effort of all words.
	Left   int     // Key presses on the left half.
	Right  int     // Key presses on the right half.
}

// Balance is the ratio of the busier half to the other one, 1 at best.
func (s Score) Balance() float64 {
	high, low := max(s.Left, s.Right), min(s.Left, s.Right)
	if high == 0 {
		return 1
	}
	return float64(high) / float64(low)
}

// Factor grows from 1 for a perfect balance towards 3. The 2.2 power keeps
// small imbalances cheap.
func (s Score) Factor() float64 {
	return 3 - 2/(math.Pow(s.Balance()-1, 2.2)+1)
}

// Total is the effort weighted by the balance factor. Lower is better.
func (s Score) Total() float64 {
	return s.Effort * s.Factor()
}

// Evaluate scores the keys, a letter per slot with 0 for empty slots.
//
// Every consecutive pair of letters of a word costs the effort of their
// positions, multiplied by the same key penalty when both letters share a key.
// A pair typed by different halves costs the switch penalty instead. A word of
// one letter costs the effort of pressing its key twice.
func (l *Layout) Evaluate(corpus *Corpus, keys [Slots]rune) Score {
	positions := make(map[rune]Position, Slots)
	for p, letter := range keys {
		if letter != 0 {
			positions[letter] = Position(p)
		}
	}

	var score Score
	for _, word := range corpus.words {
		effort := 0.0
		previous, pressed := Position(0), false
		for _, letter := range word.Letters {
			p, ok := positions[letter]
			if !ok {
				continue
			}
			if p.Left() {
				score.Left += word.Count
			} else {
				score.Right += word.Count
			}

			if len(word.Letters) == 1 {
				effort += l.efforts[p][p]
			} else if pressed {
				effort += l.pairEffort(previous, p)
			}
			previous, pressed = p, true
		}
		score.Effort += effort * float64(word.Count)
	}
	return score
}

func (l *Layout) pairEffort(first, second Position) float64 {
	if first.Left() != second.Left() {
		return l.switchPenalty
	}
	effort := l.efforts[first][second]
	if first == second {
		return effort * l.sameKeyPenalty
	}
	return effort
}
