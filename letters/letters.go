// Package letters splits an alphabet into a left and a right hand set so that
// letters frequently typed one after another land on the same side as rarely
// as possible while both sides carry a similar load.
package letters

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"slices"
)

// Mutation swaps a letter of the left set with a letter of the right set.
type Mutation struct {
	Left  rune
	Right rune
}

func (m Mutation) String() string {
	return fmt.Sprintf("%c<>%c", m.Left, m.Right)
}

// Letters is one split of the alphabet.
type Letters struct {
	version     string
	kind        string
	left        []rune // sorted
	right       []rune // sorted
	leftScore   float64
	rightScore  float64
	mutations   []Mutation
	parentLeft  []rune
	parentRight []rune
}

func (l *Letters) Version() string       { return l.version }
func (l *Letters) Kind() string          { return l.kind }
func (l *Letters) Mutations() []Mutation { return l.mutations }

// Key is the content of both sets. Versions and history do not take part.
func (l *Letters) Key() string {
	return string(l.left) + "|" + string(l.right)
}

func (l *Letters) Left() string  { return string(l.left) }
func (l *Letters) Right() string { return string(l.right) }

func (l *Letters) LeftScore() float64  { return l.leftScore }
func (l *Letters) RightScore() float64 { return l.rightScore }

// Score combines both side scores, see Score.
func (l *Letters) Score() float64 {
	return Score(l.leftScore, l.rightScore)
}

func (l *Letters) String() string {
	return FormatResult(l.left, l.right, l.leftScore, l.rightScore)
}

// record is the gob representation of Letters.
type record struct {
	Version     string
	Kind        string
	Left        []rune
	Right       []rune
	LeftScore   float64
	RightScore  float64
	Mutations   []Mutation
	ParentLeft  []rune
	ParentRight []rune
}

func (l *Letters) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(record{
		Version:     l.version,
		Kind:        l.kind,
		Left:        l.left,
		Right:       l.right,
		LeftScore:   l.leftScore,
		RightScore:  l.rightScore,
		Mutations:   l.mutations,
		ParentLeft:  l.parentLeft,
		ParentRight: l.parentRight,
	})
	return buf.Bytes(), err
}

func (l *Letters) GobDecode(data []byte) error {
	var r record
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
		return err
	}
	*l = Letters{
		version:     r.Version,
		kind:        r.Kind,
		left:        r.Left,
		right:       r.Right,
		leftScore:   r.LeftScore,
		rightScore:  r.RightScore,
		mutations:   r.Mutations,
		parentLeft:  r.ParentLeft,
		parentRight: r.ParentRight,
	}
	return nil
}

func sorted(letters []rune) []rune {
	out := slices.Clone(letters)
	slices.Sort(out)
	return out
}
