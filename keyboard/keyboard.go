// Package keyboard searches for the placement of letters on a split keyboard
// that minimises the typing effort of a text while keeping both halves
// similarly busy.
package keyboard

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"strings"
)

// Mutation swaps the contents of two positions. First is always the lower
// position so equal swaps compare equal.
type Mutation struct {
	First  Position
	Second Position
}

func newMutation(a, b Position) Mutation {
	if a > b {
		a, b = b, a
	}
	return Mutation{First: a, Second: b}
}

func (m Mutation) String() string {
	return fmt.Sprintf("%d<>%d", m.First, m.Second)
}

// Keys holds a letter per position, 0 marks an empty slot.
type Keys [Slots]rune

func (k *Keys) swap(m Mutation) {
	k[m.First], k[m.Second] = k[m.Second], k[m.First]
}

// Keyboard is one placement of the alphabet.
type Keyboard struct {
	version   string
	kind      string
	keys      Keys
	score     Score
	mutations []Mutation
	parent    Keys
}

func (k *Keyboard) Version() string       { return k.version }
func (k *Keyboard) Kind() string          { return k.kind }
func (k *Keyboard) Mutations() []Mutation { return k.mutations }
func (k *Keyboard) Keys() Keys            { return k.keys }
func (k *Keyboard) Score() Score          { return k.score }

// Key is the placement, one character per position.
func (k *Keyboard) Key() string {
	var sb strings.Builder
	for _, letter := range k.keys {
		sb.WriteRune(display(letter))
	}
	return sb.String()
}

// String renders the keyboard as a result line.
func (k *Keyboard) String() string {
	return FormatResult(k.keys, k.score)
}

// record is the gob representation of Keyboard.
type record struct {
	Version   string
	Kind      string
	Keys      Keys
	Score     Score
	Mutations []Mutation
	Parent    Keys
}

func (k *Keyboard) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(record{
		Version:   k.version,
		Kind:      k.kind,
		Keys:      k.keys,
		Score:     k.score,
		Mutations: k.mutations,
		Parent:    k.parent,
	})
	return buf.Bytes(), err
}

func (k *Keyboard) GobDecode(data []byte) error {
	var r record
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
		return err
	}
	*k = Keyboard{
		version:   r.Version,
		kind:      r.Kind,
		keys:      r.Keys,
		score:     r.Score,
		mutations: r.Mutations,
		parent:    r.Parent,
	}
	return nil
}
