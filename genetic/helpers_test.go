package genetic

import (
	"bytes"
	"cmp"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"
)

type swap struct{ A, B int }

// perm is a permutation of small integers. Its score is the sum of
// position*value, so sorted ascending permutations score highest.
type perm struct {
	version   string
	kind      string
	genes     []int
	ancestor  []int
	mutations []swap
}

func (p *perm) Version() string   { return p.version }
func (p *perm) Kind() string      { return p.kind }
func (p *perm) Mutations() []swap { return p.mutations }
func (p *perm) Key() string       { return fmt.Sprint(p.genes) }
func (p *perm) String() string    { return fmt.Sprintf("%v; %d;", p.genes, p.score()) }

func (p *perm) score() int {
	total := 0
	for i, g := range p.genes {
		total += i * g
	}
	return total
}

type permRecord struct {
	Version, Kind   string
	Genes, Ancestor []int
	Mutations       []swap
}

func (p *perm) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(permRecord{p.version, p.kind, p.genes, p.ancestor, p.mutations})
	return buf.Bytes(), err
}

func (p *perm) GobDecode(data []byte) error {
	var r permRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&r); err != nil {
		return err
	}
	*p = perm{r.Version, r.Kind, r.Genes, r.Ancestor, r.Mutations}
	return nil
}

// permBehaviour is a configurable behaviour over perm individuals.
type permBehaviour struct {
	context      Context
	size         int
	descending   bool // prefer higher scores
	identity     bool // mutate and cross return copies of their input
	incompatible bool // every replayed mutation fails

	versions atomic.Int64
	crosses  atomic.Int64

	mu      sync.Mutex
	loaded  []*perm
	saved   [][]*perm
	saveErr error
}

func newPermBehaviour(size int, context Context) *permBehaviour {
	return &permBehaviour{context: context, size: size}
}

func (b *permBehaviour) nextVersion() string {
	return fmt.Sprintf("v%d", b.versions.Add(1))
}

func (b *permBehaviour) individual(genes ...int) *perm {
	version := b.nextVersion()
	return &perm{version: version, kind: version, genes: genes, ancestor: genes}
}

func (b *permBehaviour) Context() Context { return b.context }

func (b *permBehaviour) Generate(rng *rand.Rand) *perm {
	return b.individual(rng.Perm(b.size)...)
}

func (b *permBehaviour) Mutate(rng *rand.Rand, parent *perm) *perm {
	genes := slices.Clone(parent.genes)
	var mutations []swap
	if !b.identity {
		for range b.context.MutationsCount {
			m := swap{rng.IntN(b.size), rng.IntN(b.size)}
			genes[m.A], genes[m.B] = genes[m.B], genes[m.A]
			mutations = append(mutations, m)
		}
	}
	return &perm{
		version:   b.nextVersion(),
		kind:      parent.version,
		genes:     genes,
		ancestor:  parent.genes,
		mutations: mutations,
	}
}

func (b *permBehaviour) Cross(rng *rand.Rand, x, y *perm) (*perm, error) {
	b.crosses.Add(1)
	if x.kind != y.kind {
		return nil, fmt.Errorf("crossing %s with %s", x.kind, y.kind)
	}
	if b.identity {
		return &perm{version: b.nextVersion(), kind: x.kind, genes: x.genes, ancestor: x.ancestor, mutations: x.mutations}, nil
	}

	genes := slices.Clone(x.ancestor)
	applied, err := Replay(rng, b.context.MutationsCount, func(m swap) error {
		if b.incompatible {
			return errors.New("slot mismatch")
		}
		genes[m.A], genes[m.B] = genes[m.B], genes[m.A]
		return nil
	}, x.mutations, y.mutations)
	if err != nil {
		return nil, err
	}
	return &perm{
		version:   b.nextVersion(),
		kind:      x.kind,
		genes:     genes,
		ancestor:  x.ancestor,
		mutations: applied,
	}, nil
}

func (b *permBehaviour) Compare(x, y *perm) int {
	if b.descending {
		return cmp.Compare(y.score(), x.score())
	}
	return cmp.Compare(x.score(), y.score())
}

func (b *permBehaviour) Score(p *perm) float64 { return float64(p.score()) }

// persistingBehaviour adds Load and Save to permBehaviour.
type persistingBehaviour struct {
	*permBehaviour
}

func (b persistingBehaviour) Load(context.Context) ([]*perm, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.loaded), nil
}

func (b persistingBehaviour) Save(_ context.Context, individuals []*perm) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saved = append(b.saved, slices.Clone(individuals))
	return nil
}

func testContext() Context {
	return Context{
		MutationsCount:   2,
		PopulationSize:   10,
		ChildrenCount:    4,
		GenerationsCount: 5,
		ResultsCount:     3,
		RepeatsCount:     0,
		Workers:          4,
		Seed:             42,
	}
}

func keys(items []*perm) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Key()
	}
	return out
}
