package letters

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"k8s.io/klog/v2"

	"github.com/sgaliamov/ergo-balance/digraphs"
	"github.com/sgaliamov/ergo-balance/genetic"
	"github.com/sgaliamov/ergo-balance/storage"
)

// Behaviour implements the genetic rules for letter splits. Higher scores
// rank first.
type Behaviour struct {
	context     genetic.Context
	config      Config
	digraphs    *digraphs.Digraphs
	store       storage.Store
	alphabet    []rune
	frozenLeft  []rune
	frozenRight []rune
	scores      *cache.Cache // side letters -> digraph score
}

// NewBehaviour validates the configuration and creates the behaviour.
// A nil store disables Load and Save.
func NewBehaviour(settings genetic.Context, config Config, d *digraphs.Digraphs, store storage.Store) (*Behaviour, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Behaviour{
		context:     settings,
		config:      config,
		digraphs:    d,
		store:       store,
		alphabet:    []rune(config.Alphabet),
		frozenLeft:  []rune(config.FrozenLeft),
		frozenRight: []rune(config.FrozenRight),
		scores:      cache.New(time.Minute, 5*time.Minute),
	}, nil
}

func (b *Behaviour) Context() genetic.Context {
	return b.context
}

// Generate places the frozen letters on their sides and deals the others
// randomly.
func (b *Behaviour) Generate(rng *rand.Rand) *Letters {
	var free []rune
	for _, letter := range b.alphabet {
		if !slices.Contains(b.frozenLeft, letter) && !slices.Contains(b.frozenRight, letter) {
			free = append(free, letter)
		}
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	split := b.config.LeftCount - len(b.frozenLeft)
	left := append(slices.Clone(b.frozenLeft), free[:split]...)
	right := append(slices.Clone(b.frozenRight), free[split:]...)

	// Generated individuals are their own ancestors, so they can be crossed
	// with their children.
	version := uuid.NewString()
	return b.newLetters(version, version, left, right, nil, left, right)
}

// Mutate swaps up to MutationsCount free letters across the sides.
func (b *Behaviour) Mutate(rng *rand.Rand, individual *Letters) *Letters {
	left := without(individual.left, b.frozenLeft)
	right := without(individual.right, b.frozenRight)
	rng.Shuffle(len(left), func(i, j int) { left[i], left[j] = left[j], left[i] })
	rng.Shuffle(len(right), func(i, j int) { right[i], right[j] = right[j], right[i] })

	count := min(b.context.MutationsCount, len(left), len(right))
	mutations := make([]Mutation, 0, count)
	for i := range count {
		mutations = append(mutations, Mutation{Left: left[i], Right: right[i]})
		left[i], right[i] = right[i], left[i]
	}

	left = append(left, b.frozenLeft...)
	right = append(right, b.frozenRight...)

	return b.newLetters(uuid.NewString(), individual.version, left, right, mutations, individual.left, individual.right)
}

// Cross replays the mutations of both parents onto their shared ancestor.
func (b *Behaviour) Cross(rng *rand.Rand, individual, partner *Letters) (*Letters, error) {
	if individual.kind != partner.kind {
		return nil, fmt.Errorf("%w: crossing %s with %s", genetic.ErrLineageMismatch, individual.kind, partner.kind)
	}

	left := slices.Clone(individual.parentLeft)
	right := slices.Clone(individual.parentRight)

	mutations, err := genetic.Replay(rng, b.context.MutationsCount, func(m Mutation) error {
		i := slices.Index(left, m.Left)
		j := slices.Index(right, m.Right)
		if i >= 0 && j >= 0 {
			left[i], right[j] = m.Right, m.Left
			return nil
		}
		if slices.Contains(individual.parentLeft, m.Left) && slices.Contains(individual.parentRight, m.Right) {
			// One of the letters was already moved by an earlier replayed swap.
			return fmt.Errorf("%w: %v", genetic.ErrConflict, m)
		}
		return fmt.Errorf("letters %c and %c are not on opposite sides of %s", m.Left, m.Right, individual.kind)
	}, individual.mutations, partner.mutations)
	if err != nil {
		return nil, err
	}

	return b.newLetters(uuid.NewString(), individual.kind, left, right, mutations,
		individual.parentLeft, individual.parentRight), nil
}

// Compare ranks higher scores first.
func (b *Behaviour) Compare(x, y *Letters) int {
	return cmp.Compare(y.Score(), x.Score())
}

func (b *Behaviour) Score(individual *Letters) float64 {
	return individual.Score()
}

// Load reads saved results and turns them into new individuals. Lines that
// do not fit the current alphabet or frozen letters are skipped.
func (b *Behaviour) Load(ctx context.Context) ([]*Letters, error) {
	if b.store == nil {
		return nil, nil
	}
	lines, ok, err := b.store.LoadResults(ctx, b.config.Result)
	if err != nil || !ok {
		return nil, err
	}

	logger := klog.FromContext(ctx)
	loaded := make([]*Letters, 0, len(lines))
	for _, line := range lines {
		left, right, err := ParseResult(line)
		if err != nil {
			logger.V(2).Info("Skipping unreadable result", "line", line, "err", err)
			continue
		}
		if err := b.check(left, right); err != nil {
			logger.V(2).Info("Skipping incompatible result", "line", line, "err", err)
			continue
		}
		version := uuid.NewString()
		loaded = append(loaded, b.newLetters(version, version, left, right, nil, left, right))
	}
	return loaded, nil
}

// Save stores the result lines of the individuals.
func (b *Behaviour) Save(ctx context.Context, individuals []*Letters) error {
	if b.store == nil {
		return nil
	}
	lines := make([]string, len(individuals))
	for i, individual := range individuals {
		lines[i] = individual.String()
	}
	return b.store.SaveResults(ctx, b.config.Result, lines)
}

// check verifies that a split uses the alphabet and honours frozen letters.
func (b *Behaviour) check(left, right []rune) error {
	if len(left) != b.config.LeftCount {
		return fmt.Errorf("left side has %d letters, want %d", len(left), b.config.LeftCount)
	}
	if !slices.Equal(sorted(append(slices.Clone(left), right...)), sorted(b.alphabet)) {
		return fmt.Errorf("letters do not match the alphabet")
	}
	for _, letter := range b.frozenLeft {
		if !slices.Contains(left, letter) {
			return fmt.Errorf("frozen letter %c is not on the left", letter)
		}
	}
	for _, letter := range b.frozenRight {
		if !slices.Contains(right, letter) {
			return fmt.Errorf("frozen letter %c is not on the right", letter)
		}
	}
	return nil
}

func (b *Behaviour) newLetters(version, kind string, left, right []rune, mutations []Mutation, parentLeft, parentRight []rune) *Letters {
	l := &Letters{
		version:     version,
		kind:        kind,
		left:        sorted(left),
		right:       sorted(right),
		mutations:   mutations,
		parentLeft:  slices.Clone(parentLeft),
		parentRight: slices.Clone(parentRight),
	}
	l.leftScore = b.sideScore(l.left)
	l.rightScore = b.sideScore(l.right)
	return l
}

func (b *Behaviour) sideScore(side []rune) float64 {
	key := string(side)
	if score, ok := b.scores.Get(key); ok {
		return score.(float64)
	}
	score := b.digraphs.Score(side)
	b.scores.SetDefault(key, score)
	return score
}

// without returns a copy of letters minus the excluded ones.
func without(letters, excluded []rune) []rune {
	out := make([]rune, 0, len(letters))
	for _, letter := range letters {
		if !slices.Contains(excluded, letter) {
			out = append(out, letter)
		}
	}
	return out
}
