package keyboard

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

	"github.com/sgaliamov/ergo-balance/genetic"
	"github.com/sgaliamov/ergo-balance/storage"
)

// Behaviour implements the genetic rules for keyboards. Lower totals rank
// first.
type Behaviour struct {
	context  genetic.Context
	config   Config
	layout   *Layout
	corpus   *Corpus
	store    storage.Store
	alphabet []rune
	loose    []rune     // letters that are not frozen
	free     []Position // positions the loose letters may take
	scores   *cache.Cache
}

// NewBehaviour checks that the alphabet fits the layout and creates the
// behaviour. A nil store disables Load and Save.
func NewBehaviour(settings genetic.Context, config Config, layout *Layout, corpus *Corpus, store storage.Store) (*Behaviour, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	alphabet := []rune(config.Alphabet)
	for _, letter := range layout.FrozenLetters() {
		if !slices.Contains(alphabet, letter) {
			return nil, fmt.Errorf("frozen letter %q is not in the alphabet", letter)
		}
	}
	var loose []rune
	for _, letter := range alphabet {
		if _, ok := layout.Frozen(letter); !ok {
			loose = append(loose, letter)
		}
	}
	free := layout.Free()
	if len(loose) > len(free) {
		return nil, fmt.Errorf("%d letters do not fit %d free positions", len(loose), len(free))
	}

	return &Behaviour{
		context:  settings,
		config:   config,
		layout:   layout,
		corpus:   corpus,
		store:    store,
		alphabet: alphabet,
		loose:    loose,
		free:     free,
		scores:   cache.New(time.Minute, 5*time.Minute),
	}, nil
}

func (b *Behaviour) Context() genetic.Context {
	return b.context
}

// Generate pins the frozen letters and scatters the others over the free
// positions.
func (b *Behaviour) Generate(rng *rand.Rand) *Keyboard {
	positions := slices.Clone(b.free)
	rng.Shuffle(len(positions), func(i, j int) { positions[i], positions[j] = positions[j], positions[i] })

	keys := b.frozenKeys()
	for i, letter := range b.loose {
		keys[positions[i]] = letter
	}

	// Generated keyboards are their own ancestors, so they can be crossed
	// with their children.
	version := uuid.NewString()
	return b.newKeyboard(version, version, keys, nil, keys)
}

// Mutate swaps between one and MutationsCount pairs of free positions, the
// count drawn per child. Swapping two empty positions changes nothing, such
// pairs are skipped.
func (b *Behaviour) Mutate(rng *rand.Rand, individual *Keyboard) *Keyboard {
	positions := slices.Clone(b.free)
	rng.Shuffle(len(positions), func(i, j int) { positions[i], positions[j] = positions[j], positions[i] })

	count := 1 + rng.IntN(b.context.MutationsCount)
	keys := individual.keys
	mutations := make([]Mutation, 0, count)
	for i := 0; i+1 < len(positions) && len(mutations) < count; i += 2 {
		first, second := positions[i], positions[i+1]
		if keys[first] == 0 && keys[second] == 0 {
			continue
		}
		m := newMutation(first, second)
		keys.swap(m)
		mutations = append(mutations, m)
	}

	return b.newKeyboard(uuid.NewString(), individual.version, keys, mutations, individual.keys)
}

// Cross replays the swaps of both parents onto their shared ancestor.
func (b *Behaviour) Cross(rng *rand.Rand, individual, partner *Keyboard) (*Keyboard, error) {
	if individual.kind != partner.kind {
		return nil, fmt.Errorf("%w: crossing %s with %s", genetic.ErrLineageMismatch, individual.kind, partner.kind)
	}

	keys := individual.parent
	mutations, err := genetic.Replay(rng, b.context.MutationsCount, func(m Mutation) error {
		if !b.layout.Movable(m.First) || !b.layout.Movable(m.Second) {
			return fmt.Errorf("positions %d and %d of %s cannot be swapped", m.First, m.Second, individual.kind)
		}
		keys.swap(m)
		return nil
	}, individual.mutations, partner.mutations)
	if err != nil {
		return nil, err
	}

	return b.newKeyboard(uuid.NewString(), individual.kind, keys, mutations, individual.parent), nil
}

// Compare ranks lower totals first.
func (b *Behaviour) Compare(x, y *Keyboard) int {
	return cmp.Compare(x.score.Total(), y.score.Total())
}

func (b *Behaviour) Score(individual *Keyboard) float64 {
	return individual.score.Total()
}

// Load reads saved results and turns them into new individuals. Lines that
// do not fit the current alphabet or layout are skipped.
func (b *Behaviour) Load(ctx context.Context) ([]*Keyboard, error) {
	if b.store == nil {
		return nil, nil
	}
	lines, ok, err := b.store.LoadResults(ctx, b.config.Result)
	if err != nil || !ok {
		return nil, err
	}

	logger := klog.FromContext(ctx)
	loaded := make([]*Keyboard, 0, len(lines))
	for _, line := range lines {
		keys, err := ParseResult(line)
		if err != nil {
			logger.V(2).Info("Skipping unreadable result", "line", line, "err", err)
			continue
		}
		if err := b.check(keys); err != nil {
			logger.V(2).Info("Skipping incompatible result", "line", line, "err", err)
			continue
		}
		version := uuid.NewString()
		loaded = append(loaded, b.newKeyboard(version, version, keys, nil, keys))
	}
	return loaded, nil
}

// Save stores the result lines of the individuals.
func (b *Behaviour) Save(ctx context.Context, individuals []*Keyboard) error {
	if b.store == nil {
		return nil
	}
	lines := make([]string, len(individuals))
	for i, individual := range individuals {
		lines[i] = individual.String()
	}
	return b.store.SaveResults(ctx, b.config.Result, lines)
}

// check verifies that the keys hold the alphabet once, leave blocked
// positions empty and keep frozen letters in place.
func (b *Behaviour) check(keys Keys) error {
	seen := make(map[rune]bool, len(b.alphabet))
	for p, letter := range keys {
		if letter == 0 {
			continue
		}
		position := Position(p)
		if !slices.Contains(b.alphabet, letter) {
			return fmt.Errorf("letter %q is not in the alphabet", letter)
		}
		if seen[letter] {
			return fmt.Errorf("letter %q is placed twice", letter)
		}
		seen[letter] = true
		if b.layout.Blocked(position) {
			return fmt.Errorf("letter %q is on blocked position %d", letter, position)
		}
		if frozen, ok := b.layout.Frozen(letter); ok && frozen != position {
			return fmt.Errorf("letter %q is frozen at %d, found at %d", letter, frozen, position)
		}
	}
	if len(seen) != len(b.alphabet) {
		return fmt.Errorf("%d of %d letters are placed", len(seen), len(b.alphabet))
	}
	return nil
}

func (b *Behaviour) frozenKeys() Keys {
	var keys Keys
	for _, letter := range b.layout.FrozenLetters() {
		p, _ := b.layout.Frozen(letter)
		keys[p] = letter
	}
	return keys
}

func (b *Behaviour) newKeyboard(version, kind string, keys Keys, mutations []Mutation, parent Keys) *Keyboard {
	return &Keyboard{
		version:   version,
		kind:      kind,
		keys:      keys,
		score:     b.evaluate(keys),
		mutations: mutations,
		parent:    parent,
	}
}

func (b *Behaviour) evaluate(keys Keys) Score {
	key := string(keys[:])
	if score, ok := b.scores.Get(key); ok {
		return score.(Score)
	}
	score := b.layout.Evaluate(b.corpus, keys)
	b.scores.SetDefault(key, score)
	return score
}
