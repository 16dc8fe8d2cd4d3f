package archecs

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/edwinsyarief/archecs/hashmap"
	"github.com/edwinsyarief/archecs/pool"
)

const (
	// MaxComponents is the largest component table a World accepts.
	MaxComponents = 4096
	// MaxSystems is the largest system table a World accepts.
	MaxSystems = MaxEntities

	defaultInitialRows   = 16
	defaultMaxArchetypes = 1 << 16
	masksPerChunk        = 32
	noArchetype          = -1
)

var (
	// ErrInvalidLimit is returned by NewWorld when a table limit is out of range.
	ErrInvalidLimit = errors.New("archecs: invalid world limit")
	// ErrCorrupt is returned by CheckIntegrity when bookkeeping is inconsistent.
	ErrCorrupt = errors.New("archecs: world bookkeeping is inconsistent")
)

// entityRecord is the world's view of one entity slot. id holds the handle
// currently issued for the slot, or the handle the next reuse will issue
// when the slot is free.
type entityRecord struct {
	id    Entity
	arch  int32 // index into World.archetypes, or noArchetype
	row   int32
	alive bool
}

// World owns every entity, component, archetype and system. It is not safe
// for concurrent use; callers serialize all access.
type World struct {
	log *zap.Logger

	maxEntities   int
	maxComponents int
	maxSystems    int
	maxArchetypes int
	maskWords     int
	initialRows   int

	records   []entityRecord
	freeSlots entityQueue
	numSlots  int
	numAlive  int

	componentNames *hashmap.Map // name hash -> registration index
	componentSizes []int
	componentLabel []string

	archetypeMap   *hashmap.Map // mask bytes -> archetype index
	archetypes     []*Archetype
	archetypeMasks *pool.Chunked[uint64]
	scratch        []uint64

	systemNames *hashmap.Map // name hash -> registration index
	systems     []*system
	systemMasks *pool.Static[uint64]

	released bool
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for registrations, archetype creation and
// capacity warnings. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithInitialRows sets the row capacity each new archetype starts with.
func WithInitialRows(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.initialRows = n
		}
	}
}

// WithMaxArchetypes bounds how many archetypes the world may create.
func WithMaxArchetypes(n int) Option {
	return func(w *World) {
		if n > 0 {
			w.maxArchetypes = n
		}
	}
}

// NewWorld creates a world for at most maxEntities live entities,
// maxComponents component types and maxSystems systems.
//
// Parameters:
//   - maxEntities: entity slot count, in (0, MaxEntities].
//   - maxComponents: component table size, in (0, MaxComponents].
//   - maxSystems: system table size, in (0, MaxSystems].
//
// Returns:
//   - The world, or an error wrapping ErrInvalidLimit for out-of-range limits.
func NewWorld(maxEntities, maxComponents, maxSystems int, opts ...Option) (*World, error) {
	switch {
	case maxEntities <= 0 || maxEntities > MaxEntities:
		return nil, fmt.Errorf("%w: max entities %d not in (0, %d]", ErrInvalidLimit, maxEntities, MaxEntities)
	case maxComponents <= 0 || maxComponents > MaxComponents:
		return nil, fmt.Errorf("%w: max components %d not in (0, %d]", ErrInvalidLimit, maxComponents, MaxComponents)
	case maxSystems <= 0 || maxSystems > MaxSystems:
		return nil, fmt.Errorf("%w: max systems %d not in (0, %d]", ErrInvalidLimit, maxSystems, MaxSystems)
	}

	w := &World{
		log:           zap.NewNop(),
		maxEntities:   maxEntities,
		maxComponents: maxComponents,
		maxSystems:    maxSystems,
		maxArchetypes: defaultMaxArchetypes,
		maskWords:     maskWordsFor(maxComponents),
		initialRows:   defaultInitialRows,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.maxArchetypes > hashmap.MaxElements {
		w.maxArchetypes = hashmap.MaxElements
	}

	w.records = make([]entityRecord, maxEntities)
	w.freeSlots = newEntityQueue(maxEntities)
	w.componentSizes = make([]int, 0, maxComponents)
	w.componentLabel = make([]string, 0, maxComponents)
	w.scratch = make([]uint64, w.maskWords)

	var err error
	if w.componentNames, err = hashmap.New(8, 8, maxComponents); err != nil {
		return nil, fmt.Errorf("component registry: %w", err)
	}
	if w.systemNames, err = hashmap.New(8, 8, min(maxSystems, hashmap.MaxElements)); err != nil {
		return nil, fmt.Errorf("system registry: %w", err)
	}
	if w.archetypeMap, err = hashmap.New(w.maskWords*8, 8, w.maxArchetypes); err != nil {
		return nil, fmt.Errorf("archetype map: %w", err)
	}
	if w.archetypeMasks, err = pool.NewChunked[uint64](w.maskWords, masksPerChunk); err != nil {
		return nil, fmt.Errorf("archetype masks: %w", err)
	}
	perBlock := min(maxSystems, masksPerChunk)
	if w.systemMasks, err = pool.NewStatic[uint64](w.maskWords, perBlock, (maxSystems+perBlock-1)/perBlock); err != nil {
		return nil, fmt.Errorf("system masks: %w", err)
	}

	w.log.Debug("world created",
		zap.Int("max_entities", maxEntities),
		zap.Int("max_components", maxComponents),
		zap.Int("max_systems", maxSystems))
	return w, nil
}

// Release frees every table the world owns. Afterwards every handle is dead
// and every operation on the world reports failure.
func (w *World) Release() {
	if w.released {
		return
	}
	w.released = true
	w.records = nil
	w.freeSlots = entityQueue{}
	w.numSlots, w.numAlive = 0, 0
	w.componentNames, w.systemNames, w.archetypeMap = nil, nil, nil
	w.componentSizes, w.componentLabel = nil, nil
	w.archetypes, w.systems = nil, nil
	w.archetypeMasks, w.systemMasks = nil, nil
	w.scratch = nil
	w.log.Debug("world released")
}

// Released reports whether Release has been called.
func (w *World) Released() bool { return w.released }

// NumEntities returns the number of live entities.
func (w *World) NumEntities() int { return w.numAlive }

// NumComponents returns the number of registered components.
func (w *World) NumComponents() int { return len(w.componentSizes) }

// NumSystems returns the number of registered systems.
func (w *World) NumSystems() int { return len(w.systems) }

// NumArchetypes returns the number of archetypes created so far.
func (w *World) NumArchetypes() int { return len(w.archetypes) }
