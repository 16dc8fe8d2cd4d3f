package archecs

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/edwinsyarief/archecs/pool"
	"github.com/edwinsyarief/archecs/vector"
)

// Archetype stores every entity that has exactly one set of components. Row
// r of each column and of the entity array describe the same entity.
// Archetypes live until the world is released, even when they become empty.
type Archetype struct {
	mask       []uint64
	maskRef    pool.Ref
	hash       uint64
	slots      []int32       // registration index -> column, -1 if absent
	components []ComponentID // column order
	columns    []*vector.Vector[byte]
	entities   *vector.Vector[Entity]
	index      int
}

// Len returns the number of rows.
func (a *Archetype) Len() int { return a.entities.Len() }

// Index returns the archetype's position in its world.
func (a *Archetype) Index() int { return a.index }

// Hash returns the precomputed hash of the archetype's component set.
func (a *Archetype) Hash() uint64 { return a.hash }

// Components returns the archetype's component ids in column order. The
// slice must not be modified.
func (a *Archetype) Components() []ComponentID { return a.components }

// Has reports whether the archetype stores component c.
func (a *Archetype) Has(c ComponentID) bool {
	if c.Flags()&FlagComponent == 0 {
		return false
	}
	raw := c.Index()
	return int(raw) < len(a.slots) && a.slots[raw] >= 0
}

// Column returns the raw bytes of component c for every row, row-major with
// the component's registered size as stride, or nil when the archetype does
// not store c. The slice is invalidated by the next structural change.
func (a *Archetype) Column(c ComponentID) []byte {
	if !a.Has(c) {
		return nil
	}
	return a.columns[a.slots[c.Index()]].Data()
}

// Entities returns the entity of every row, in row order. The slice is
// invalidated by the next structural change.
func (a *Archetype) Entities() []Entity { return a.entities.Data() }

// archetypeFor returns the archetype whose component set is m, creating it
// on first use. It returns nil when the archetype limit is reached.
func (w *World) archetypeFor(m []uint64) *Archetype {
	h := maskHash(m)
	if v := w.archetypeMap.FindByHash(h, maskBytes(m)); v != nil {
		return w.archetypes[binary.LittleEndian.Uint64(v)]
	}
	return w.newArchetype(m, h)
}

func (w *World) newArchetype(m []uint64, h uint64) *Archetype {
	if len(w.archetypes) >= w.maxArchetypes {
		w.log.Warn("archetype limit reached", zap.Int("max_archetypes", w.maxArchetypes))
		return nil
	}
	ref := w.archetypeMasks.Acquire()
	if ref == pool.NilRef {
		return nil
	}
	words := w.archetypeMasks.Get(ref)
	copy(words, m)

	var val [8]byte
	binary.LittleEndian.PutUint64(val[:], uint64(len(w.archetypes)))
	if !w.archetypeMap.InsertByHash(h, maskBytes(words), val[:]) {
		w.archetypeMasks.Release(ref)
		return nil
	}

	a := &Archetype{
		mask:     words,
		maskRef:  ref,
		hash:     h,
		slots:    make([]int32, len(w.componentSizes)),
		entities: vector.New[Entity](1, w.initialRows),
		index:    len(w.archetypes),
	}
	for raw := range a.slots {
		if !maskHas(words, uint32(raw)) {
			a.slots[raw] = -1
			continue
		}
		a.slots[raw] = int32(len(a.columns))
		a.components = append(a.components, newComponentID(raw))
		a.columns = append(a.columns, vector.New[byte](w.componentSizes[raw], w.initialRows))
	}
	w.archetypes = append(w.archetypes, a)

	// Systems registered earlier must see the new archetype too.
	matched := 0
	for _, s := range w.systems {
		if maskContains(words, s.mask) {
			s.archetypes.PushBack([]uint32{uint32(a.index)})
			matched++
		}
	}
	w.log.Debug("archetype created",
		zap.Int("archetype", a.index),
		zap.Int("components", len(a.components)),
		zap.Int("systems", matched))
	return a
}

// appendRow adds a zeroed row for e and returns its index.
func (w *World) appendRow(a *Archetype, e Entity) int {
	a.entities.PushBackEmpty()
	row := a.entities.Len() - 1
	a.entities.At(row)[0] = e
	for _, col := range a.columns {
		col.PushBackEmpty()
		assert(col.Len() == row+1, "column length diverged from entity array")
	}
	return row
}

// removeRow deletes row by moving the last row into it, then points the
// moved entity's record at its new row before returning.
func (w *World) removeRow(a *Archetype, row int) {
	assert(row >= 0 && row < a.entities.Len(), "row out of range")
	for _, col := range a.columns {
		col.SwapRemove(row)
	}
	a.entities.SwapRemove(row)
	if row < a.entities.Len() {
		moved := a.entities.At(row)[0]
		w.records[moved.Index()].row = int32(row)
	}
}
