package archecs

import "fmt"

// CheckIntegrity walks the world's bookkeeping and returns an error wrapping
// ErrCorrupt for the first inconsistency found:
//   - a live entity's record must point at a row holding that entity;
//   - every column of an archetype must have as many rows as its entity array;
//   - every entity in an archetype must be alive and recorded at that row;
//   - every archetype must be cached by exactly the systems it satisfies.
//
// It is O(entities + archetypes*systems) and meant for tests and tooling.
func (w *World) CheckIntegrity() error {
	if w.released {
		return nil
	}
	alive := 0
	for i := 0; i < w.numSlots; i++ {
		rec := &w.records[i]
		if !rec.alive {
			continue
		}
		alive++
		if rec.id.Index() != uint32(i) {
			return fmt.Errorf("%w: slot %d holds handle %v", ErrCorrupt, i, rec.id)
		}
		if rec.arch == noArchetype {
			continue
		}
		if int(rec.arch) >= len(w.archetypes) {
			return fmt.Errorf("%w: %v points at missing archetype %d", ErrCorrupt, rec.id, rec.arch)
		}
		ents := w.archetypes[rec.arch].Entities()
		if int(rec.row) >= len(ents) || ents[rec.row] != rec.id {
			return fmt.Errorf("%w: %v not found at archetype %d row %d", ErrCorrupt, rec.id, rec.arch, rec.row)
		}
	}
	if alive != w.numAlive {
		return fmt.Errorf("%w: %d live records, %d counted", ErrCorrupt, alive, w.numAlive)
	}

	for _, a := range w.archetypes {
		n := a.entities.Len()
		for ci, col := range a.columns {
			if col.Len() != n {
				return fmt.Errorf("%w: archetype %d column %v has %d rows, want %d",
					ErrCorrupt, a.index, a.components[ci], col.Len(), n)
			}
		}
		for row, e := range a.Entities() {
			rec := w.record(e)
			if rec == nil || int(rec.arch) != a.index || int(rec.row) != row {
				return fmt.Errorf("%w: archetype %d row %d holds stale %v", ErrCorrupt, a.index, row, e)
			}
		}
	}

	for _, s := range w.systems {
		cached := make(map[uint32]bool, s.archetypes.Len())
		for _, idx := range s.archetypes.Data() {
			if cached[idx] {
				return fmt.Errorf("%w: system %q caches archetype %d twice", ErrCorrupt, s.name, idx)
			}
			cached[idx] = true
		}
		for _, a := range w.archetypes {
			if maskContains(a.mask, s.mask) != cached[uint32(a.index)] {
				return fmt.Errorf("%w: system %q cache disagrees with archetype %d", ErrCorrupt, s.name, a.index)
			}
		}
	}
	return nil
}
