package archecs

// columnOf returns the column index of registration index raw, or -1.
func (a *Archetype) columnOf(raw uint32) int {
	if int(raw) >= len(a.slots) {
		return -1
	}
	return int(a.slots[raw])
}

// AddComponent adds the given components to e, moving it to the archetype
// for its new component set. New columns are zeroed. It reports false when
// e is dead, any id is unknown, or every listed component is already present.
func (w *World) AddComponent(e Entity, ids ...ComponentID) bool {
	return w.migrate(e, ids, true)
}

// RemoveComponent removes the given components from e, moving it to the
// archetype for its remaining set. An entity left without components has no
// archetype. It reports false when e is dead, any id is unknown, or none of
// the listed components is present.
func (w *World) RemoveComponent(e Entity, ids ...ComponentID) bool {
	return w.migrate(e, ids, false)
}

// SetComponent overwrites the value of component c on e with value, adding
// the component first if e lacks it. value must be exactly the component's
// registered size.
func (w *World) SetComponent(e Entity, c ComponentID, value []byte) bool {
	rec := w.record(e)
	if rec == nil {
		return false
	}
	raw, ok := w.componentIndex(c)
	if !ok || len(value) != w.componentSizes[raw] {
		return false
	}
	if !w.hasRaw(rec, raw) && !w.migrate(e, []ComponentID{c}, true) {
		return false
	}
	a := w.archetypes[rec.arch]
	copy(a.columns[a.columnOf(raw)].At(int(rec.row)), value)
	return true
}

// HasComponent reports whether e has every listed component. It reports
// false for a dead entity or an empty list.
func (w *World) HasComponent(e Entity, ids ...ComponentID) bool {
	rec := w.record(e)
	if rec == nil || len(ids) == 0 {
		return false
	}
	for _, c := range ids {
		raw, ok := w.componentIndex(c)
		if !ok || !w.hasRaw(rec, raw) {
			return false
		}
	}
	return true
}

// Component returns the stored bytes of component c on e, or nil if e is
// dead or lacks c. The slice aliases archetype storage and is invalidated by
// the next structural change.
func (w *World) Component(e Entity, c ComponentID) []byte {
	rec := w.record(e)
	if rec == nil {
		return nil
	}
	raw, ok := w.componentIndex(c)
	if !ok || !w.hasRaw(rec, raw) {
		return nil
	}
	a := w.archetypes[rec.arch]
	return a.columns[a.columnOf(raw)].At(int(rec.row))
}

func (w *World) hasRaw(rec *entityRecord, raw uint32) bool {
	if rec.arch == noArchetype {
		return false
	}
	return maskHas(w.archetypes[rec.arch].mask, raw)
}

// migrate computes the target component set for an add or remove request
// and moves e there.
func (w *World) migrate(e Entity, ids []ComponentID, add bool) bool {
	rec := w.record(e)
	if rec == nil || len(ids) == 0 {
		return false
	}
	var src *Archetype
	target := w.scratch
	if rec.arch != noArchetype {
		src = w.archetypes[rec.arch]
		copy(target, src.mask)
	} else {
		clear(target)
	}

	changed := false
	for _, c := range ids {
		raw, ok := w.componentIndex(c)
		if !ok {
			return false
		}
		if maskHas(target, raw) == add {
			continue
		}
		if add {
			maskSet(target, raw)
		} else {
			maskUnset(target, raw)
		}
		changed = true
	}
	if !changed {
		return false
	}

	if maskEmpty(target) {
		w.removeRow(src, int(rec.row))
		rec.arch = noArchetype
		rec.row = -1
		return true
	}
	dst := w.archetypeFor(target)
	if dst == nil {
		return false
	}
	w.moveRow(rec, e, src, dst)
	return true
}

// moveRow appends a row for e to dst, copies every component dst shares with
// src, removes the old row from src and repoints e's record.
func (w *World) moveRow(rec *entityRecord, e Entity, src, dst *Archetype) {
	newRow := w.appendRow(dst, e)
	if src != nil {
		oldRow := int(rec.row)
		for ci, c := range src.components {
			if dc := dst.columnOf(c.Index()); dc >= 0 {
				copy(dst.columns[dc].At(newRow), src.columns[ci].At(oldRow))
			}
		}
		w.removeRow(src, oldRow)
	}
	rec.arch = int32(dst.index)
	rec.row = int32(newRow)
}
