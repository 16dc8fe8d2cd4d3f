package archecs

import "go.uber.org/zap"

// entityQueue is a FIFO ring of destroyed slot indices waiting for reuse.
type entityQueue struct {
	slots []uint32
	front int
	rear  int
	n     int
}

func newEntityQueue(capacity int) entityQueue {
	return entityQueue{slots: make([]uint32, capacity)}
}

func (q *entityQueue) push(idx uint32) bool {
	if q.n == len(q.slots) {
		return false
	}
	q.slots[q.rear] = idx
	q.rear = (q.rear + 1) % len(q.slots)
	q.n++
	return true
}

func (q *entityQueue) pop() (uint32, bool) {
	if q.n == 0 {
		return 0, false
	}
	idx := q.slots[q.front]
	q.front = (q.front + 1) % len(q.slots)
	q.n--
	return idx, true
}

// CreateEntity returns a new entity without components. Destroyed slots are
// reused oldest first, carrying the generation bumped at destruction; fresh
// slots start at generation 0. It returns NilEntity when every slot is in use.
func (w *World) CreateEntity() Entity {
	if w.released {
		return NilEntity
	}
	idx, ok := w.freeSlots.pop()
	if !ok {
		if w.numSlots >= w.maxEntities {
			w.log.Warn("entity table exhausted", zap.Int("max_entities", w.maxEntities))
			return NilEntity
		}
		idx = uint32(w.numSlots)
		w.numSlots++
		w.records[idx].id = newEntity(idx, 0)
	}
	rec := &w.records[idx]
	rec.alive = true
	rec.arch = noArchetype
	rec.row = -1
	w.numAlive++
	return rec.id
}

// DestroyEntity removes e and its row, bumps the slot generation and queues
// the slot for reuse. It reports false for a stale or unknown handle.
func (w *World) DestroyEntity(e Entity) bool {
	rec := w.record(e)
	if rec == nil {
		return false
	}
	if rec.arch != noArchetype {
		w.removeRow(w.archetypes[rec.arch], int(rec.row))
	}
	// uint16 arithmetic wraps at MaxGeneration
	rec.id = newEntity(e.Index(), e.Generation()+1)
	rec.alive = false
	rec.arch = noArchetype
	rec.row = -1
	queued := w.freeSlots.push(e.Index())
	assert(queued, "destroyed-entity queue overflow")
	w.numAlive--
	return true
}

// IsAlive reports whether e refers to a live entity. It only compares the
// handle with its slot, so it is O(1).
func (w *World) IsAlive(e Entity) bool {
	return w.record(e) != nil
}

// Location returns the archetype holding e and its row, or nil and -1 when e
// is dead or has no components.
func (w *World) Location(e Entity) (*Archetype, int) {
	rec := w.record(e)
	if rec == nil || rec.arch == noArchetype {
		return nil, -1
	}
	return w.archetypes[rec.arch], int(rec.row)
}

// record returns the slot record for a live handle, or nil.
func (w *World) record(e Entity) *entityRecord {
	if w.released {
		return nil
	}
	idx := e.Index()
	if int(idx) >= w.numSlots {
		return nil
	}
	rec := &w.records[idx]
	if !rec.alive || rec.id != e {
		return nil
	}
	return rec
}
