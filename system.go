package archecs

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/edwinsyarief/archecs/pool"
	"github.com/edwinsyarief/archecs/vector"
)

// SystemFunc is the callback of a system. It receives a view over every
// archetype whose component set includes the system's required components.
//
// A callback may read and write the columns it is handed, but must not add
// or remove components, or create or destroy entities with components,
// while it iterates: swap-with-last removal relocates rows under it.
type SystemFunc func(v View)

type system struct {
	name       string
	mask       []uint64
	maskRef    pool.Ref
	hash       uint64
	archetypes *vector.Vector[uint32]
	fn         SystemFunc
}

// View is what a system callback sees: its world and the archetypes it is
// eligible to iterate. The engine hands out random access to columns; the
// callback decides iteration order and when to stop.
type View struct {
	world      *World
	archetypes []uint32
}

// World returns the world the system runs in.
func (v View) World() *World { return v.world }

// Len returns the number of archetypes in the view.
func (v View) Len() int { return len(v.archetypes) }

// Archetype returns the i-th archetype of the view, or nil if i is out of range.
func (v View) Archetype(i int) *Archetype {
	if i < 0 || i >= len(v.archetypes) {
		return nil
	}
	return v.world.archetypes[v.archetypes[i]]
}

// Rows returns the row count of the i-th archetype.
func (v View) Rows(i int) int {
	a := v.Archetype(i)
	if a == nil {
		return 0
	}
	return a.Len()
}

// Column returns the raw column of component c in the i-th archetype, or nil
// when the archetype does not store c.
func (v View) Column(i int, c ComponentID) []byte {
	a := v.Archetype(i)
	if a == nil {
		return nil
	}
	return a.Column(c)
}

// Entities returns the entity array of the i-th archetype, parallel to its
// columns, or nil if i is out of range.
func (v View) Entities(i int) []Entity {
	a := v.Archetype(i)
	if a == nil {
		return nil
	}
	return a.Entities()
}

// RegisterSystem registers fn under name, to run over every archetype that
// has all of the required components. Archetypes that already exist are
// matched now; later ones are matched as they are created. It returns
// NilSystem for a nil fn, a taken name, an unknown component, or a full
// system table.
func (w *World) RegisterSystem(name string, fn SystemFunc, required ...ComponentID) SystemID {
	if w.released || fn == nil {
		return NilSystem
	}
	raw := len(w.systems)
	if raw >= w.maxSystems {
		w.log.Warn("system table exhausted",
			zap.String("system", name),
			zap.Int("max_systems", w.maxSystems))
		return NilSystem
	}
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], xxhash.Sum64String(name))
	if w.systemNames.Find(key[:]) != nil {
		return NilSystem
	}

	ref := w.systemMasks.Acquire()
	if ref == pool.NilRef {
		return NilSystem
	}
	m := w.systemMasks.Get(ref)
	for _, c := range required {
		cr, ok := w.componentIndex(c)
		if !ok {
			w.systemMasks.Release(ref)
			return NilSystem
		}
		maskSet(m, cr)
	}

	s := &system{
		name:       name,
		mask:       m,
		maskRef:    ref,
		hash:       maskHash(m),
		archetypes: vector.New[uint32](1, len(w.archetypes)),
		fn:         fn,
	}
	for _, a := range w.archetypes {
		if maskContains(a.mask, m) {
			s.archetypes.PushBack([]uint32{uint32(a.index)})
		}
	}

	var val [8]byte
	binary.LittleEndian.PutUint64(val[:], uint64(raw))
	if !w.systemNames.Insert(key[:], val[:]) {
		w.systemMasks.Release(ref)
		return NilSystem
	}
	w.systems = append(w.systems, s)

	id := newSystemID(raw)
	w.log.Debug("system registered",
		zap.String("system", name),
		zap.Int("components", len(required)),
		zap.Int("archetypes", s.archetypes.Len()),
		zap.Stringer("id", id))
	return id
}

// SystemIDOf returns the id registered under name, or NilSystem.
func (w *World) SystemIDOf(name string) SystemID {
	if w.released {
		return NilSystem
	}
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], xxhash.Sum64String(name))
	v := w.systemNames.Find(key[:])
	if v == nil {
		return NilSystem
	}
	raw := int(binary.LittleEndian.Uint64(v))
	if w.systems[raw].name != name {
		return NilSystem
	}
	return newSystemID(raw)
}

// SystemView returns the view s would be run with, and false if s is unknown.
func (w *World) SystemView(s SystemID) (View, bool) {
	sys := w.system(s)
	if sys == nil {
		return View{}, false
	}
	return View{world: w, archetypes: sys.archetypes.Data()}, true
}

// UpdateSystem runs s once over its archetypes. It reports false if s is
// unknown.
func (w *World) UpdateSystem(s SystemID) bool {
	sys := w.system(s)
	if sys == nil {
		return false
	}
	sys.fn(View{world: w, archetypes: sys.archetypes.Data()})
	return true
}

func (w *World) system(s SystemID) *system {
	if w.released || s.Flags()&FlagSystem == 0 {
		return nil
	}
	raw := s.Index()
	if int(raw) >= len(w.systems) {
		return nil
	}
	return w.systems[raw]
}
