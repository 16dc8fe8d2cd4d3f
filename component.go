package archecs

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// RegisterComponent registers a component type of size bytes under name and
// returns its id. It returns NilComponent if the name is taken, size is not
// positive, or the component table is full.
func (w *World) RegisterComponent(name string, size int) ComponentID {
	if w.released || size <= 0 {
		return NilComponent
	}
	raw := len(w.componentSizes)
	if raw >= w.maxComponents {
		w.log.Warn("component table exhausted",
			zap.String("component", name),
			zap.Int("max_components", w.maxComponents))
		return NilComponent
	}
	var key, val [8]byte
	binary.LittleEndian.PutUint64(key[:], xxhash.Sum64String(name))
	binary.LittleEndian.PutUint64(val[:], uint64(raw))
	if !w.componentNames.Insert(key[:], val[:]) {
		return NilComponent
	}
	w.componentSizes = append(w.componentSizes, size)
	w.componentLabel = append(w.componentLabel, name)

	id := newComponentID(raw)
	w.log.Debug("component registered",
		zap.String("component", name),
		zap.Int("size", size),
		zap.Stringer("id", id))
	return id
}

// ComponentIDOf returns the id registered under name, or NilComponent.
func (w *World) ComponentIDOf(name string) ComponentID {
	if w.released {
		return NilComponent
	}
	var key [8]byte
	binary.LittleEndian.PutUint64(key[:], xxhash.Sum64String(name))
	v := w.componentNames.Find(key[:])
	if v == nil {
		return NilComponent
	}
	raw := int(binary.LittleEndian.Uint64(v))
	if w.componentLabel[raw] != name {
		return NilComponent
	}
	return newComponentID(raw)
}

// ComponentSize returns the registered size of c, or 0 for an unknown id.
func (w *World) ComponentSize(c ComponentID) int {
	raw, ok := w.componentIndex(c)
	if !ok {
		return 0
	}
	return w.componentSizes[raw]
}

// ComponentName returns the name c was registered under, or "".
func (w *World) ComponentName(c ComponentID) string {
	raw, ok := w.componentIndex(c)
	if !ok {
		return ""
	}
	return w.componentLabel[raw]
}

// componentIndex strips the flag bits off c and checks it is registered.
func (w *World) componentIndex(c ComponentID) (uint32, bool) {
	if w.released || c.Flags()&FlagComponent == 0 {
		return 0, false
	}
	raw := c.Index()
	if int(raw) >= len(w.componentSizes) {
		return 0, false
	}
	return raw, true
}
