// Package archecs implements an archetype-based Entity Component System on
// top of pooled storage. Entities are rows, components are fixed-size byte
// columns, archetypes are the tables keyed by the set of columns present,
// and systems are callbacks over a cached list of matching archetypes.
package archecs

import "fmt"

// Handle layout, most to least significant:
//
//	| flags (8) | reserved (16) | generation (16) | index (24) |
const (
	indexBits       = 24
	generationBits  = 16
	generationShift = indexBits
	indexMask       = 1<<indexBits - 1
	generationMask  = 1<<generationBits - 1
	flagsMask       = uint64(0xFF) << 56

	// MaxEntities is the number of addressable entity slots.
	MaxEntities = 1 << indexBits
	// MaxGeneration is the generation modulus; generations wrap at it.
	MaxGeneration = 1 << generationBits
)

// Kind and state flags carried in the top byte of every handle.
const (
	FlagEntity    uint64 = 1 << 56
	FlagComponent uint64 = 1 << 57
	FlagSystem    uint64 = 1 << 58
	FlagReserved1 uint64 = 1 << 60
	FlagReserved2 uint64 = 1 << 61
	FlagReserved3 uint64 = 1 << 62
	FlagDisabled  uint64 = 1 << 63
)

// Entity identifies a slot in a World together with the generation it was
// issued at. A handle stays valid until the entity is destroyed.
type Entity uint64

// ComponentID identifies a registered component.
type ComponentID uint64

// SystemID identifies a registered system.
type SystemID uint64

// Sentinels returned on failure.
const (
	NilEntity    Entity      = 0
	NilComponent ComponentID = 0
	NilSystem    SystemID    = 0
)

func newEntity(index uint32, generation uint16) Entity {
	return Entity(FlagEntity | uint64(generation)<<generationShift | uint64(index)&indexMask)
}

// Index returns the entity's slot index.
func (e Entity) Index() uint32 { return uint32(uint64(e) & indexMask) }

// Generation returns the generation the handle was issued at.
func (e Entity) Generation() uint16 {
	return uint16(uint64(e) >> generationShift & generationMask)
}

// Flags returns the flag byte of the handle.
func (e Entity) Flags() uint64 { return uint64(e) & flagsMask }

// IsNil reports whether e is the NilEntity sentinel.
func (e Entity) IsNil() bool { return e == NilEntity }

func (e Entity) String() string {
	if e.IsNil() {
		return "entity(nil)"
	}
	return fmt.Sprintf("entity(%d@%d)", e.Index(), e.Generation())
}

func newComponentID(raw int) ComponentID {
	return ComponentID(FlagComponent | uint64(raw)&indexMask)
}

// Index returns the component's sequential registration index.
func (c ComponentID) Index() uint32 { return uint32(uint64(c) & indexMask) }

// Flags returns the flag byte of the handle.
func (c ComponentID) Flags() uint64 { return uint64(c) & flagsMask }

// IsNil reports whether c is the NilComponent sentinel.
func (c ComponentID) IsNil() bool { return c == NilComponent }

func (c ComponentID) String() string {
	if c.IsNil() {
		return "component(nil)"
	}
	return fmt.Sprintf("component(%d)", c.Index())
}

func newSystemID(raw int) SystemID {
	return SystemID(FlagSystem | uint64(raw)&indexMask)
}

// Index returns the system's sequential registration index.
func (s SystemID) Index() uint32 { return uint32(uint64(s) & indexMask) }

// Flags returns the flag byte of the handle.
func (s SystemID) Flags() uint64 { return uint64(s) & flagsMask }

// IsNil reports whether s is the NilSystem sentinel.
func (s SystemID) IsNil() bool { return s == NilSystem }

func (s SystemID) String() string {
	if s.IsNil() {
		return "system(nil)"
	}
	return fmt.Sprintf("system(%d)", s.Index())
}
