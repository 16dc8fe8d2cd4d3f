package archecs_test

import (
	"fmt"
	"testing"

	"github.com/edwinsyarief/archecs"
)

func benchWorld(b *testing.B, size int) (*archecs.World, archecs.ComponentID, archecs.ComponentID) {
	b.Helper()
	w, err := archecs.NewWorld(size, 8, 4)
	if err != nil {
		b.Fatal(err)
	}
	pos := archecs.Register[Position](w, "Position")
	vel := archecs.Register[Velocity](w, "Velocity")
	return w, pos, vel
}

// Entity Lifecycle Benchmarks
func BenchmarkCreateDestroy(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dK", size/1000), func(b *testing.B) {
			w, _, _ := benchWorld(b, size)
			ents := make([]archecs.Entity, size)
			b.ReportAllocs()
			for b.Loop() {
				for i := range ents {
					ents[i] = w.CreateEntity()
				}
				for _, e := range ents {
					w.DestroyEntity(e)
				}
			}
		})
	}
}

// Migration Benchmarks
func BenchmarkAddRemoveComponent(b *testing.B) {
	w, pos, vel := benchWorld(b, 10000)
	ents := make([]archecs.Entity, 10000)
	for i := range ents {
		ents[i] = w.CreateEntity()
		w.AddComponent(ents[i], pos)
	}
	b.ReportAllocs()
	for b.Loop() {
		for _, e := range ents {
			w.AddComponent(e, vel)
		}
		for _, e := range ents {
			w.RemoveComponent(e, vel)
		}
	}
}

// Access Benchmarks
func BenchmarkGet(b *testing.B) {
	w, pos, _ := benchWorld(b, 10000)
	ents := make([]archecs.Entity, 10000)
	for i := range ents {
		ents[i] = w.CreateEntity()
		archecs.Set(w, ents[i], pos, Position{X: float32(i)})
	}
	b.ReportAllocs()
	for b.Loop() {
		for _, e := range ents {
			archecs.Get[Position](w, e, pos).X++
		}
	}
}

// System Iteration Benchmarks
func BenchmarkUpdateSystem(b *testing.B) {
	sizes := []int{1000, 10000, 100000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dK", size/1000), func(b *testing.B) {
			w, pos, vel := benchWorld(b, size)
			for i := 0; i < size; i++ {
				e := w.CreateEntity()
				archecs.Set(w, e, pos, Position{})
				archecs.Set(w, e, vel, Velocity{VX: 1, VY: 1})
			}
			s := w.RegisterSystem("Movement", func(v archecs.View) {
				for i := 0; i < v.Len(); i++ {
					p := archecs.Column[Position](v, i, pos)
					d := archecs.Column[Velocity](v, i, vel)
					for j := range p {
						p[j].X += d[j].VX
						p[j].Y += d[j].VY
					}
				}
			}, pos, vel)
			b.ReportAllocs()
			for b.Loop() {
				w.UpdateSystem(s)
			}
		})
	}
}
