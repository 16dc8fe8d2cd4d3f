// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/edwinsyarief/archecs"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w, err := archecs.NewWorld(numEntities, 2, 1)
		if err != nil {
			panic(err)
		}
		c1 := archecs.Register[comp1](w, "comp1")
		c2 := archecs.Register[comp2](w, "comp2")
		sys := w.RegisterSystem("sum", func(v archecs.View) {
			for i := 0; i < v.Len(); i++ {
				a := archecs.Column[comp1](v, i, c1)
				b := archecs.Column[comp2](v, i, c2)
				for j := range a {
					a[j].V += b[j].V
					a[j].W += b[j].W
				}
			}
		}, c1, c2)

		entities := make([]archecs.Entity, 0, numEntities)
		for range iters {
			for range numEntities {
				e := w.CreateEntity()
				w.AddComponent(e, c1, c2)
				entities = append(entities, e)
			}
			w.UpdateSystem(sys)
			for _, e := range entities {
				w.DestroyEntity(e)
			}
			entities = entities[:0]
		}
		w.Release()
	}
}
