// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.pprof

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

type comp3 struct {
	V int64
	W int64
}

type comp4 struct {
	V int64
	W int64
}

type comp5 struct {
	V int64
	W int64
}

type comp6 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	entities := 100000
	p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for range rounds {
		w, err := archecs.NewWorld(numEntities, 6, 1)
		if err != nil {
			panic(err)
		}
		ids := []archecs.ComponentID{
			archecs.Register[comp1](w, "comp1"),
			archecs.Register[comp2](w, "comp2"),
			archecs.Register[comp3](w, "comp3"),
			archecs.Register[comp4](w, "comp4"),
			archecs.Register[comp5](w, "comp5"),
			archecs.Register[comp6](w, "comp6"),
		}
		for range numEntities {
			w.AddComponent(w.CreateEntity(), ids...)
		}
		sys := w.RegisterSystem("query", func(v archecs.View) {
			for i := 0; i < v.Len(); i++ {
				a := archecs.Column[comp1](v, i, ids[0])
				b := archecs.Column[comp2](v, i, ids[1])
				for j := range a {
					a[j].V += b[j].V
					a[j].W += b[j].W
				}
			}
		}, ids...)

		for range iters {
			w.UpdateSystem(sys)
		}
		w.Release()
	}
}
