// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/kaelthorne/archon"
	"github.com/pkg/profile"
)

type vec3 struct {
	A, B int64
	Clip float64
}

type halo struct {
	R float64
}

func main() {
	rounds := 50
	iters := 10000
	entities := 1000

	reg := archon.NewComponentRegistry()
	archon.RegisterType[vec3](reg)
	archon.RegisterType[halo](reg)

	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(reg, rounds, iters, entities)
	p.Stop()
}

func run(reg *archon.ComponentRegistry, rounds, iters, numEntities int) {
	for r := 0; r < rounds; r++ {
		ar := archon.NewArchive(reg)
		for it := 0; it < iters; it++ {
			ents := make([]archon.Entity, 0, numEntities)
			for i := 0; i < numEntities; i++ {
				e := archon.GenerateEntity()
				archon.Attach[vec3](ar, e)
				archon.Attach[halo](ar, e)
				v, _ := archon.Get[vec3](ar, e)
				v.A += 1
				v.B += 2
				ents = append(ents, e)
			}
			for _, e := range ents {
				ar.DestroyEntity(e)
			}
		}
		ar.Close()
	}
}
