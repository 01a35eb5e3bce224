// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query mem.prof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/kaelthorne/archon"
)

type vec3 struct {
	A, B int64
	Clip float64
}

type halo struct {
	R float64
}

func main() {
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	rounds := 50
	iters := 10000
	entities := 100000
	run(rounds, iters, entities)

	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

func run(rounds, iters, numEntities int) {
	reg := archon.NewComponentRegistry()
	archon.RegisterType[vec3](reg)
	archon.RegisterType[halo](reg)

	for r := 0; r < rounds; r++ {
		ar := archon.NewArchive(reg)
		entities := make([]archon.Entity, 0, numEntities)
		for i := 0; i < numEntities; i++ {
			e := archon.GenerateEntity()
			archon.Attach[vec3](ar, e)
			archon.Attach[halo](ar, e)
			entities = append(entities, e)
		}

		for it := 0; it < iters; it++ {
			for _, e := range entities {
				v, _ := archon.Get[vec3](ar, e)
				h, _ := archon.Get[halo](ar, e)
				v.A += int64(h.R)
			}
		}
		ar.Close()
	}
}
