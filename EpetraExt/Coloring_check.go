package EpetraExt

import (
	"errors"
	"fmt"

	"github.com/intel/forEpetraGo/Epetra"
	"github.com/intel/forGraphBLASGo/GrB"
)

// CheckColoring verifies a column coloring against the gathered graph
// structure: every vertex is colored, ranks agree on the color of shared
// (ghost) columns, and no two conflicting vertices share a color at the
// given distance. Collective; brute force, intended for tests.
func CheckColoring(graph *Epetra.CrsGraph, coloring *Epetra.MapColoring, distance1 bool) (err error) {
	defer GrB.CheckErrors(&err)
	if !graph.Filled() {
		return Epetra.ErrNotFilled
	}
	s, err := gatherStructure(graph)
	GrB.OK(err)

	colMap := coloring.Map()
	flat := make([]int, 0, 2*colMap.NumMyElements())
	for lid, gid := range colMap.MyGlobalElements() {
		flat = append(flat, gid, coloring.Color(lid))
	}
	all, err := graph.Comm().GatherAll(flat)
	GrB.OK(err)

	colorOf := make(map[int]int)
	for _, f := range all {
		for k := 0; k < len(f); k += 2 {
			gid, color := f[k], f[k+1]
			if prev, ok := colorOf[gid]; ok && prev != color {
				return fmt.Errorf("ranks disagree on color of global ID %v: %v vs %v", gid, prev, color)
			}
			colorOf[gid] = color
		}
	}

	def := coloring.DefaultColor()
	for _, gid := range s.gids {
		color, ok := colorOf[gid]
		if !ok || color == def {
			return fmt.Errorf("global ID %v is uncolored", gid)
		}
	}

	conflicts := conflictLists(s, distance1)
	for v, list := range conflicts {
		for _, u := range list {
			if colorOf[s.gids[v]] == colorOf[s.gids[u]] {
				return errors.New("conflicting vertices share a color")
			}
		}
	}
	return nil
}
