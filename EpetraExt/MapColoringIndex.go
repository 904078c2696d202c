package EpetraExt

import (
	"errors"

	"github.com/intel/forEpetraGo/Epetra"
	"github.com/intel/forGoParallel/parallel"
)

var ErrMapMismatch = errors.New("coloring map does not match the graph column map")

// CrsGraphMapColoringIndex turns a column coloring into per-color index
// vectors on the graph's row map: for color list entry k, vector k holds
// in position i the global column ID of row i that carries that color,
// or -1. Under a valid distance-2 coloring each row has at most one
// column per color, which is what makes compressed Jacobian recovery
// possible.
type CrsGraphMapColoringIndex struct {
	coloring *Epetra.MapColoring
}

func NewCrsGraphMapColoringIndex(coloring *Epetra.MapColoring) *CrsGraphMapColoringIndex {
	return &CrsGraphMapColoringIndex{coloring: coloring}
}

// Apply is collective. The vectors are returned in ascending color
// order, matching ListOfColors of the coloring.
func (tc *CrsGraphMapColoringIndex) Apply(graph *Epetra.CrsGraph) ([]*Epetra.IntVector, error) {
	if !graph.Filled() {
		return nil, Epetra.ErrNotFilled
	}
	if !tc.coloring.Map().SameAs(graph.ColMap()) {
		return nil, ErrMapMismatch
	}
	colors := tc.coloring.ListOfColors()
	colorPos := make(map[int]int, len(colors))
	for k, c := range colors {
		colorPos[c] = k
	}
	rowMap := graph.RowMap()
	colMap := graph.ColMap()
	vectors := make([]*Epetra.IntVector, len(colors))
	for k := range vectors {
		v := Epetra.NewIntVector(rowMap)
		v.PutValue(-1)
		vectors[k] = v
	}
	parallel.Range(0, graph.NumMyRows(), 0, func(low, high int) {
		for i := low; i < high; i++ {
			lids, err := graph.ExtractMyRowView(i)
			if err != nil {
				continue
			}
			for _, lid := range lids {
				if k, ok := colorPos[tc.coloring.Color(lid)]; ok {
					vectors[k].Values()[i] = colMap.GID(lid)
				}
			}
		}
	})
	return vectors, nil
}
