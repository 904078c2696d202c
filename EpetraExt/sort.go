package EpetraExt

import (
	"sort"

	"github.com/intel/forGoParallel/parallel"
	"github.com/intel/forGoParallel/psort"
)

type keyedVertexSorter struct {
	keys, verts []int
}

func (s keyedVertexSorter) Assign(source psort.StableSorter) func(i, j, len int) {
	src := source.(keyedVertexSorter)
	return func(i, j, len int) {
		parallel.Do(func() {
			copy(s.keys[i:i+len], src.keys[j:j+len])
		}, func() {
			copy(s.verts[i:i+len], src.verts[j:j+len])
		})
	}
}

func (s keyedVertexSorter) Len() int {
	return len(s.keys)
}

func (s keyedVertexSorter) Less(i, j int) bool {
	ki := s.keys[i]
	kj := s.keys[j]
	if ki < kj {
		return true
	}
	if ki > kj {
		return false
	}
	return s.verts[i] < s.verts[j]
}

func (s keyedVertexSorter) NewTemp() psort.StableSorter {
	return keyedVertexSorter{
		keys:  make([]int, len(s.keys)),
		verts: make([]int, len(s.verts)),
	}
}

func (s keyedVertexSorter) SequentialSort(i, j int) {
	sort.Stable(keyedVertexSorter{
		keys:  s.keys[i:j],
		verts: s.verts[i:j],
	})
}

func (s keyedVertexSorter) Swap(i, j int) {
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.verts[i], s.verts[j] = s.verts[j], s.verts[i]
}

// sortVerticesByKey sorts verts ascending by keys, ties by vertex index.
func sortVerticesByKey(keys, verts []int) {
	psort.StableSort(keyedVertexSorter{keys: keys, verts: verts})
}
