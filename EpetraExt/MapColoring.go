// Package EpetraExt provides structural transforms over Epetra objects:
// coloring the columns of a compressed-row graph so that structurally
// dependent columns receive distinct colors, and indexing the result for
// compressed Jacobian recovery.
package EpetraExt

import (
	"errors"
	"log"
	"math/rand"
	"sort"

	"github.com/intel/forEpetraGo/Epetra"
	"github.com/intel/forGoParallel/parallel"
	"github.com/intel/forGraphBLASGo/GrB"
)

type Algorithm int

const (
	// Greedy colors vertices first-fit in the chosen order.
	Greedy Algorithm = iota
	// Luby peels deterministic-randomized maximal independent sets,
	// one color per round.
	Luby
)

type Reordering int

const (
	// Natural visits vertices in ascending global ID order.
	Natural Reordering = iota
	// LargestFirst visits vertices by descending conflict degree.
	LargestFirst
)

// CrsGraphMapColoring transforms a fill-complete CrsGraph into a
// MapColoring of the graph's column map. With distance1 false (the
// default use), the coloring is distance-2: any two columns that share a
// row receive distinct colors, so each color's columns are structurally
// orthogonal. With distance1 true only adjacent vertices must differ.
//
// Apply is collective. Every rank gathers the full structure, colors it
// deterministically, and keeps the colors of its own column-map
// elements, ghosts included, so ranks agree without further exchange.
type CrsGraphMapColoring struct {
	algo      Algorithm
	reorder   Reordering
	distance1 bool
	verbose   bool
}

func NewCrsGraphMapColoring(algo Algorithm, reorder Reordering, distance1, verbose bool) *CrsGraphMapColoring {
	return &CrsGraphMapColoring{
		algo:      algo,
		reorder:   reorder,
		distance1: distance1,
		verbose:   verbose,
	}
}

// NewGreedyMapColoring is the common case: greedy distance-2 coloring in
// natural order.
func NewGreedyMapColoring(verbose bool) *CrsGraphMapColoring {
	return NewCrsGraphMapColoring(Greedy, Natural, false, verbose)
}

func (tc *CrsGraphMapColoring) Apply(graph *Epetra.CrsGraph) (coloring *Epetra.MapColoring, err error) {
	defer GrB.CheckErrors(&err)
	if !graph.Filled() {
		return nil, Epetra.ErrNotFilled
	}
	s, err := gatherStructure(graph)
	GrB.OK(err)
	conflicts := conflictLists(s, tc.distance1)

	var colors []int
	switch tc.algo {
	case Greedy:
		colors = greedyColor(conflicts, tc.order(conflicts))
	case Luby:
		colors = lubyColor(conflicts)
	default:
		return nil, errors.New("unknown coloring algorithm")
	}

	colMap := graph.ColMap()
	coloring = Epetra.NewMapColoring(colMap, 0)
	for lid, gid := range colMap.MyGlobalElements() {
		if idx, ok := s.index[gid]; ok {
			GrB.OK(coloring.SetColor(lid, colors[idx]))
		}
	}
	if tc.verbose {
		numColors := 0
		for _, c := range colors {
			numColors = max(numColors, c)
		}
		log.Printf("map coloring: %v vertices, %v colors, distance1: %v\n",
			len(colors), numColors, tc.distance1)
	}
	return coloring, nil
}

func (tc *CrsGraphMapColoring) order(conflicts [][]int) []int {
	n := len(conflicts)
	order := make([]int, n)
	for v := range order {
		order[v] = v
	}
	if tc.reorder == LargestFirst {
		keys := make([]int, n)
		for v := range keys {
			keys[v] = -len(conflicts[v])
		}
		sortVerticesByKey(keys, order)
	}
	return order
}

// globalStructure is the gathered sparsity of the whole graph, identical
// on every rank: vertex GIDs ascending, and a symmetrized adjacency
// without self edges.
type globalStructure struct {
	gids  []int
	index map[int]int
	adj   [][]int
}

func gatherStructure(graph *Epetra.CrsGraph) (s *globalStructure, err error) {
	defer GrB.CheckErrors(&err)
	colMap := graph.ColMap()
	A := graph.Matrix()
	ap, aj, ax, iso, jumbled, err := A.UnpackCSR(true, nil)
	GrB.OK(err)
	defer func() {
		GrB.OK(A.PackCSR(&ap, &aj, &ax, iso, jumbled, nil))
	}()
	aps := ap.UnsafeSlice()
	ajs := aj.UnsafeSlice()

	nMyRows := graph.NumMyRows()
	flat := make([]int, 0, 2*nMyRows+graph.NumMyEntries())
	for i := 0; i < nMyRows; i++ {
		flat = append(flat, graph.GRID(i), aps[i+1]-aps[i])
		for _, lid := range ajs[aps[i]:aps[i+1]] {
			flat = append(flat, colMap.GID(lid))
		}
	}
	all, err := graph.Comm().GatherAll(flat)
	GrB.OK(err)

	s = &globalStructure{index: make(map[int]int)}
	addVertex := func(gid int) {
		if _, ok := s.index[gid]; !ok {
			s.index[gid] = 0
			s.gids = append(s.gids, gid)
		}
	}
	for _, f := range all {
		for k := 0; k < len(f); {
			gid, cnt := f[k], f[k+1]
			k += 2
			addVertex(gid)
			for _, c := range f[k : k+cnt] {
				addVertex(c)
			}
			k += cnt
		}
	}
	sort.Ints(s.gids)
	for idx, gid := range s.gids {
		s.index[gid] = idx
	}

	s.adj = make([][]int, len(s.gids))
	for _, f := range all {
		for k := 0; k < len(f); {
			gid, cnt := f[k], f[k+1]
			k += 2
			v := s.index[gid]
			for _, c := range f[k : k+cnt] {
				if c == gid {
					continue
				}
				u := s.index[c]
				s.adj[v] = append(s.adj[v], u)
				s.adj[u] = append(s.adj[u], v)
			}
			k += cnt
		}
	}
	parallel.Range(0, len(s.adj), 0, func(low, high int) {
		for v := low; v < high; v++ {
			sort.Ints(s.adj[v])
			s.adj[v] = dedupSorted(s.adj[v])
		}
	})
	return s, nil
}

func dedupSorted(list []int) []int {
	if len(list) < 2 {
		return list
	}
	j := 1
	for i := 1; i < len(list); i++ {
		if list[i] != list[j-1] {
			list[j] = list[i]
			j++
		}
	}
	return list[:j]
}

// conflictLists expands the adjacency to the conflict structure of the
// requested distance: for distance-2 coloring, a vertex conflicts with
// everything within two hops.
func conflictLists(s *globalStructure, distance1 bool) [][]int {
	if distance1 {
		return s.adj
	}
	conflicts := make([][]int, len(s.adj))
	parallel.Range(0, len(s.adj), 0, func(low, high int) {
		for v := low; v < high; v++ {
			seen := make(map[int]bool)
			for _, u := range s.adj[v] {
				seen[u] = true
				for _, w := range s.adj[u] {
					seen[w] = true
				}
			}
			delete(seen, v)
			list := make([]int, 0, len(seen))
			for u := range seen {
				list = append(list, u)
			}
			sort.Ints(list)
			conflicts[v] = list
		}
	})
	return conflicts
}

func greedyColor(conflicts [][]int, order []int) []int {
	colors := make([]int, len(conflicts))
	for _, v := range order {
		used := make(map[int]bool)
		for _, u := range conflicts[v] {
			if colors[u] != 0 {
				used[colors[u]] = true
			}
		}
		c := 1
		for used[c] {
			c++
		}
		colors[v] = c
	}
	return colors
}

func lubyColor(conflicts [][]int) []int {
	n := len(conflicts)
	colors := make([]int, n)
	keys := make([]int, n)
	selected := make([]bool, n)
	rnd := rand.New(rand.NewSource(int64(n) + 1))
	remaining := n
	for color := 1; remaining > 0; color++ {
		for v := 0; v < n; v++ {
			if colors[v] == 0 {
				keys[v] = rnd.Int()
			}
		}
		for v := 0; v < n; v++ {
			if colors[v] != 0 {
				continue
			}
			smallest := true
			for _, u := range conflicts[v] {
				if colors[u] != 0 {
					continue
				}
				if keys[u] < keys[v] || (keys[u] == keys[v] && u < v) {
					smallest = false
					break
				}
			}
			selected[v] = smallest
		}
		for v := 0; v < n; v++ {
			if selected[v] {
				colors[v] = color
				selected[v] = false
				remaining--
			}
		}
	}
	return colors
}
