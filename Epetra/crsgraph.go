package Epetra

import (
	"errors"
	"fmt"
	"sort"

	"github.com/intel/forGoParallel/parallel"
	"github.com/intel/forGraphBLASGo/GrB"
)

var (
	ErrFilled        = errors.New("graph is fill complete")
	ErrNotFilled     = errors.New("graph is not fill complete")
	ErrRowNotOwned   = errors.New("global row not owned by this rank")
	ErrRowOutOfRange = errors.New("local row out of range")
)

type DataAccess int

const (
	Copy DataAccess = iota
	View
)

// CrsGraph is a compressed-row sparsity structure distributed by a row
// map. Construction happens in two stages: global column IDs are
// inserted row by row, then FillComplete freezes the structure, builds
// the column map (owned columns in row-map order, then ghost columns in
// ascending GID order), translates indices to local, and assembles the
// backing GrB matrix.
//
// FillComplete and the queries that aggregate over ranks are collective.
type CrsGraph struct {
	cv     DataAccess
	rowMap *Map
	colMap *Map

	rows [][]int // pre-fill, global column IDs per local row

	filled           bool
	rowPtr           []int
	colInd           []int // post-fill, local column IDs, sorted per row
	matrix           GrB.Matrix[int]
	numGlobalEntries int
	maxNumIndices    int
}

// NewCrsGraph creates an empty graph over rowMap. numIndicesPerRow is a
// per-row preallocation hint, not a limit.
func NewCrsGraph(cv DataAccess, rowMap *Map, numIndicesPerRow int) *CrsGraph {
	numIndicesPerRow = max(numIndicesPerRow, 0)
	rows := make([][]int, rowMap.NumMyElements())
	for i := range rows {
		rows[i] = make([]int, 0, numIndicesPerRow)
	}
	return &CrsGraph{
		cv:     cv,
		rowMap: rowMap,
		rows:   rows,
	}
}

// InsertGlobalIndices records the given global column IDs for globalRow.
// The row must be owned by the calling rank. Duplicates are allowed and
// removed by FillComplete.
func (g *CrsGraph) InsertGlobalIndices(globalRow int, indices []int) error {
	if g.filled {
		return ErrFilled
	}
	lrid := g.rowMap.LID(globalRow)
	if lrid < 0 {
		return ErrRowNotOwned
	}
	g.rows[lrid] = append(g.rows[lrid], indices...)
	return nil
}

// RemoveGlobalIndices discards all column IDs recorded for globalRow.
func (g *CrsGraph) RemoveGlobalIndices(globalRow int) error {
	if g.filled {
		return ErrFilled
	}
	lrid := g.rowMap.LID(globalRow)
	if lrid < 0 {
		return ErrRowNotOwned
	}
	g.rows[lrid] = g.rows[lrid][:0]
	return nil
}

// FillComplete freezes the structure. Collective: every rank of the row
// map's communicator must call it concurrently.
func (g *CrsGraph) FillComplete() (err error) {
	defer GrB.CheckErrors(&err)
	if g.filled {
		return ErrFilled
	}
	nMyRows := g.rowMap.NumMyElements()

	parallel.Range(0, nMyRows, 0, func(low, high int) {
		for i := low; i < high; i++ {
			row := g.rows[i]
			sort.Ints(row)
			g.rows[i] = dedupSorted(row)
		}
	})

	// Column map: owned columns that occur locally, in row-map order,
	// followed by ghost columns in ascending GID order.
	present := make([]bool, nMyRows)
	ghostSeen := make(map[int]bool)
	var ghosts []int
	nnz := 0
	for _, row := range g.rows {
		nnz += len(row)
		for _, c := range row {
			if lid := g.rowMap.LID(c); lid >= 0 {
				present[lid] = true
			} else if !ghostSeen[c] {
				ghostSeen[c] = true
				ghosts = append(ghosts, c)
			}
		}
	}
	sort.Ints(ghosts)
	colGIDs := make([]int, 0, nMyRows+len(ghosts))
	for lid, ok := range present {
		if ok {
			colGIDs = append(colGIDs, g.rowMap.GID(lid))
		}
	}
	colGIDs = append(colGIDs, ghosts...)
	colMap, err := NewMapFromElements(-1, colGIDs, g.rowMap.IndexBase(), g.rowMap.Comm())
	GrB.OK(err)
	g.colMap = colMap

	g.rowPtr = make([]int, nMyRows+1)
	g.colInd = make([]int, 0, nnz)
	for i, row := range g.rows {
		g.rowPtr[i] = len(g.colInd)
		for _, c := range row {
			g.colInd = append(g.colInd, colMap.LID(c))
		}
		g.maxNumIndices = max(g.maxNumIndices, len(row))
	}
	g.rowPtr[nMyRows] = len(g.colInd)
	parallel.Range(0, nMyRows, 0, func(low, high int) {
		for i := low; i < high; i++ {
			sort.Ints(g.colInd[g.rowPtr[i]:g.rowPtr[i+1]])
		}
	})

	tupleRows := make([]int, nnz)
	tupleVals := make([]int, nnz)
	for i := 0; i < nMyRows; i++ {
		for k := g.rowPtr[i]; k < g.rowPtr[i+1]; k++ {
			tupleRows[k] = i
			tupleVals[k] = 1
		}
	}
	A, err := GrB.MatrixNew[int](nMyRows, colMap.NumMyElements())
	GrB.OK(err)
	defer func() {
		if err != nil {
			_ = A.Free()
		}
	}()
	dup := GrB.First[int, int]()
	GrB.OK(A.Build(tupleRows, g.colInd, tupleVals, &dup))
	g.matrix = A

	sums, err := g.rowMap.Comm().SumAll([]int{nnz})
	GrB.OK(err)
	g.numGlobalEntries = sums[0]

	g.rows = nil
	g.filled = true
	return nil
}

func dedupSorted(row []int) []int {
	if len(row) < 2 {
		return row
	}
	j := 1
	for i := 1; i < len(row); i++ {
		if row[i] != row[j-1] {
			row[j] = row[i]
			j++
		}
	}
	return row[:j]
}

func (g *CrsGraph) Filled() bool           { return g.filled }
func (g *CrsGraph) IndicesAreGlobal() bool { return !g.filled }
func (g *CrsGraph) IndicesAreLocal() bool  { return g.filled }

func (g *CrsGraph) NumMyRows() int     { return g.rowMap.NumMyElements() }
func (g *CrsGraph) NumGlobalRows() int { return g.rowMap.NumGlobalElements() }

func (g *CrsGraph) NumMyCols() int {
	if g.colMap == nil {
		return 0
	}
	return g.colMap.NumMyElements()
}

func (g *CrsGraph) NumMyEntries() int {
	if g.filled {
		return len(g.colInd)
	}
	n := 0
	for _, row := range g.rows {
		n += len(row)
	}
	return n
}

// NumGlobalEntries is known after FillComplete; it returns 0 before.
func (g *CrsGraph) NumGlobalEntries() int { return g.numGlobalEntries }

// NumMyIndices returns the number of column IDs in the given local row,
// or -1 when the row is out of range.
func (g *CrsGraph) NumMyIndices(lrid int) int {
	if !g.rowMap.MyLID(lrid) {
		return -1
	}
	if g.filled {
		return g.rowPtr[lrid+1] - g.rowPtr[lrid]
	}
	return len(g.rows[lrid])
}

// NumGlobalIndices returns the number of column IDs in the given global
// row, or -1 when the row is not owned by the calling rank.
func (g *CrsGraph) NumGlobalIndices(grid int) int {
	return g.NumMyIndices(g.rowMap.LID(grid))
}

// MaxNumIndices is the largest row length on the calling rank, known
// after FillComplete.
func (g *CrsGraph) MaxNumIndices() int { return g.maxNumIndices }

func (g *CrsGraph) GRID(lrid int) int { return g.rowMap.GID(lrid) }
func (g *CrsGraph) LRID(grid int) int { return g.rowMap.LID(grid) }

func (g *CrsGraph) RowMap() *Map { return g.rowMap }

// ColMap returns the column map, nil before FillComplete.
func (g *CrsGraph) ColMap() *Map { return g.colMap }

func (g *CrsGraph) Comm() Comm { return g.rowMap.Comm() }

// ExtractGlobalRowCopy returns a copy of the global column IDs of the
// given global row. After FillComplete the copy is sorted ascending and
// free of duplicates; before, it reflects the raw insertions.
func (g *CrsGraph) ExtractGlobalRowCopy(grid int) ([]int, error) {
	lrid := g.rowMap.LID(grid)
	if lrid < 0 {
		return nil, ErrRowNotOwned
	}
	if !g.filled {
		return append([]int(nil), g.rows[lrid]...), nil
	}
	lids := g.colInd[g.rowPtr[lrid]:g.rowPtr[lrid+1]]
	gids := make([]int, len(lids))
	for k, lid := range lids {
		gids[k] = g.colMap.GID(lid)
	}
	sort.Ints(gids)
	return gids, nil
}

// ExtractMyRowView returns the local column IDs of the given local row
// without copying. Only valid after FillComplete.
func (g *CrsGraph) ExtractMyRowView(lrid int) ([]int, error) {
	if !g.filled {
		return nil, ErrNotFilled
	}
	if !g.rowMap.MyLID(lrid) {
		return nil, ErrRowOutOfRange
	}
	return g.colInd[g.rowPtr[lrid]:g.rowPtr[lrid+1]], nil
}

// Matrix returns the backing GrB matrix (NumMyRows by NumMyCols, local
// indices), valid after FillComplete. Callers that unpack its CSR form
// must pack it back.
func (g *CrsGraph) Matrix() GrB.Matrix[int] { return g.matrix }

func (g *CrsGraph) Print(printLevel GrB.PrintLevel) (err error) {
	defer GrB.CheckErrors(&err)
	prln := func(a ...any) {
		_, err = fmt.Println(a...)
		GrB.OK(err)
	}
	if printLevel <= 0 {
		return
	}
	prln("CrsGraph: rows:", g.NumMyRows(), "of", g.NumGlobalRows(),
		"entries:", g.NumMyEntries(), "filled:", g.filled)
	if !g.filled || printLevel <= 1 {
		return
	}
	for i := 0; i < g.NumMyRows(); i++ {
		gids, e := g.ExtractGlobalRowCopy(g.GRID(i))
		GrB.OK(e)
		_, err = fmt.Printf("   row %v: %v\n", g.GRID(i), gids)
		GrB.OK(err)
	}
	return
}
