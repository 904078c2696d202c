package Epetra

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidSize  = errors.New("negative number of elements")
	ErrDuplicateGID = errors.New("duplicate global ID on one rank")
)

// Map describes how global element IDs are laid out over the ranks of a
// communicator. Global IDs (GIDs) are dense in [indexBase,
// indexBase+NumGlobalElements) for linear maps, arbitrary otherwise.
// Local IDs (LIDs) number the elements held by the calling rank, in the
// order of MyGlobalElements.
type Map struct {
	comm      Comm
	numGlobal int
	indexBase int
	myGIDs    []int
	lidOf     map[int]int

	linear     bool
	replicated bool

	minMyGID, maxMyGID   int
	minAllGID, maxAllGID int
}

// NewMap distributes numGlobal elements uniformly: rank p holds
// numGlobal/numProc contiguous GIDs, plus one extra when p <
// numGlobal%numProc, in ascending blocks. Collective.
func NewMap(numGlobal, indexBase int, comm Comm) (*Map, error) {
	if numGlobal < 0 {
		return nil, ErrInvalidSize
	}
	pid := comm.MyPID()
	nproc := comm.NumProc()
	quot := numGlobal / nproc
	rem := numGlobal % nproc
	numMy := quot
	if pid < rem {
		numMy++
	}
	start := indexBase + pid*quot + min(pid, rem)
	myGIDs := make([]int, numMy)
	for i := range myGIDs {
		myGIDs[i] = start + i
	}
	return &Map{
		comm:      comm,
		numGlobal: numGlobal,
		indexBase: indexBase,
		myGIDs:    myGIDs,
		linear:    true,
		minMyGID:  start,
		maxMyGID:  start + numMy - 1,
		minAllGID: indexBase,
		maxAllGID: indexBase + numGlobal - 1,
	}, nil
}

// NewMapFromElements builds a map from an explicit per-rank GID list.
// Pass numGlobal < 0 to have it computed as the sum of the per-rank list
// lengths. Collective.
func NewMapFromElements(numGlobal int, myGIDs []int, indexBase int, comm Comm) (*Map, error) {
	m := &Map{
		comm:      comm,
		numGlobal: numGlobal,
		indexBase: indexBase,
		myGIDs:    append([]int(nil), myGIDs...),
		lidOf:     make(map[int]int, len(myGIDs)),
		minMyGID:  math.MaxInt,
		maxMyGID:  math.MinInt,
	}
	for lid, gid := range m.myGIDs {
		if _, seen := m.lidOf[gid]; seen {
			return nil, ErrDuplicateGID
		}
		m.lidOf[gid] = lid
		m.minMyGID = min(m.minMyGID, gid)
		m.maxMyGID = max(m.maxMyGID, gid)
	}
	if numGlobal < 0 {
		sums, err := comm.SumAll([]int{len(m.myGIDs)})
		if err != nil {
			return nil, err
		}
		m.numGlobal = sums[0]
	}
	mins, err := comm.MinAll([]int{m.minMyGID})
	if err != nil {
		return nil, err
	}
	maxs, err := comm.MaxAll([]int{m.maxMyGID})
	if err != nil {
		return nil, err
	}
	m.minAllGID = mins[0]
	m.maxAllGID = maxs[0]
	return m, nil
}

// NewLocalMap replicates numMy elements in full on every rank, with GIDs
// indexBase..indexBase+numMy-1. NumGlobalElements equals NumMyElements.
func NewLocalMap(numMy, indexBase int, comm Comm) (*Map, error) {
	if numMy < 0 {
		return nil, ErrInvalidSize
	}
	myGIDs := make([]int, numMy)
	for i := range myGIDs {
		myGIDs[i] = indexBase + i
	}
	return &Map{
		comm:       comm,
		numGlobal:  numMy,
		indexBase:  indexBase,
		myGIDs:     myGIDs,
		linear:     true,
		replicated: true,
		minMyGID:   indexBase,
		maxMyGID:   indexBase + numMy - 1,
		minAllGID:  indexBase,
		maxAllGID:  indexBase + numMy - 1,
	}, nil
}

func (m *Map) NumGlobalElements() int { return m.numGlobal }
func (m *Map) NumMyElements() int     { return len(m.myGIDs) }
func (m *Map) IndexBase() int         { return m.indexBase }

// MyGlobalElements returns the GIDs held by the calling rank, in local
// order. The slice is a view; callers must not modify it.
func (m *Map) MyGlobalElements() []int { return m.myGIDs }

// GID returns the global ID of the given local ID, or -1 when lid is out
// of range.
func (m *Map) GID(lid int) int {
	if lid < 0 || lid >= len(m.myGIDs) {
		return -1
	}
	return m.myGIDs[lid]
}

// LID returns the local ID of the given global ID, or -1 when the
// calling rank does not hold it.
func (m *Map) LID(gid int) int {
	if m.linear {
		if len(m.myGIDs) == 0 || gid < m.minMyGID || gid > m.maxMyGID {
			return -1
		}
		return gid - m.minMyGID
	}
	lid, ok := m.lidOf[gid]
	if !ok {
		return -1
	}
	return lid
}

func (m *Map) MyGID(gid int) bool { return m.LID(gid) >= 0 }

func (m *Map) MyLID(lid int) bool { return lid >= 0 && lid < len(m.myGIDs) }

func (m *Map) MinMyGID() int  { return m.minMyGID }
func (m *Map) MaxMyGID() int  { return m.maxMyGID }
func (m *Map) MinAllGID() int { return m.minAllGID }
func (m *Map) MaxAllGID() int { return m.maxAllGID }

func (m *Map) LinearMap() bool { return m.linear }

// DistributedGlobal reports whether the elements are spread over more
// than one rank. Replicated (local) maps are never distributed.
func (m *Map) DistributedGlobal() bool {
	return !m.replicated && m.comm.NumProc() > 1
}

func (m *Map) Comm() Comm { return m.comm }

// SameAs reports whether both maps describe the same distribution:
// equal global size, index base, and identical per-rank GID lists on
// every rank. Collective.
func (m *Map) SameAs(other *Map) bool {
	same := 1
	if m != other {
		if other == nil ||
			m.numGlobal != other.numGlobal ||
			m.indexBase != other.indexBase ||
			len(m.myGIDs) != len(other.myGIDs) {
			same = 0
		} else {
			for lid, gid := range m.myGIDs {
				if other.myGIDs[lid] != gid {
					same = 0
					break
				}
			}
		}
	}
	mins, err := m.comm.MinAll([]int{same})
	if err != nil {
		return false
	}
	return mins[0] == 1
}

func (m *Map) String() string {
	return fmt.Sprintf("Epetra.Map: %v of %v elements on rank %v of %v",
		len(m.myGIDs), m.numGlobal, m.comm.MyPID(), m.comm.NumProc())
}
