// Package MatrixMarket reads the sparsity structure of a MatrixMarket
// file and builds an Epetra.CrsGraph from it. Entry values are parsed
// for validation but discarded: only the structure matters for
// coloring.
package MatrixMarket

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/intel/forEpetraGo/Epetra"
)

type storage int

const (
	general storage = iota
	symmetric
	skewSymmetric
)

// Structure is the coordinate pattern of a matrix, with 0-based indices
// and symmetric storage already expanded.
type Structure struct {
	NRows, NCols int
	Rows, Cols   []int
}

type header struct {
	storage      storage
	hasValues    bool
	nrows, ncols int
	nvals        int
}

func readHeader(r io.Reader) (hdr header, scanner *bufio.Scanner, err error) {
	s := bufio.NewScanner(r)
	if !s.Scan() {
		err = errors.New("MatrixMarket header line missing")
		return
	}
	fields := strings.Fields(s.Text())
	if len(fields) != 5 {
		err = fmt.Errorf("MatrixMarket incorrect number of header line elements; expected 5, got %v", len(fields))
		return
	}
	if fields[0] != "%%MatrixMarket" || fields[1] != "matrix" {
		err = fmt.Errorf("MatrixMarket header line prefix incorrect; got %v %v", fields[0], fields[1])
		return
	}
	formatString := strings.ToLower(fields[2])
	typeString := strings.ToLower(fields[3])
	storageString := strings.ToLower(fields[4])
	if formatString != "coordinate" {
		err = fmt.Errorf("MatrixMarket format %v not supported for graph structure; expected coordinate", formatString)
		return
	}
	switch typeString {
	case "real", "integer":
		hdr.hasValues = true
	case "pattern":
		hdr.hasValues = false
	default:
		err = fmt.Errorf("MatrixMarket type entry incorrect; expected (real | integer | pattern), got %v", typeString)
		return
	}
	switch storageString {
	case "general":
		hdr.storage = general
	case "symmetric":
		hdr.storage = symmetric
	case "skew-symmetric":
		hdr.storage = skewSymmetric
	default:
		err = fmt.Errorf("MatrixMarket storage entry incorrect; expected (general | symmetric | skew-symmetric), got %v", storageString)
		return
	}

	sText := ""
	for s.Scan() {
		sText = s.Text()
		if strings.HasPrefix(sText, "%") {
			sText = ""
			continue
		}
		sText = strings.TrimSpace(sText)
		if sText == "" {
			continue
		}
		break
	}
	if sText == "" {
		err = errors.New("MatrixMarket size line missing")
		return
	}
	fields = strings.Fields(sText)
	if len(fields) != 3 {
		err = fmt.Errorf("MatrixMarket size line unexpected number of entries, expected 3, got %v", len(fields))
		return
	}
	dims := make([]int, 3)
	for i, f := range fields {
		v, e := strconv.ParseInt(f, 10, 64)
		if e != nil {
			err = fmt.Errorf("MatrixMarket size line parse error %v, while parsing %v", e, f)
			return
		}
		dims[i] = int(v)
	}
	if dims[0] < 1 || dims[1] < 1 || dims[2] < 0 {
		err = fmt.Errorf("MatrixMarket size line out of range: %v", sText)
		return
	}
	hdr.nrows, hdr.ncols, hdr.nvals = dims[0], dims[1], dims[2]
	return hdr, s, nil
}

// Read parses the coordinate structure of a MatrixMarket file.
func Read(r io.Reader) (*Structure, error) {
	hdr, s, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	wantFields := 2
	if hdr.hasValues {
		wantFields = 3
	}
	capacity := hdr.nvals
	if hdr.storage != general {
		capacity *= 2
	}
	st := &Structure{
		NRows: hdr.nrows,
		NCols: hdr.ncols,
		Rows:  make([]int, 0, capacity),
		Cols:  make([]int, 0, capacity),
	}
	nvals := hdr.nvals
	for s.Scan() {
		sText := s.Text()
		if strings.HasPrefix(sText, "%") {
			continue
		}
		sText = strings.TrimSpace(sText)
		if sText == "" {
			continue
		}
		fields := strings.Fields(sText)
		if len(fields) != wantFields {
			return nil, fmt.Errorf("MatrixMarket coordinate line unexpected number of elements, expected %v, got %v", wantFields, len(fields))
		}
		row, e := strconv.ParseInt(fields[0], 10, 64)
		if e != nil {
			return nil, fmt.Errorf("MatrixMarket coordinate line row parse error %v, while parsing %v", e, fields[0])
		}
		col, e := strconv.ParseInt(fields[1], 10, 64)
		if e != nil {
			return nil, fmt.Errorf("MatrixMarket coordinate line col parse error %v, while parsing %v", e, fields[1])
		}
		if hdr.hasValues {
			if _, e = strconv.ParseFloat(fields[2], 64); e != nil {
				return nil, fmt.Errorf("MatrixMarket coordinate line value parse error %v, while parsing %v", e, fields[2])
			}
		}
		if nvals == 0 {
			return nil, errors.New("MatrixMarket too many coordinate lines")
		}
		i, j := int(row-1), int(col-1)
		if i < 0 || i >= st.NRows || j < 0 || j >= st.NCols {
			return nil, fmt.Errorf("MatrixMarket coordinate (%v, %v) out of range", row, col)
		}
		st.Rows = append(st.Rows, i)
		st.Cols = append(st.Cols, j)
		if hdr.storage != general && i != j {
			st.Rows = append(st.Rows, j)
			st.Cols = append(st.Cols, i)
		}
		nvals--
	}
	if nvals > 0 {
		return nil, errors.New("MatrixMarket too few coordinate lines")
	}
	return st, nil
}

// ReadGraph reads a structure and assembles a fill-complete CrsGraph on
// the given row map. The map's global element count must match the
// matrix row count, with GIDs offset by the map's index base.
// Collective: every rank must call it with the same file contents.
func ReadGraph(r io.Reader, rowMap *Epetra.Map) (*Epetra.CrsGraph, error) {
	st, err := Read(r)
	if err != nil {
		return nil, err
	}
	if rowMap.NumGlobalElements() != st.NRows {
		return nil, fmt.Errorf("row map has %v global elements, matrix has %v rows",
			rowMap.NumGlobalElements(), st.NRows)
	}
	base := rowMap.IndexBase()
	graph := Epetra.NewCrsGraph(Epetra.Copy, rowMap, 0)
	for k, i := range st.Rows {
		grid := base + i
		if !rowMap.MyGID(grid) {
			continue
		}
		if err = graph.InsertGlobalIndices(grid, []int{base + st.Cols[k]}); err != nil {
			return nil, err
		}
	}
	if err = graph.FillComplete(); err != nil {
		return nil, err
	}
	return graph, nil
}
