package MatrixMarket_test

import (
	"os"
	"strings"
	"testing"

	"github.com/intel/forEpetraGo/Epetra"
	"github.com/intel/forEpetraGo/MatrixMarket"
	"github.com/intel/forGraphBLASGo/GrB"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := Epetra.Init(GrB.NonBlocking); err != nil {
		panic(err)
	}
	defer func() {
		if err := Epetra.Finalize(); err != nil {
			panic(err)
		}
	}()
	os.Exit(m.Run())
}

const path4 = `%%MatrixMarket matrix coordinate pattern symmetric
% path graph on 4 vertices
4 4 3
2 1
3 2
4 3
`

func TestReadSymmetricPattern(t *testing.T) {
	st, err := MatrixMarket.Read(strings.NewReader(path4))
	require.NoError(t, err)
	assert.Equal(t, 4, st.NRows)
	assert.Equal(t, 4, st.NCols)
	// Symmetric storage is expanded to both orientations.
	assert.Equal(t, []int{1, 0, 2, 1, 3, 2}, st.Rows)
	assert.Equal(t, []int{0, 1, 1, 2, 2, 3}, st.Cols)
}

func TestReadGeneralWithValues(t *testing.T) {
	in := `%%MatrixMarket matrix coordinate real general
3 3 4
1 1 1.5
1 2 -2.0
2 2 3.0
3 1 4.25
`
	st, err := MatrixMarket.Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 2}, st.Rows)
	assert.Equal(t, []int{0, 1, 1, 0}, st.Cols)
}

func TestReadErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"missing header", ""},
		{"bad banner", "%%NotMatrixMarket matrix coordinate real general\n1 1 0\n"},
		{"array format", "%%MatrixMarket matrix array real general\n2 2\n1\n2\n3\n4\n"},
		{"complex type", "%%MatrixMarket matrix coordinate complex general\n1 1 1\n1 1 2.0 0.0\n"},
		{"too few lines", "%%MatrixMarket matrix coordinate pattern general\n2 2 2\n1 1\n"},
		{"too many lines", "%%MatrixMarket matrix coordinate pattern general\n2 2 1\n1 1\n2 2\n"},
		{"out of range", "%%MatrixMarket matrix coordinate pattern general\n2 2 1\n3 1\n"},
		{"bad value", "%%MatrixMarket matrix coordinate real general\n1 1 1\n1 1 abc\n"},
	}
	for _, c := range cases {
		_, err := MatrixMarket.Read(strings.NewReader(c.in))
		assert.Error(t, err, c.name)
	}
}

func TestReadGraph(t *testing.T) {
	comm := Epetra.NewSerialComm()
	rowMap, err := Epetra.NewMap(4, 0, comm)
	require.NoError(t, err)
	graph, err := MatrixMarket.ReadGraph(strings.NewReader(path4), rowMap)
	require.NoError(t, err)

	assert.True(t, graph.Filled())
	assert.Equal(t, 6, graph.NumGlobalEntries())
	row, err := graph.ExtractGlobalRowCopy(1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, row)
}

func TestReadGraphSizeMismatch(t *testing.T) {
	comm := Epetra.NewSerialComm()
	rowMap, err := Epetra.NewMap(5, 0, comm)
	require.NoError(t, err)
	_, err = MatrixMarket.ReadGraph(strings.NewReader(path4), rowMap)
	assert.Error(t, err)
}

func TestReadGraphIndexBase(t *testing.T) {
	comm := Epetra.NewSerialComm()
	rowMap, err := Epetra.NewMap(4, 1, comm)
	require.NoError(t, err)
	graph, err := MatrixMarket.ReadGraph(strings.NewReader(path4), rowMap)
	require.NoError(t, err)
	row, err := graph.ExtractGlobalRowCopy(2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, row)
}
