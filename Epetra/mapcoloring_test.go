package Epetra_test

import (
	"testing"

	"github.com/intel/forEpetraGo/Epetra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapColoringBasics(t *testing.T) {
	comm := Epetra.NewSerialComm()
	m, err := Epetra.NewMap(9, 0, comm)
	require.NoError(t, err)
	mc := Epetra.NewMapColoring(m, 0)

	assert.Equal(t, 0, mc.DefaultColor())
	assert.Equal(t, 0, mc.NumColors())
	assert.Equal(t, 9, mc.NumElementsWithColor(0))

	for lid := 0; lid < 9; lid++ {
		require.NoError(t, mc.SetColor(lid, lid%3+1))
	}
	assert.Equal(t, 3, mc.NumColors())
	assert.Equal(t, []int{1, 2, 3}, mc.ListOfColors())
	for c := 1; c <= 3; c++ {
		assert.Equal(t, 3, mc.NumElementsWithColor(c))
	}
	assert.Equal(t, 0, mc.NumElementsWithColor(4))
	assert.Equal(t, []int{0, 3, 6}, mc.ColorLIDList(1))
	assert.Equal(t, 2, mc.Color(1))

	// Out-of-range access yields the default color.
	assert.Equal(t, 0, mc.Color(9))
	assert.Equal(t, 0, mc.Color(-1))
	assert.ErrorIs(t, mc.SetColor(9, 1), Epetra.ErrElementOutOfRange)
}

func TestMapColoringGenerateMap(t *testing.T) {
	comm := Epetra.NewSerialComm()
	m, err := Epetra.NewMap(6, 0, comm)
	require.NoError(t, err)
	mc := Epetra.NewMapColoring(m, 0)
	for lid := 0; lid < 6; lid++ {
		require.NoError(t, mc.SetColor(lid, lid%2+1))
	}
	colorMap, err := mc.GenerateMap(1)
	require.NoError(t, err)
	assert.Equal(t, 3, colorMap.NumGlobalElements())
	assert.Equal(t, []int{0, 2, 4}, colorMap.MyGlobalElements())
}

func TestMapColoringDistributedQueries(t *testing.T) {
	runRanks(t, 3, func(t *testing.T, comm *Epetra.GroupComm) {
		m, err := Epetra.NewMap(9, 0, comm)
		if !assert.NoError(t, err) {
			return
		}
		mc := Epetra.NewMapColoring(m, 0)
		// Rank p uses colors 1..p+1.
		for lid := 0; lid < m.NumMyElements(); lid++ {
			assert.NoError(t, mc.SetColor(lid, lid%(comm.MyPID()+1)+1))
		}
		assert.Equal(t, comm.MyPID()+1, mc.NumColors())
		maxColors, err := mc.MaxNumColors()
		if assert.NoError(t, err) {
			assert.Equal(t, 3, maxColors)
		}

		gm, err := mc.GenerateMap(1)
		if assert.NoError(t, err) {
			for _, gid := range gm.MyGlobalElements() {
				assert.Equal(t, 1, mc.Color(m.LID(gid)))
			}
		}
	})
}

func TestIntVector(t *testing.T) {
	comm := Epetra.NewSerialComm()
	m, err := Epetra.NewMap(5, 0, comm)
	require.NoError(t, err)

	v := Epetra.NewIntVector(m)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, v.Values())
	v.PutValue(-1)
	assert.Equal(t, []int{-1, -1, -1, -1, -1}, v.Values())

	w, err := Epetra.NewIntVectorFromValues(m, []int{3, 1, 4, 1, 5})
	require.NoError(t, err)
	maxValue, err := w.MaxValue()
	require.NoError(t, err)
	assert.Equal(t, 5, maxValue)
	minValue, err := w.MinValue()
	require.NoError(t, err)
	assert.Equal(t, 1, minValue)

	_, err = Epetra.NewIntVectorFromValues(m, []int{1, 2})
	assert.ErrorIs(t, err, Epetra.ErrVectorLength)
}

func TestIntVectorDistributed(t *testing.T) {
	runRanks(t, 4, func(t *testing.T, comm *Epetra.GroupComm) {
		m, err := Epetra.NewMap(8, 0, comm)
		if !assert.NoError(t, err) {
			return
		}
		v := Epetra.NewIntVector(m)
		v.PutValue(comm.MyPID())
		maxValue, err := v.MaxValue()
		if assert.NoError(t, err) {
			assert.Equal(t, 3, maxValue)
		}
		minValue, err := v.MinValue()
		if assert.NoError(t, err) {
			assert.Equal(t, 0, minValue)
		}
	})
}
