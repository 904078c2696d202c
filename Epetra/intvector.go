package Epetra

import (
	"errors"
	"math"
)

var ErrVectorLength = errors.New("value count does not match map")

// IntVector is an integer vector distributed by a map: one value per
// local element.
type IntVector struct {
	vmap   *Map
	values []int
}

func NewIntVector(m *Map) *IntVector {
	return &IntVector{
		vmap:   m,
		values: make([]int, m.NumMyElements()),
	}
}

func NewIntVectorFromValues(m *Map, values []int) (*IntVector, error) {
	if len(values) != m.NumMyElements() {
		return nil, ErrVectorLength
	}
	return &IntVector{
		vmap:   m,
		values: append([]int(nil), values...),
	}, nil
}

func (v *IntVector) Map() *Map { return v.vmap }

// Values returns the local values in map order. The slice is a view.
func (v *IntVector) Values() []int { return v.values }

func (v *IntVector) PutValue(value int) {
	for i := range v.values {
		v.values[i] = value
	}
}

// MaxValue returns the largest value over all ranks. Collective.
func (v *IntVector) MaxValue() (int, error) {
	local := math.MinInt
	for _, x := range v.values {
		local = max(local, x)
	}
	maxs, err := v.vmap.Comm().MaxAll([]int{local})
	if err != nil {
		return 0, err
	}
	return maxs[0], nil
}

// MinValue returns the smallest value over all ranks. Collective.
func (v *IntVector) MinValue() (int, error) {
	local := math.MaxInt
	for _, x := range v.values {
		local = min(local, x)
	}
	mins, err := v.vmap.Comm().MinAll([]int{local})
	if err != nil {
		return 0, err
	}
	return mins[0], nil
}
