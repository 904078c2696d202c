package Epetra

import (
	"errors"
	"sort"
)

var ErrElementOutOfRange = errors.New("local element out of range")

// MapColoring assigns a color to every element of a map. The default
// color marks uncolored elements; coloring transforms hand out colors
// starting at defaultColor+1.
type MapColoring struct {
	cmap         *Map
	defaultColor int
	colors       []int
}

func NewMapColoring(m *Map, defaultColor int) *MapColoring {
	mc := &MapColoring{
		cmap:         m,
		defaultColor: defaultColor,
		colors:       make([]int, m.NumMyElements()),
	}
	for i := range mc.colors {
		mc.colors[i] = defaultColor
	}
	return mc
}

func (mc *MapColoring) Map() *Map         { return mc.cmap }
func (mc *MapColoring) DefaultColor() int { return mc.defaultColor }

// Color returns the color of the given local element, or the default
// color when lid is out of range.
func (mc *MapColoring) Color(lid int) int {
	if lid < 0 || lid >= len(mc.colors) {
		return mc.defaultColor
	}
	return mc.colors[lid]
}

func (mc *MapColoring) SetColor(lid, color int) error {
	if lid < 0 || lid >= len(mc.colors) {
		return ErrElementOutOfRange
	}
	mc.colors[lid] = color
	return nil
}

// ListOfColors returns the distinct non-default colors present on the
// calling rank, ascending.
func (mc *MapColoring) ListOfColors() []int {
	seen := make(map[int]bool)
	var list []int
	for _, c := range mc.colors {
		if c != mc.defaultColor && !seen[c] {
			seen[c] = true
			list = append(list, c)
		}
	}
	sort.Ints(list)
	return list
}

// NumColors counts the distinct non-default colors on the calling rank.
func (mc *MapColoring) NumColors() int {
	return len(mc.ListOfColors())
}

// MaxNumColors returns the largest NumColors over all ranks. Collective.
func (mc *MapColoring) MaxNumColors() (int, error) {
	maxs, err := mc.cmap.Comm().MaxAll([]int{mc.NumColors()})
	if err != nil {
		return 0, err
	}
	return maxs[0], nil
}

func (mc *MapColoring) NumElementsWithColor(color int) int {
	n := 0
	for _, c := range mc.colors {
		if c == color {
			n++
		}
	}
	return n
}

// ColorLIDList returns the local IDs carrying the given color, in local
// order.
func (mc *MapColoring) ColorLIDList(color int) []int {
	var lids []int
	for lid, c := range mc.colors {
		if c == color {
			lids = append(lids, lid)
		}
	}
	return lids
}

// GenerateMap builds a new map holding the global IDs that carry the
// given color on each rank. Collective.
func (mc *MapColoring) GenerateMap(color int) (*Map, error) {
	var gids []int
	for lid, c := range mc.colors {
		if c == color {
			gids = append(gids, mc.cmap.GID(lid))
		}
	}
	return NewMapFromElements(-1, gids, mc.cmap.IndexBase(), mc.cmap.Comm())
}
