package game

import "math/rand"

// FormationType identifies the shape a squad is laid out in.
type FormationType int

const (
	FormationBox     FormationType = iota // square-ish grid, row-major
	FormationPyramid                      // triangular stacking, one more per row
)

// formationKinds lists the formations a random pick chooses from.
var formationKinds = [...]FormationType{FormationBox, FormationPyramid}

func (f FormationType) String() string {
	switch f {
	case FormationBox:
		return "box"
	case FormationPyramid:
		return "pyramid"
	default:
		return "unknown"
	}
}

// FormationOffsets returns count relative grid offsets for the formation.
// Offsets are in grid cells; the spawner scales them by unit spacing.
// The result is deterministic for a given (ft, count).
func FormationOffsets(ft FormationType, count int) []Vec2 {
	if count <= 0 {
		return []Vec2{}
	}
	switch ft {
	case FormationPyramid:
		return pyramidOffsets(count)
	default:
		return boxOffsets(count)
	}
}

// boxOffsets lays units row-major in an s-wide grid where s is the smallest
// integer with s*s >= count.
func boxOffsets(count int) []Vec2 {
	side := 1
	for side*side < count {
		side++
	}
	offsets := make([]Vec2, count)
	for i := 0; i < count; i++ {
		offsets[i] = Vec2{X: float64(i % side), Y: float64(i / side)}
	}
	return offsets
}

// pyramidOffsets fills rows of capacity 1, 2, 3, ... Within a row x steps
// down while y steps up, so each row is a diagonal of the triangle.
func pyramidOffsets(count int) []Vec2 {
	offsets := make([]Vec2, 0, count)

	x, y := 0.0, 0.0
	row := 0
	capacity := 1 // cumulative triangular number for the current row

	for len(offsets) < count {
		offsets = append(offsets, Vec2{X: x, Y: y})

		if len(offsets) == capacity {
			row++
			capacity += row + 1
			x = 0
			y = float64(row)
		} else {
			x--
			y++
		}
	}
	return offsets
}

// randomFormation picks a formation uniformly.
func randomFormation(rng *rand.Rand) FormationType {
	return formationKinds[rng.Intn(len(formationKinds))]
}
