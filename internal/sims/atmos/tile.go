package atmos

// Direction indexes the four cardinal neighbor slots of a tile.
type Direction uint8

const (
	North Direction = iota
	East
	South
	West
)

// directionCount is the number of cardinal neighbor slots.
const directionCount = 4

// Opposite returns the direction pointing back at the caller.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	default:
		return East
	}
}

// Position is an integer grid coordinate, unique per live tile.
type Position struct {
	X, Y int
}

// Neighbors returns the adjacent positions in N/E/S/W order.
func (p Position) Neighbors() [directionCount]Position {
	return [directionCount]Position{
		{p.X, p.Y + 1},
		{p.X + 1, p.Y},
		{p.X, p.Y - 1},
		{p.X - 1, p.Y},
	}
}

// noTile marks an empty neighbor slot (grid edge).
const noTile = -1

// Link is one neighbor slot: the arena index of the adjacent tile and
// whether gas may flow across the shared edge.
type Link struct {
	Tile int
	Open bool
}

// Tile is one cell of the simulation grid. It owns exactly one mixture for
// its lifetime. A walled tile never takes part in transfer; its presence
// closes the links of its neighbors.
type Tile struct {
	Pos       Position
	Mix       GasMixture
	Wall      bool
	Neighbors [directionCount]Link
}

func newTile(pos Position, mix GasMixture, wall bool) Tile {
	t := Tile{Pos: pos, Mix: mix, Wall: wall}
	for d := range t.Neighbors {
		t.Neighbors[d] = Link{Tile: noTile}
	}
	return t
}
