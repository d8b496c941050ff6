package grid

// Position is an integer tile coordinate. Within a chunk it is always local (non-negative).
type Position struct {
	X, Y int
}

// Pos is shorthand for Position{X: x, Y: y}.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

// Add returns p offset by o.
func (p Position) Add(o Position) Position {
	return Position{p.X + o.X, p.Y + o.Y}
}

// Sub returns p minus o.
func (p Position) Sub(o Position) Position {
	return Position{p.X - o.X, p.Y - o.Y}
}

// Less orders positions row-major (Y first, then X).
func (p Position) Less(o Position) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// Direction is a cardinal direction.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists the four cardinal directions in clockwise order starting at North.
var Directions = [4]Direction{North, East, South, West}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the unit offset for moving one step in d.
func (d Direction) Delta() Position {
	switch d {
	case North:
		return Position{0, -1}
	case East:
		return Position{1, 0}
	case South:
		return Position{0, 1}
	case West:
		return Position{-1, 0}
	}
	return Position{}
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "unknown"
}

// Neighbor returns the adjacent position in direction d.
func (p Position) Neighbor(d Direction) Position {
	return p.Add(d.Delta())
}

// Neighbors returns the four cardinal neighbours in N, E, S, W order.
func (p Position) Neighbors() [4]Position {
	return [4]Position{
		p.Neighbor(North),
		p.Neighbor(East),
		p.Neighbor(South),
		p.Neighbor(West),
	}
}
