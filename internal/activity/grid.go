package activity

// Grid dimensions: at most five weeks of seven days per period.
const (
	Rows = 5
	Days = 7
)

// Cell addresses one day slot in the grid.
type Cell struct {
	Row int
	Day int
}

func (c Cell) Valid() bool {
	return c.Row >= 0 && c.Row < Rows && c.Day >= 0 && c.Day < Days
}

// AllCells returns the 35 cells in row-major order.
func AllCells() []Cell {
	cells := make([]Cell, 0, Rows*Days)
	for row := 0; row < Rows; row++ {
		for day := 0; day < Days; day++ {
			cells = append(cells, Cell{Row: row, Day: day})
		}
	}
	return cells
}
