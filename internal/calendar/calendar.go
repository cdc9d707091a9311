// Package calendar lays tasks out on a six-week month grid.
package calendar

import (
	"time"

	"studyplan/internal/task"
)

const (
	// MaxTasksPerCell is how many tasks a day cell lists before "+N more".
	MaxTasksPerCell = 3

	cells = 42
)

// Weekdays are the column headers, Sunday first.
var Weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DaySource answers which tasks fall on a calendar day.
type DaySource interface {
	TasksOnDate(date time.Time) []task.Task
}

// Cell is one day of the grid.
type Cell struct {
	Date    time.Time
	Day     int
	InMonth bool
	Today   bool
	Tasks   []task.Task
	More    int
}

// Grid is a month view: 42 cells starting on the Sunday on or before the 1st.
type Grid struct {
	Year  int
	Month time.Month
	Title string
	Cells []Cell
}

// Month builds the grid for year/month in loc, marking today.
func Month(year int, month time.Month, loc *time.Location, today time.Time, src DaySource) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	ty, tm, td := today.In(loc).Date()

	g := Grid{
		Year:  first.Year(),
		Month: first.Month(),
		Title: first.Format("January 2006"),
		Cells: make([]Cell, 0, cells),
	}
	for i := 0; i < cells; i++ {
		day := start.AddDate(0, 0, i)
		y, m, d := day.Date()
		c := Cell{
			Date:    day,
			Day:     d,
			InMonth: m == g.Month,
			Today:   y == ty && m == tm && d == td,
		}
		if src != nil {
			dayTasks := src.TasksOnDate(day)
			if len(dayTasks) > MaxTasksPerCell {
				c.More = len(dayTasks) - MaxTasksPerCell
				dayTasks = dayTasks[:MaxTasksPerCell]
			}
			c.Tasks = dayTasks
		}
		g.Cells = append(g.Cells, c)
	}
	return g
}

// Weeks splits the cells into rows of seven.
func (g Grid) Weeks() [][]Cell {
	var rows [][]Cell
	for i := 0; i < len(g.Cells); i += 7 {
		rows = append(rows, g.Cells[i:min(i+7, len(g.Cells))])
	}
	return rows
}

// Next returns the year and month after g.
func (g Grid) Next() (int, time.Month) {
	return shift(g.Year, g.Month, 1)
}

// Prev returns the year and month before g.
func (g Grid) Prev() (int, time.Month) {
	return shift(g.Year, g.Month, -1)
}

func shift(year int, month time.Month, by int) (int, time.Month) {
	t := time.Date(year, month+time.Month(by), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}
