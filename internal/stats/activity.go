package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/onboard/internal/models"
)

const dayLayout = "2006-01-02"

// DayCount is the number of tasks completed on one calendar day.
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Activity groups confirmed tasks by the local calendar day of their
// completion date, oldest first. Unparseable dates are skipped.
func Activity(tasks []models.Task, loc *time.Location) []DayCount {
	if loc == nil {
		loc = time.Local
	}
	counts := map[string]int{}
	for _, t := range tasks {
		if !t.Confirmed || t.CompletionDate == "" {
			continue
		}
		day, ok := parseDay(t.CompletionDate, loc)
		if !ok {
			continue
		}
		counts[day.Format(dayLayout)]++
	}

	out := make([]DayCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DayCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func parseDay(s string, loc *time.Location) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), true
	}
	if t, err := time.ParseInLocation(dayLayout, s, loc); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// Level buckets a day's count into five intensity steps.
func Level(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 1:
		return 1
	case count <= 3:
		return 2
	case count <= 5:
		return 3
	default:
		return 4
	}
}

// Cell is one day of the heatmap.
type Cell struct {
	Date  time.Time
	Count int
	Level int
}

// Heatmap lays out the weeks ending with the week containing today as
// Monday-first columns of seven days. Days after today are included so every
// column is full.
func Heatmap(counts []DayCount, today time.Time, weeks int) [][]Cell {
	if weeks <= 0 {
		return nil
	}
	loc := today.Location()
	byDay := make(map[string]int, len(counts))
	for _, c := range counts {
		byDay[c.Date] += c.Count
	}

	y, m, d := today.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	// time.Weekday is Sunday-first; shift so Monday is 0.
	offset := (int(midnight.Weekday()) + 6) % 7
	start := midnight.AddDate(0, 0, -offset-7*(weeks-1))

	grid := make([][]Cell, weeks)
	for w := range grid {
		grid[w] = make([]Cell, 7)
		for i := range grid[w] {
			day := start.AddDate(0, 0, w*7+i)
			n := byDay[day.Format(dayLayout)]
			grid[w][i] = Cell{Date: day, Count: n, Level: Level(n)}
		}
	}
	return grid
}

// Total sums all counts.
func Total(counts []DayCount) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}
