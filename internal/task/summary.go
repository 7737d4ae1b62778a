package task

import (
	"math"
	"sort"
	"time"
)

// Summary holds the dashboard's headline metrics for a (filtered) table.
type Summary struct {
	Count         int
	PriorityAvg   int
	ComplexityAvg int
	HasComplexity bool // false when no row has a complexity value
	DelayedCount  int
}

// Summarize computes the headline metrics. Averages are rounded to the
// nearest integer; the complexity average covers non-null values only.
func Summarize(t Table) Summary {
	s := Summary{Count: len(t)}
	if len(t) == 0 {
		return s
	}

	prioritySum := 0
	complexitySum := 0.0
	complexityN := 0
	for i := range t {
		prioritySum += t[i].Priority
		if t[i].Complexity != nil {
			complexitySum += *t[i].Complexity
			complexityN++
		}
		if t[i].Delayed {
			s.DelayedCount++
		}
	}

	s.PriorityAvg = int(math.Round(float64(prioritySum) / float64(len(t))))
	if complexityN > 0 {
		s.HasComplexity = true
		s.ComplexityAvg = int(math.Round(complexitySum / float64(complexityN)))
	}
	return s
}

// DueCount is the number of rows sharing one due date.
type DueCount struct {
	Date  time.Time
	Count int
}

// DueCounts returns row counts per due date in date-ascending order.
// Rows without a due date are skipped.
func DueCounts(t Table) []DueCount {
	byDate := make(map[time.Time]int)
	for i := range t {
		if t[i].Due == nil {
			continue
		}
		byDate[Date(*t[i].Due)]++
	}

	counts := make([]DueCount, 0, len(byDate))
	for date, n := range byDate {
		counts = append(counts, DueCount{Date: date, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Date.Before(counts[j].Date)
	})
	return counts
}
