// Package aggregate turns filtered views into plottable numbers.
package aggregate

import (
	"sort"

	"github.com/montanaflynn/stats"

	"stilidash/domain/survey"
)

// Bucket is one category of a frequency series
type Bucket struct {
	Category survey.Value `json:"category"`
	Count    int          `json:"count"`
}

// Series is a frequency series ordered by ascending count
type Series []Bucket

// GroupCount counts the rows of view per distinct value of metric. Rows with a missing
// metric value are left out. Buckets are ordered by count, ties by category.
func GroupCount(view survey.View, metric string) Series {
	counts := make(map[survey.Value]int)
	view.Each(metric, func(v survey.Value) {
		counts[v]++
	})

	series := make(Series, 0, len(counts))
	for category, count := range counts {
		if count == 0 {
			continue
		}
		series = append(series, Bucket{Category: category, Count: count})
	}

	sort.Slice(series, func(i, j int) bool {
		if series[i].Count != series[j].Count {
			return series[i].Count < series[j].Count
		}
		return survey.Less(series[i].Category, series[j].Category)
	})
	return series
}

// Total returns the sum of all bucket counts
func (s Series) Total() int {
	if len(s) == 0 {
		return 0
	}
	total, err := stats.Sum(stats.LoadRawData(s.Counts()))
	if err != nil {
		return 0
	}
	return int(total)
}

// Labels returns the categories in series order
func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, b := range s {
		out[i] = string(b.Category)
	}
	return out
}

// Counts returns the counts in series order
func (s Series) Counts() []int {
	out := make([]int, len(s))
	for i, b := range s {
		out[i] = b.Count
	}
	return out
}

// Max returns the largest count, 0 for an empty series
func (s Series) Max() int {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1].Count
}
