package aggregate

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"stilidash/domain/core"
)

// Ratio is the share of the full table that survives the filters
type Ratio struct {
	Sampled    int     `json:"sampled"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Remaining  float64 `json:"remaining"`
}

// NewRatio computes sampled/total as a percentage. A zero total means the table is
// empty, which the panel treats as fatal.
func NewRatio(total, sampled int) (Ratio, error) {
	if total == 0 {
		return Ratio{}, fmt.Errorf("%w: sample ratio over an empty table", core.ErrDivideByZero)
	}
	if total < 0 || sampled < 0 || sampled > total {
		return Ratio{}, fmt.Errorf("%w: sampled=%d total=%d", core.ErrInvalidSample, sampled, total)
	}

	pct := float64(sampled) / float64(total) * 100
	return Ratio{
		Sampled:    sampled,
		Total:      total,
		Percentage: pct,
		Remaining:  100 - pct,
	}, nil
}

// Rounded returns the percentage rounded to one decimal
func (r Ratio) Rounded() float64 {
	rounded, err := stats.Round(r.Percentage, 1)
	if err != nil {
		return r.Percentage
	}
	return rounded
}

// Label renders the percentage shown in the middle of the donut, e.g. "60.0%"
func (r Ratio) Label() string {
	return fmt.Sprintf("%.1f%%", r.Rounded())
}
