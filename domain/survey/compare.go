package survey

import "strconv"

// Less orders values numerically when both parse as numbers and lexically otherwise.
// Numbers sort before text so mixed columns still have a total order.
func Less(a, b Value) bool {
	fa, errA := strconv.ParseFloat(string(a), 64)
	fb, errB := strconv.ParseFloat(string(b), 64)
	switch {
	case errA == nil && errB == nil:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
