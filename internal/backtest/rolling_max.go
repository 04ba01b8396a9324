package backtest

type windowEntry struct {
	index int
	value float64
}

// RollingMax tracks the maximum of the last `window` values pushed, using a
// monotonic deque. Until `window` values have been pushed the maximum covers
// everything seen so far.
type RollingMax struct {
	window int
	count  int
	deque  []windowEntry // values strictly decreasing from head to back
	head   int
}

// NewRollingMax creates a sliding-window maximum over `window` observations
func NewRollingMax(window int) *RollingMax {
	if window < 1 {
		window = 1
	}
	return &RollingMax{window: window}
}

// Push adds the next value and returns the maximum of the current window
func (r *RollingMax) Push(v float64) float64 {
	i := r.count
	r.count++

	for len(r.deque) > r.head && r.deque[len(r.deque)-1].value <= v {
		r.deque = r.deque[:len(r.deque)-1]
	}
	r.deque = append(r.deque, windowEntry{index: i, value: v})

	for r.deque[r.head].index <= i-r.window {
		r.head++
	}

	// compact once the consumed prefix dominates
	if r.head > 64 && r.head*2 > len(r.deque) {
		n := copy(r.deque, r.deque[r.head:])
		r.deque = r.deque[:n]
		r.head = 0
	}

	return r.deque[r.head].value
}

// RollingMaxSeries returns, for every position, the maximum of values over the
// trailing window ending at that position.
func RollingMaxSeries(values []float64, window int) []float64 {
	rm := NewRollingMax(window)
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = rm.Push(v)
	}
	return out
}
