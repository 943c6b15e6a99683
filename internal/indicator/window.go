package indicator

import "math"

// window is a fixed-size ring buffer over float64 samples with a
// running sum. Used for SMA, Bollinger and the Fibonacci range.
type window struct {
	size int
	vals []float64
	head int
	full bool
	sum  float64
}

func newWindow(size int) *window {
	return &window{size: size, vals: make([]float64, size)}
}

func (w *window) push(x float64) {
	if w.full {
		w.sum -= w.vals[w.head]
	}
	w.vals[w.head] = x
	w.sum += x
	w.head = (w.head + 1) % w.size
	if w.head == 0 && !w.full {
		w.full = true
	}
}

func (w *window) count() int {
	if w.full {
		return w.size
	}
	return w.head
}

func (w *window) mean() float64 {
	return w.sum / float64(w.count())
}

// stddev returns the sample standard deviation of the buffered values
func (w *window) stddev() float64 {
	n := w.count()
	if n < 2 {
		return 0
	}
	m := w.mean()
	var ss float64
	for i := 0; i < n; i++ {
		d := w.vals[i] - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

func (w *window) min() float64 {
	n := w.count()
	lo := w.vals[0]
	for i := 1; i < n; i++ {
		if w.vals[i] < lo {
			lo = w.vals[i]
		}
	}
	return lo
}

func (w *window) max() float64 {
	n := w.count()
	hi := w.vals[0]
	for i := 1; i < n; i++ {
		if w.vals[i] > hi {
			hi = w.vals[i]
		}
	}
	return hi
}

// ordered returns the buffered values oldest first
func (w *window) ordered() []float64 {
	n := w.count()
	out := make([]float64, 0, n)
	if w.full {
		out = append(out, w.vals[w.head:]...)
		out = append(out, w.vals[:w.head]...)
		return out
	}
	return append(out, w.vals[:n]...)
}
