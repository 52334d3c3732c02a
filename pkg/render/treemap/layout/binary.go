package layout

// Binary partitions r among weights by recursive balanced bisection and
// returns one rectangle per weight, in input order.
//
// Weights should be non-negative. The rectangles are disjoint, lie inside
// r, and each partition's area is proportional to its share of the total.
func Binary(weights []float64, r Rect) []Rect {
	n := len(weights)
	if n == 0 {
		return nil
	}
	out := make([]Rect, n)
	sums := make([]float64, n+1)
	for i, w := range weights {
		sums[i+1] = sums[i] + w
	}
	b := bisector{sums: sums, out: out}
	b.partition(0, n, sums[n], r)
	return out
}

type bisector struct {
	sums []float64 // prefix sums, sums[i] is the weight of items [0, i)
	out  []Rect
}

// partition lays out items [i, j) carrying total weight value inside r.
func (b *bisector) partition(i, j int, value float64, r Rect) {
	if i >= j-1 {
		b.out[i] = r
		return
	}
	if value <= 0 {
		origin := Rect{X0: r.X0, Y0: r.Y0, X1: r.X0, Y1: r.Y0}
		for k := i; k < j; k++ {
			b.out[k] = origin
		}
		return
	}

	k := b.split(i, j, value)
	left := b.sums[k] - b.sums[i]
	right := value - left

	if r.Width() > r.Height() {
		xk := (r.X0*right + r.X1*left) / value
		b.partition(i, k, left, Rect{X0: r.X0, Y0: r.Y0, X1: xk, Y1: r.Y1})
		b.partition(k, j, right, Rect{X0: xk, Y0: r.Y0, X1: r.X1, Y1: r.Y1})
		return
	}
	yk := (r.Y0*right + r.Y1*left) / value
	b.partition(i, k, left, Rect{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: yk})
	b.partition(k, j, right, Rect{X0: r.X0, Y0: yk, X1: r.X1, Y1: r.Y1})
}

// split returns k in (i, j) such that items [i, k) and [k, j) are as close
// to equal weight as possible. On a tie the later k wins.
func (b *bisector) split(i, j int, value float64) int {
	target := b.sums[i] + value/2
	k, hi := i+1, j-1
	for k < hi {
		mid := int(uint(k+hi) >> 1)
		if b.sums[mid] < target {
			k = mid + 1
		} else {
			hi = mid
		}
	}
	if target-b.sums[k-1] < b.sums[k]-target && i+1 < k {
		k--
	}
	return k
}
