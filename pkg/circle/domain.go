package circle

// Domain is a coset shift + <generator(LogN)> of the circle group, i.e. a
// standard-position evaluation domain of size 2^LogN.
type Domain struct {
	LogN  int
	Shift Point
}

// New builds the domain shift + <generator(logN)>.
func New(logN int, shift Point) Domain {
	return Domain{LogN: logN, Shift: shift}
}

// Standard returns the canonical domain of size 2^logN: the coset of the
// order-2^logN subgroup shifted by a generator of order 2^(logN+1). This is
// the "standard position" domain used throughout shard commitment, chosen
// so that natural-order points pair up as y-conjugates (p_i and
// p_{n-1-i} are mutual inverses), which is what lets SymmetricEvaluate and
// SymmetricInterpolate fold the domain in half.
func Standard(logN int) Domain {
	return Domain{LogN: logN, Shift: Generator(logN + 1)}
}

// Size returns the number of points in the domain, 2^LogN.
func (d Domain) Size() int {
	return 1 << d.LogN
}

// Points enumerates the domain in natural order: shift + i*generator(LogN)
// for i = 0..Size()-1.
func (d Domain) Points() []Point {
	n := d.Size()
	out := make([]Point, n)
	gen := Generator(d.LogN)
	cur := d.Shift
	for i := 0; i < n; i++ {
		out[i] = cur
		cur = Add(cur, gen)
	}
	return out
}

// Point returns the i-th point of the domain in natural order without
// materializing the full slice.
func (d Domain) Point(i int) Point {
	gen := Generator(d.LogN)
	return Add(d.Shift, ScalarMul(gen, uint64(i)))
}
