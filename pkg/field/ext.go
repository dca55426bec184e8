package field

// Binomial extensions F[u]/(u^d - w) of the base field, used for values
// that must live outside F to avoid soundness loss on a 31-bit field: Ext3
// is the Fiat-Shamir challenge field E = F^3 of §3/§4.3, Ext4 is the
// quartic extension F^4 used for "random" values per §4.1.
//
// W is the binomial non-residue shared by both extensions. Its exact value
// is an implementation choice (spec.md leaves the precise extension
// construction to the implementer); see DESIGN.md.
const W uint32 = 5

// Ext3 is an element of E = F[u]/(u^3 - W).
type Ext3 [3]Elem

// Ext4 is an element of F^4 = F[u]/(u^4 - W).
type Ext4 [4]Elem

// Ext3FromBase embeds a base field element as a constant extension element.
func Ext3FromBase(e Elem) Ext3 {
	return Ext3{e, Zero, Zero}
}

// Ext4FromBase embeds a base field element as a constant extension element.
func Ext4FromBase(e Elem) Ext4 {
	return Ext4{e, Zero, Zero, Zero}
}

// Zero3 is the additive identity of Ext3.
var Zero3 = Ext3{Zero, Zero, Zero}

// One3 is the multiplicative identity of Ext3.
var One3 = Ext3FromBase(One)

// Zero4 is the additive identity of Ext4.
var Zero4 = Ext4{Zero, Zero, Zero, Zero}

// One4 is the multiplicative identity of Ext4.
var One4 = Ext4FromBase(One)

func (a Ext3) Add(b Ext3) Ext3 {
	return Ext3{a[0].Add(b[0]), a[1].Add(b[1]), a[2].Add(b[2])}
}

func (a Ext3) Sub(b Ext3) Ext3 {
	return Ext3{a[0].Sub(b[0]), a[1].Sub(b[1]), a[2].Sub(b[2])}
}

func (a Ext3) Neg() Ext3 {
	return Zero3.Sub(a)
}

func (a Ext3) IsZero() bool {
	return a[0].IsZero() && a[1].IsZero() && a[2].IsZero()
}

func (a Ext3) Equal(b Ext3) bool {
	return a[0].Equal(b[0]) && a[1].Equal(b[1]) && a[2].Equal(b[2])
}

// Mul multiplies two degree-3 binomial-extension elements modulo u^3 - W.
func (a Ext3) Mul(b Ext3) Ext3 {
	w := New(W)
	var prod [5]Elem
	for i := 0; i < 3; i++ {
		if a[i].IsZero() {
			continue
		}
		for j := 0; j < 3; j++ {
			prod[i+j] = prod[i+j].Add(a[i].Mul(b[j]))
		}
	}
	// reduce u^3 = W, u^4 = W*u
	out := [3]Elem{prod[0], prod[1], prod[2]}
	out[0] = out[0].Add(prod[3].Mul(w))
	out[1] = out[1].Add(prod[4].Mul(w))
	return Ext3(out)
}

func (a Ext3) MulBase(s Elem) Ext3 {
	return Ext3{a[0].Mul(s), a[1].Mul(s), a[2].Mul(s)}
}

func (a Ext3) Square() Ext3 {
	return a.Mul(a)
}

// Inverse returns a^-1 by inverting the 3x3 matrix of left-multiplication
// by a acting on the basis {1, u, u^2}, then reading off the coordinates
// that multiply a back to 1. Panics if a is zero.
func (a Ext3) Inverse() Ext3 {
	if a.IsZero() {
		panic("field: inverse of zero extension element")
	}
	values := make([]Elem, 9)
	for j := 0; j < 3; j++ {
		var basis Ext3
		basis[j] = One
		col := a.Mul(basis)
		for i := 0; i < 3; i++ {
			values[i*3+j] = col[i]
		}
	}
	m := NewMatrix(values, 3)
	inv, err := InvertMatrix(m)
	if err != nil {
		panic(err)
	}
	// Solve M * v = e0: v is column 0 of inv.
	return Ext3{inv.Get(0, 0), inv.Get(1, 0), inv.Get(2, 0)}
}

func (a Ext4) Add(b Ext4) Ext4 {
	return Ext4{a[0].Add(b[0]), a[1].Add(b[1]), a[2].Add(b[2]), a[3].Add(b[3])}
}

func (a Ext4) Sub(b Ext4) Ext4 {
	return Ext4{a[0].Sub(b[0]), a[1].Sub(b[1]), a[2].Sub(b[2]), a[3].Sub(b[3])}
}

func (a Ext4) Neg() Ext4 {
	return Zero4.Sub(a)
}

func (a Ext4) IsZero() bool {
	return a[0].IsZero() && a[1].IsZero() && a[2].IsZero() && a[3].IsZero()
}

func (a Ext4) Equal(b Ext4) bool {
	return a[0].Equal(b[0]) && a[1].Equal(b[1]) && a[2].Equal(b[2]) && a[3].Equal(b[3])
}

// Mul multiplies two degree-4 binomial-extension elements modulo u^4 - W.
func (a Ext4) Mul(b Ext4) Ext4 {
	w := New(W)
	var prod [7]Elem
	for i := 0; i < 4; i++ {
		if a[i].IsZero() {
			continue
		}
		for j := 0; j < 4; j++ {
			prod[i+j] = prod[i+j].Add(a[i].Mul(b[j]))
		}
	}
	out := [4]Elem{prod[0], prod[1], prod[2], prod[3]}
	out[0] = out[0].Add(prod[4].Mul(w))
	out[1] = out[1].Add(prod[5].Mul(w))
	out[2] = out[2].Add(prod[6].Mul(w))
	return Ext4(out)
}

func (a Ext4) MulBase(s Elem) Ext4 {
	return Ext4{a[0].Mul(s), a[1].Mul(s), a[2].Mul(s), a[3].Mul(s)}
}

func (a Ext4) Square() Ext4 {
	return a.Mul(a)
}

// Inverse returns a^-1, see Ext3.Inverse for the method.
func (a Ext4) Inverse() Ext4 {
	if a.IsZero() {
		panic("field: inverse of zero extension element")
	}
	values := make([]Elem, 16)
	for j := 0; j < 4; j++ {
		var basis Ext4
		basis[j] = One
		col := a.Mul(basis)
		for i := 0; i < 4; i++ {
			values[i*4+j] = col[i]
		}
	}
	m := NewMatrix(values, 4)
	inv, err := InvertMatrix(m)
	if err != nil {
		panic(err)
	}
	return Ext4{inv.Get(0, 0), inv.Get(1, 0), inv.Get(2, 0), inv.Get(3, 0)}
}
