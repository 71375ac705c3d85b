package algebra

// Elem is an element of the differential field built over the tower
// generators: level 0 is a constant, level k is a quotient of
// polynomials in generator k-1 with coefficients of lower level.
//
// Elements are immutable and kept normalized: numerator and
// denominator coprime, denominator monic, and degree-0 quotients
// demoted to their coefficient.
type Elem struct {
	level int
	con   Const // level 0 only
	num   *Poly // level > 0; vari == level-1
	den   *Poly
}

// Zero returns the zero element.
func Zero() *Elem { return &Elem{con: QInt(0)} }

// One returns the unit element.
func One() *Elem { return &Elem{con: QInt(1)} }

// IntElem returns the integer constant n as an element.
func IntElem(n int64) *Elem { return &Elem{con: QInt(n)} }

// ConstElem wraps a constant as an element.
func ConstElem(c Const) *Elem { return &Elem{con: c} }

// Gen returns generator k as an element of level k+1.
func Gen(k int) *Elem {
	return &Elem{
		level: k + 1,
		num:   NewPoly(k, Zero(), One()),
		den:   onePoly(k),
	}
}

// newElem builds and normalizes num/den at the given level.
func newElem(level int, num, den *Poly) *Elem {
	if den.IsZero() {
		panic("algebra: division by zero")
	}
	if num.IsZero() {
		return Zero()
	}
	g := GCD(num, den)
	if g.Deg() > 0 {
		num = num.ExactDiv(g)
		den = den.ExactDiv(g)
	}
	den, lc := den.Monic()
	num = num.Scale(lc.Inv())
	if den.Deg() == 0 && num.Deg() == 0 {
		return num.Coeff(0)
	}
	return &Elem{level: level, num: num, den: den}
}

// Level returns the tower level of the element.
func (e *Elem) Level() int { return e.level }

// IsZero reports whether the element is zero.
func (e *Elem) IsZero() bool { return e.level == 0 && e.con.IsZero() }

// IsOne reports whether the element is one.
func (e *Elem) IsOne() bool { return e.level == 0 && e.con.IsOne() }

// ConstVal returns the constant value of a level-0 element.
func (e *Elem) ConstVal() (Const, bool) {
	if e.level == 0 {
		return e.con, true
	}
	return Const{}, false
}

// liftTo re-expresses the element at a higher level. The result
// shares structure with e.
func (e *Elem) liftTo(level int) *Elem {
	if e.level > level {
		panic("algebra: cannot lower element level")
	}
	out := e
	for l := out.level; l < level; l++ {
		out = &Elem{
			level: l + 1,
			num:   NewPoly(l, out),
			den:   onePoly(l),
		}
	}
	return out
}

// NumDen returns the numerator and denominator of the element viewed
// at the given level. The denominator is monic.
func (e *Elem) NumDen(level int) (*Poly, *Poly) {
	lifted := e.liftTo(level)
	return lifted.num, lifted.den
}

// AsPoly returns the element as a polynomial in generator vari when
// its denominator is free of that generator.
func (e *Elem) AsPoly(vari int) (*Poly, bool) {
	if e.level > vari+1 {
		return nil, false
	}
	lifted := e.liftTo(vari + 1)
	if lifted.den.Deg() > 0 {
		return nil, false
	}
	// Monic degree-0 denominator is the unit.
	return lifted.num, true
}

// Add returns e + o.
func (e *Elem) Add(o *Elem) *Elem {
	if e.level == 0 && o.level == 0 {
		return ConstElem(e.con.Add(o.con))
	}
	l := e.level
	if o.level > l {
		l = o.level
	}
	a, b := e.liftTo(l), o.liftTo(l)
	num := a.num.Mul(b.den).Add(b.num.Mul(a.den))
	return newElem(l, num, a.den.Mul(b.den))
}

// Sub returns e - o.
func (e *Elem) Sub(o *Elem) *Elem { return e.Add(o.Neg()) }

// Neg returns -e.
func (e *Elem) Neg() *Elem {
	if e.level == 0 {
		return ConstElem(e.con.Neg())
	}
	return &Elem{level: e.level, num: e.num.Neg(), den: e.den}
}

// Mul returns e * o.
func (e *Elem) Mul(o *Elem) *Elem {
	if e.level == 0 && o.level == 0 {
		return ConstElem(e.con.Mul(o.con))
	}
	l := e.level
	if o.level > l {
		l = o.level
	}
	a, b := e.liftTo(l), o.liftTo(l)
	return newElem(l, a.num.Mul(b.num), a.den.Mul(b.den))
}

// Div returns e / o.
func (e *Elem) Div(o *Elem) *Elem { return e.Mul(o.Inv()) }

// Inv returns 1/e. It panics on zero.
func (e *Elem) Inv() *Elem {
	if e.level == 0 {
		return ConstElem(e.con.Inv())
	}
	return newElem(e.level, e.den, e.num)
}

// ScaleC returns c * e.
func (e *Elem) ScaleC(c Const) *Elem { return e.Mul(ConstElem(c)) }

// PowInt returns e^k for any integer k.
func (e *Elem) PowInt(k int) *Elem {
	if k < 0 {
		return e.Inv().PowInt(-k)
	}
	out := One()
	for i := 0; i < k; i++ {
		out = out.Mul(e)
	}
	return out
}

// Equal reports exact equality.
func (e *Elem) Equal(o *Elem) bool { return e.Sub(o).IsZero() }

// Conj applies algebraic conjugation to every constant in the element.
func (e *Elem) Conj() *Elem {
	if e.level == 0 {
		return ConstElem(e.con.Conj())
	}
	return newElem(e.level, e.num.Conj(), e.den.Conj())
}

// Weight is a rough size measure: the number of constant leaves. It
// bounds fixed-point iterations in the exponential case.
func (e *Elem) Weight() int {
	if e.level == 0 {
		return 1
	}
	w := 0
	for i := 0; i <= e.num.Deg(); i++ {
		w += e.num.Coeff(i).Weight()
	}
	for i := 0; i <= e.den.Deg(); i++ {
		w += e.den.Coeff(i).Weight()
	}
	return w
}

func (e *Elem) String() string {
	if e.level == 0 {
		return e.con.String()
	}
	if e.den.Deg() == 0 {
		return e.num.String()
	}
	return "(" + e.num.String() + ")/(" + e.den.String() + ")"
}
