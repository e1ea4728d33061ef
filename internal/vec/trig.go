package vec

import "math"

const degToRad = math.Pi / 180

// Sin returns the sine of an angle in degrees.
func Sin(deg float64) float64 {
	s, _ := SinCos(deg)
	return s
}

// Cos returns the cosine of an angle in degrees.
func Cos(deg float64) float64 {
	_, c := SinCos(deg)
	return c
}

// SinCos returns sine and cosine of an angle in degrees.
// Quarter turns are exact so repeated right-angle rotations close up.
func SinCos(deg float64) (sin, cos float64) {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	switch a {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(a * degToRad)
}

// TrigTable provides precomputed sin/cos values indexed by degrees.
// Uses linear interpolation for values between table entries.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// 4096 entries over a full turn, ~0.09 degree resolution
var DefaultTrigTable = NewTrigTable(4096)

func NewTrigTable(n int) *TrigTable {
	if n < 4 {
		n = 4
	}
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}
	for i := 0; i < n; i++ {
		t.sin[i], t.cos[i] = SinCos(float64(i) * 360 / float64(n))
	}
	return t
}

func (t *TrigTable) SinCos(deg float64) (sin, cos float64) {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}

	idx := a * float64(t.n) / 360
	i := int(idx)
	frac := idx - float64(i)

	i0 := i % t.n
	i1 := (i + 1) % t.n

	sin = t.sin[i0]*(1-frac) + t.sin[i1]*frac
	cos = t.cos[i0]*(1-frac) + t.cos[i1]*frac
	return
}
