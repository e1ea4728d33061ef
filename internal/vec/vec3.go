package vec

import "math"

// Vec3 is a point or direction in 3D space. Rotation and interpolation
// mutate the receiver and return it so calls can be chained.
type Vec3 struct {
	X, Y, Z float64
}

func New(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64      { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) IsZero() bool         { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// DistanceSquared avoids the square root for convergence tests.
func (v Vec3) DistanceSquared(o Vec3) float64 {
	dx, dy, dz := v.X-o.X, v.Y-o.Y, v.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// Lerp moves v by t of the way towards o. The weighted form is exact at
// t == 0 and t == 1.
func (v *Vec3) Lerp(o Vec3, t float64) *Vec3 {
	u := 1 - t
	v.X = v.X*u + o.X*t
	v.Y = v.Y*u + o.Y*t
	v.Z = v.Z*u + o.Z*t
	return v
}

// RotateX rotates about the X axis by deg degrees.
func (v *Vec3) RotateX(deg float64) *Vec3 {
	if deg == 0 {
		return v
	}
	s, c := SinCos(deg)
	v.Y, v.Z = v.Y*c-v.Z*s, v.Y*s+v.Z*c
	return v
}

// RotateY rotates about the Y axis by deg degrees.
func (v *Vec3) RotateY(deg float64) *Vec3 {
	if deg == 0 {
		return v
	}
	s, c := SinCos(deg)
	v.X, v.Z = v.X*c-v.Z*s, v.X*s+v.Z*c
	return v
}

// RotateZ rotates about the Z axis by deg degrees.
func (v *Vec3) RotateZ(deg float64) *Vec3 {
	if deg == 0 {
		return v
	}
	s, c := SinCos(deg)
	v.X, v.Y = v.X*c-v.Y*s, v.X*s+v.Y*c
	return v
}

// Rotate applies X, Y then Z rotations using the components of r as angles.
func (v *Vec3) Rotate(r Vec3) *Vec3 {
	return v.RotateX(r.X).RotateY(r.Y).RotateZ(r.Z)
}

// RotateTable is Rotate with sin/cos taken from a lookup table.
func (v *Vec3) RotateTable(t *TrigTable, r Vec3) *Vec3 {
	if r.X != 0 {
		s, c := t.SinCos(r.X)
		v.Y, v.Z = v.Y*c-v.Z*s, v.Y*s+v.Z*c
	}
	if r.Y != 0 {
		s, c := t.SinCos(r.Y)
		v.X, v.Z = v.X*c-v.Z*s, v.X*s+v.Z*c
	}
	if r.Z != 0 {
		s, c := t.SinCos(r.Z)
		v.X, v.Y = v.X*c-v.Y*s, v.X*s+v.Y*c
	}
	return v
}

// IsValid reports whether every component is finite.
func (v Vec3) IsValid() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
