package vec

import (
	"math"
	"testing"
)

func TestSinCos_QuarterTurnsExact(t *testing.T) {
	tests := []struct {
		deg      float64
		sin, cos float64
	}{
		{0, 0, 1},
		{90, 1, 0},
		{180, 0, -1},
		{270, -1, 0},
		{360, 0, 1},
		{-90, -1, 0},
		{450, 1, 0},
	}

	for _, tt := range tests {
		s, c := SinCos(tt.deg)
		if s != tt.sin || c != tt.cos {
			t.Errorf("SinCos(%v) = (%v, %v), want (%v, %v)", tt.deg, s, c, tt.sin, tt.cos)
		}
	}
}

func TestSinCos_MatchesMath(t *testing.T) {
	for deg := -720.0; deg <= 720; deg += 7.3 {
		s, c := SinCos(deg)
		if math.Abs(s-math.Sin(deg*math.Pi/180)) > 1e-9 {
			t.Errorf("Sin(%v) = %v", deg, s)
		}
		if math.Abs(c-math.Cos(deg*math.Pi/180)) > 1e-9 {
			t.Errorf("Cos(%v) = %v", deg, c)
		}
	}
}

func TestTrigTable_Accuracy(t *testing.T) {
	tbl := NewTrigTable(4096)
	for deg := -400.0; deg < 400; deg += 3.7 {
		s, c := tbl.SinCos(deg)
		ws, wc := SinCos(deg)
		if math.Abs(s-ws) > 1e-5 || math.Abs(c-wc) > 1e-5 {
			t.Errorf("table SinCos(%v) = (%v, %v), want (%v, %v)", deg, s, c, ws, wc)
		}
	}
}

func TestRotateTable_CloseToExact(t *testing.T) {
	a := Vec3{10, 20, 30}
	b := a
	r := Vec3{1, -1, 0.4}
	for i := 0; i < 100; i++ {
		a.Rotate(r)
		b.RotateTable(DefaultTrigTable, r)
	}
	if !near(a, b, 1e-2) {
		t.Errorf("table rotation drifted: %v vs %v", a, b)
	}
}
