package geo

import (
	"math"
	"testing"
)

func TestDistance(t *testing.T) {
	// Paris to London is roughly 344 km.
	d := Distance(48.8566, 2.3522, 51.5074, -0.1278)
	if d < 330 || d > 360 {
		t.Errorf("Paris-London distance = %f, want ~344", d)
	}

	if d := Distance(40.0, -74.0, 40.0, -74.0); d != 0 {
		t.Errorf("zero distance = %f, want 0", d)
	}

	// Symmetry.
	a := Distance(10, 20, 30, 40)
	b := Distance(30, 40, 10, 20)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestRound1(t *testing.T) {
	if got := Round1(3.14159); got != 3.1 {
		t.Errorf("Round1(3.14159) = %f, want 3.1", got)
	}
	if got := Round1(2.75); got != 2.8 {
		t.Errorf("Round1(2.75) = %f, want 2.8", got)
	}
}
