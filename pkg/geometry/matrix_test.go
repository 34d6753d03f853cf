package geometry

import (
	"math"
	"testing"
)

func vectorsClose(a, b Vector3) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9 && math.Abs(a.Z-b.Z) < 1e-9
}

func TestIdentityTransformPoint(t *testing.T) {
	p := NewVector3(1, 2, 3)
	if got := Identity().TransformPoint(p); got != p {
		t.Errorf("Identity failed: expected %v, got %v", p, got)
	}
}

func TestComposeTRSRotation(t *testing.T) {
	// 90 degrees around Z maps +X to +Y
	half := math.Sqrt(0.5)
	m := ComposeTRS(Vector3{}, [4]float64{0, 0, half, half}, NewVector3(1, 1, 1))

	got := m.TransformPoint(NewVector3(1, 0, 0))
	if !vectorsClose(got, NewVector3(0, 1, 0)) {
		t.Errorf("Rotation failed: expected (0,1,0), got %v", got)
	}
}

func TestMatrixMulOrder(t *testing.T) {
	translate := ComposeTRS(NewVector3(5, 0, 0), [4]float64{0, 0, 0, 1}, NewVector3(1, 1, 1))
	scale := ComposeTRS(Vector3{}, [4]float64{0, 0, 0, 1}, NewVector3(2, 2, 2))

	// scale first, then translate
	got := translate.Mul(scale).TransformPoint(NewVector3(1, 0, 0))
	if !vectorsClose(got, NewVector3(7, 0, 0)) {
		t.Errorf("Mul failed: expected (7,0,0), got %v", got)
	}
}

func TestMatrixIsZero(t *testing.T) {
	if !(Matrix4{}).IsZero() {
		t.Error("zero matrix should report IsZero")
	}
	if Identity().IsZero() {
		t.Error("identity should not report IsZero")
	}
}
