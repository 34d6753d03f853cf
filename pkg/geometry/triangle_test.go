package geometry

import (
	"math"
	"testing"
)

func TestTriangleArea(t *testing.T) {
	// Create a right triangle with sides 3, 4, 5
	tri := NewTriangle(
		NewVector3(0, 0, 1),
		NewVector3(0, 0, 0),
		NewVector3(3, 0, 0),
		NewVector3(0, 4, 0),
	)

	area := tri.Area()
	expected := 6.0 // (3 * 4) / 2 = 6

	if math.Abs(area-expected) > 1e-10 {
		t.Errorf("Area failed: expected %v, got %v", expected, area)
	}
}

func TestTriangleCalculateNormal(t *testing.T) {
	tri := NewTriangle(
		Vector3{},
		NewVector3(0, 0, 0),
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
	)

	normal := tri.CalculateNormal()
	expected := NewVector3(0, 0, 1)

	if normal != expected {
		t.Errorf("CalculateNormal failed: expected %v, got %v", expected, normal)
	}
}

func TestTriangleSignedVolume(t *testing.T) {
	// Tetrahedron with the origin and the three unit axes has volume 1/6
	tri := NewTriangle(
		Vector3{},
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
		NewVector3(0, 0, 1),
	)

	if v := tri.SignedVolume(); math.Abs(v-1.0/6.0) > 1e-12 {
		t.Errorf("SignedVolume failed: expected %v, got %v", 1.0/6.0, v)
	}

	flipped := NewTriangle(Vector3{}, tri.V1, tri.V3, tri.V2)
	if v := flipped.SignedVolume(); math.Abs(v+1.0/6.0) > 1e-12 {
		t.Errorf("SignedVolume of flipped winding failed: expected %v, got %v", -1.0/6.0, v)
	}
}

func TestTriangleTransform(t *testing.T) {
	tri := NewTriangle(
		Vector3{},
		NewVector3(0, 0, 0),
		NewVector3(1, 0, 0),
		NewVector3(0, 1, 0),
	)

	moved := tri.Transform(ComposeTRS(NewVector3(10, 0, 0), [4]float64{0, 0, 0, 1}, NewVector3(2, 2, 2)))

	if moved.V2 != NewVector3(12, 0, 0) {
		t.Errorf("Transform failed: expected V2 (12,0,0), got %v", moved.V2)
	}
	if math.Abs(moved.Area()-2.0) > 1e-10 {
		t.Errorf("Transform should scale area by 4: got %v", moved.Area())
	}
	if moved.Normal != NewVector3(0, 0, 1) {
		t.Errorf("Transform should recompute normal, got %v", moved.Normal)
	}
}
