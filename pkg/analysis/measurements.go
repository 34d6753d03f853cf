// Package analysis computes the geometric metadata sent alongside the
// rendered views: per-body extents, volume, area and triangle counts plus
// their totals.
package analysis

import (
	"fmt"

	"github.com/philipparndt/cadquote/pkg/loader"
	"github.com/philipparndt/cadquote/pkg/mesh"
)

// UnknownUnits is reported because files carry no reliable unit information
const UnknownUnits = "unknown"

// BodyMetadata describes one body of a model
type BodyMetadata struct {
	Name           string     `json:"name"`
	DimensionsMM   [3]float64 `json:"dimensions_mm"`
	VolumeMM3      float64    `json:"volume_mm3"`
	SurfaceAreaMM2 float64    `json:"surface_area_mm2"`
	Triangles      int        `json:"triangles"`
}

// Metadata aggregates the bodies of a model
type Metadata struct {
	Units               string         `json:"units"`
	BodyCount           int            `json:"body_count"`
	OverallDimensionsMM [3]float64     `json:"overall_dimensions_mm"`
	TotalVolumeMM3      float64        `json:"total_volume_mm3"`
	TotalSurfaceAreaMM2 float64        `json:"total_surface_area_mm2"`
	TotalTriangles      int            `json:"total_triangles"`
	Bodies              []BodyMetadata `json:"bodies"`
}

// ExtractMetadata loads path and measures it
func ExtractMetadata(path string) (*Metadata, error) {
	model, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	return Analyze(model)
}

// Analyze measures an already loaded model
func Analyze(model loader.Model) (*Metadata, error) {
	switch model.Kind {
	case loader.KindSingle:
		return analyzeSingle(model.Mesh), nil
	case loader.KindScene:
		return analyzeScene(model.Scene), nil
	default:
		return nil, fmt.Errorf("unknown model kind %v", model.Kind)
	}
}

// MeasureBody computes the metadata of a single mesh under the given name
func MeasureBody(name string, m *mesh.Mesh) BodyMetadata {
	volume, _ := m.Volume()
	return BodyMetadata{
		Name:           name,
		DimensionsMM:   m.Extents().Array(),
		VolumeMM3:      volume,
		SurfaceAreaMM2: m.SurfaceArea(),
		Triangles:      m.TriangleCount(),
	}
}

func analyzeSingle(m *mesh.Mesh) *Metadata {
	body := MeasureBody("body_0", m)
	return &Metadata{
		Units:               UnknownUnits,
		BodyCount:           1,
		OverallDimensionsMM: body.DimensionsMM,
		TotalVolumeMM3:      body.VolumeMM3,
		TotalSurfaceAreaMM2: body.SurfaceAreaMM2,
		TotalTriangles:      body.Triangles,
		Bodies:              []BodyMetadata{body},
	}
}

func analyzeScene(s *mesh.Scene) *Metadata {
	result := &Metadata{
		Units:  UnknownUnits,
		Bodies: make([]BodyMetadata, 0, len(s.Geometries)),
	}

	for _, g := range s.Geometries {
		if g.Mesh == nil || g.Mesh.TriangleCount() == 0 {
			continue
		}
		body := MeasureBody(g.Name, g.Mesh)
		result.TotalVolumeMM3 += body.VolumeMM3
		result.TotalSurfaceAreaMM2 += body.SurfaceAreaMM2
		result.TotalTriangles += body.Triangles
		result.Bodies = append(result.Bodies, body)
	}
	result.BodyCount = len(result.Bodies)

	// an empty scene has no bounds and reports a degenerate zero box
	if bounds, ok := s.Bounds(); ok {
		result.OverallDimensionsMM = bounds.Size().Array()
	}

	return result
}
