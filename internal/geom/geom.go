// Package geom defines the boundary types exchanged with the geometry
// extraction and clash detection collaborators: world-frame points and
// bounds, tagged obstacle variants, and clash records.
//
// All coordinates are metres in a right-handed world frame with Z up.
// Payloads are validated here, at the system boundary, before they enter
// the voxel and routing packages.
package geom

import "fmt"

// Point3 is a position in world coordinates (metres).
type Point3 struct {
	X, Y, Z float64
}

// Add returns p + q component-wise.
func (p Point3) Add(q Point3) Point3 {
	return Point3{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q component-wise.
func (p Point3) Sub(q Point3) Point3 {
	return Point3{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Bounds is an axis-aligned box, typically the building envelope handed
// over by the geometry extractor.
type Bounds struct {
	Min Point3 `json:"min"`
	Max Point3 `json:"max"`
}

// Validate checks that Max strictly exceeds Min on every axis.
func (b Bounds) Validate() error {
	if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y || b.Max.Z <= b.Min.Z {
		return fmt.Errorf("degenerate bounds: min %v, max %v", b.Min, b.Max)
	}
	return nil
}

// ObstacleKind discriminates the obstacle variants.
type ObstacleKind string

const (
	// KindBox is an axis-aligned box with optional clearance.
	KindBox ObstacleKind = "box"
	// KindSweptLine is a polyline swept by a radius (existing pipe,
	// conduit, cable tray centreline).
	KindSweptLine ObstacleKind = "swept_line"
)

// ClashTag marks how an obstacle behaves when the route gets close.
type ClashTag string

const (
	// ClashNone means the obstacle only blocks voxels.
	ClashNone ClashTag = ""
	// ClashHard marks structural no-go elements (beam, column, slab).
	ClashHard ClashTag = "hard"
	// ClashSoft marks advisory clearance elements (duct, tray).
	ClashSoft ClashTag = "soft"
)

// Box is an axis-aligned obstacle. Clearance is an extra keep-out margin
// in metres applied on every face during voxelization.
type Box struct {
	Min       Point3  `json:"min"`
	Max       Point3  `json:"max"`
	Clearance float64 `json:"clearance,omitempty"`
}

// Validate checks corner ordering and a non-negative clearance.
func (b Box) Validate() error {
	if b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z {
		return fmt.Errorf("box corners out of order: min %v, max %v", b.Min, b.Max)
	}
	if b.Clearance < 0 {
		return fmt.Errorf("box clearance must be >= 0, got %g", b.Clearance)
	}
	return nil
}

// SweptLine is a polyline centreline swept by a radius, in metres.
type SweptLine struct {
	Polyline []Point3 `json:"polyline"`
	Radius   float64  `json:"radius"`
}

// Validate checks for at least two vertices and a positive radius.
func (s SweptLine) Validate() error {
	if len(s.Polyline) < 2 {
		return fmt.Errorf("swept line needs >= 2 vertices, got %d", len(s.Polyline))
	}
	if s.Radius <= 0 {
		return fmt.Errorf("swept line radius must be > 0, got %g", s.Radius)
	}
	return nil
}

// Obstacle is the tagged variant consumed from the geometry extractor.
// Exactly one of Box or SweptLine is set, selected by Kind.
type Obstacle struct {
	Kind ObstacleKind `json:"kind"`
	Tag  ClashTag     `json:"tag,omitempty"`

	Box       *Box       `json:"box,omitempty"`
	SweptLine *SweptLine `json:"swept_line,omitempty"`
}

// BoxObstacle builds a box obstacle.
func BoxObstacle(min, max Point3, clearance float64) Obstacle {
	return Obstacle{Kind: KindBox, Box: &Box{Min: min, Max: max, Clearance: clearance}}
}

// SweptLineObstacle builds a swept-line obstacle.
func SweptLineObstacle(polyline []Point3, radius float64) Obstacle {
	return Obstacle{Kind: KindSweptLine, SweptLine: &SweptLine{Polyline: polyline, Radius: radius}}
}

// Validate checks that the variant matching Kind is populated and valid.
func (o Obstacle) Validate() error {
	switch o.Kind {
	case KindBox:
		if o.Box == nil {
			return fmt.Errorf("obstacle kind %q has no box payload", o.Kind)
		}
		return o.Box.Validate()
	case KindSweptLine:
		if o.SweptLine == nil {
			return fmt.Errorf("obstacle kind %q has no swept line payload", o.Kind)
		}
		return o.SweptLine.Validate()
	default:
		return fmt.Errorf("unknown obstacle kind %q", o.Kind)
	}
}
