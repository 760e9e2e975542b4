package geom

import "testing"

func TestBoundsValidate(t *testing.T) {
	good := Bounds{Min: Point3{0, 0, 0}, Max: Point3{10, 8, 3}}
	if err := good.Validate(); err != nil {
		t.Errorf("valid bounds rejected: %v", err)
	}

	flat := Bounds{Min: Point3{0, 0, 0}, Max: Point3{10, 8, 0}}
	if err := flat.Validate(); err == nil {
		t.Error("flat bounds accepted")
	}

	inverted := Bounds{Min: Point3{5, 0, 0}, Max: Point3{1, 8, 3}}
	if err := inverted.Validate(); err == nil {
		t.Error("inverted bounds accepted")
	}
}

func TestObstacleValidate_Box(t *testing.T) {
	ob := BoxObstacle(Point3{0, 0, 0}, Point3{1, 1, 1}, 0.1)
	if err := ob.Validate(); err != nil {
		t.Errorf("valid box rejected: %v", err)
	}

	bad := BoxObstacle(Point3{2, 0, 0}, Point3{1, 1, 1}, 0)
	if err := bad.Validate(); err == nil {
		t.Error("out-of-order box corners accepted")
	}

	negClear := BoxObstacle(Point3{0, 0, 0}, Point3{1, 1, 1}, -0.5)
	if err := negClear.Validate(); err == nil {
		t.Error("negative clearance accepted")
	}
}

func TestObstacleValidate_SweptLine(t *testing.T) {
	ob := SweptLineObstacle([]Point3{{0, 0, 0}, {5, 0, 0}}, 0.1)
	if err := ob.Validate(); err != nil {
		t.Errorf("valid swept line rejected: %v", err)
	}

	short := SweptLineObstacle([]Point3{{0, 0, 0}}, 0.1)
	if err := short.Validate(); err == nil {
		t.Error("single-vertex polyline accepted")
	}

	zeroRadius := SweptLineObstacle([]Point3{{0, 0, 0}, {5, 0, 0}}, 0)
	if err := zeroRadius.Validate(); err == nil {
		t.Error("zero radius accepted")
	}
}

func TestObstacleValidate_MismatchedVariant(t *testing.T) {
	ob := Obstacle{Kind: KindBox} // no payload
	if err := ob.Validate(); err == nil {
		t.Error("box kind without payload accepted")
	}

	unknown := Obstacle{Kind: "sphere"}
	if err := unknown.Validate(); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestClashIsBlocking(t *testing.T) {
	cases := []struct {
		name  string
		clash Clash
		want  bool
	}{
		{"critical severity", Clash{Severity: SeverityCritical, Type: "duct"}, true},
		{"high severity", Clash{Severity: SeverityHigh, Type: "duct"}, true},
		{"structural beam", Clash{Severity: SeverityLow, Type: "steel Beam flange"}, true},
		{"structural column", Clash{Severity: SeverityMedium, Type: "concrete COLUMN"}, true},
		{"structural slab", Clash{Severity: SeverityLow, Type: "floor slab"}, true},
		{"soft duct", Clash{Severity: SeverityLow, Type: "supply duct"}, false},
		{"soft tray", Clash{Severity: SeverityMedium, Type: "cable tray"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.clash.IsBlocking(); got != tc.want {
				t.Errorf("IsBlocking(%+v) = %v, want %v", tc.clash, got, tc.want)
			}
		})
	}
}
