package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 640, 360)

	if cam.X != 320 || cam.Y != 180 {
		t.Errorf("expected camera at (320, 180), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestFullViewAtDefaultZoom(t *testing.T) {
	cam := New(1280, 720, 640, 360)

	x, y, w, h := cam.View()
	if x != 0 || y != 0 || w != 640 || h != 360 {
		t.Errorf("expected view (0,0,640,360), got (%f,%f,%f,%f)", x, y, w, h)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 640, 360)
	cam.SetZoom(3)
	cam.Pan(200, 120)

	testCases := []struct{ sx, sy float32 }{
		{640, 360},  // center
		{100, 100},  // top-left
		{1200, 600}, // near bottom-right
	}

	for _, tc := range testCases {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanClampsToBounds(t *testing.T) {
	cam := New(1280, 720, 640, 360)
	cam.SetZoom(2)

	// Pan far past the left/top corner.
	cam.Pan(-1e6, -1e6)
	x, y, _, _ := cam.View()
	if x != 0 || y != 0 {
		t.Errorf("expected view clamped to origin, got (%f, %f)", x, y)
	}

	// And far past the bottom/right corner.
	cam.Pan(1e6, 1e6)
	x, y, w, h := cam.View()
	if x+w != 640 || y+h != 360 {
		t.Errorf("expected view clamped to far corner, got (%f,%f,%f,%f)", x, y, w, h)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(1280, 720, 640, 360)

	cam.SetZoom(0.1)
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MinZoom, cam.Zoom)
	}
	cam.SetZoom(100)
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	cam := New(1280, 720, 640, 360)
	cam.SetZoom(2)

	// A point away from the center must stay put under the cursor.
	const sx, sy = 900, 500
	wx, wy := cam.ScreenToWorld(sx, sy)
	cam.ZoomAt(sx, sy, 2)
	nwx, nwy := cam.ScreenToWorld(sx, sy)

	if math.Abs(float64(nwx-wx)) > 0.01 || math.Abs(float64(nwy-wy)) > 0.01 {
		t.Errorf("anchor drifted: (%f,%f) -> (%f,%f)", wx, wy, nwx, nwy)
	}
}

func TestSetWorldReclamps(t *testing.T) {
	cam := New(1280, 720, 640, 360)
	cam.SetZoom(4)
	cam.Pan(1e6, 1e6)

	cam.SetWorld(320, 180)
	x, y, w, h := cam.View()
	if x < 0 || y < 0 || x+w > 320 || y+h > 180 {
		t.Errorf("view (%f,%f,%f,%f) escapes shrunken world", x, y, w, h)
	}
}
