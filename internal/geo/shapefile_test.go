package geo_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"

	"quadmap/internal/geo"
)

func writePolyLines(t *testing.T, path string, parts [][]shp.Point) {
	t.Helper()

	w, err := shp.Create(path, shp.POLYLINE)
	if err != nil {
		t.Fatalf("create shapefile: %v", err)
	}
	w.Write(shp.NewPolyLine(parts))
	w.Close()
}

func TestLoadShapefileSplitsParts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "river.shp")
	writePolyLines(t, path, [][]shp.Point{
		{{X: 105.80, Y: 21.00}, {X: 105.81, Y: 21.01}},
		{{X: 105.82, Y: 21.02}, {X: 105.83, Y: 21.03}, {X: 105.84, Y: 21.04}},
	})

	features, err := geo.NewShapefileLoader(dir).LoadShapefile(path)
	if err != nil {
		t.Fatalf("LoadShapefile: %v", err)
	}
	if len(features) != 2 {
		t.Fatalf("got %d features, want 2", len(features))
	}
	if features[0].Type != geo.FeatureLine {
		t.Errorf("type = %v, want Line", features[0].Type)
	}
	if len(features[1].Points) != 3 {
		t.Errorf("second part has %d points, want 3", len(features[1].Points))
	}
	if got := features[0].Points[1]; got.Lat != 21.01 || got.Lng != 105.81 {
		t.Errorf("point = %+v, want lat/lng swapped from shapefile x/y", got)
	}
}

func TestLoadAllSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writePolyLines(t, filepath.Join(dir, "good.shp"), [][]shp.Point{
		{{X: 1, Y: 1}, {X: 2, Y: 2}},
	})
	if err := os.WriteFile(filepath.Join(dir, "bad.shp"), []byte("not a shapefile"), 0o644); err != nil {
		t.Fatal(err)
	}

	features, err := geo.NewShapefileLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(features) != 1 {
		t.Errorf("got %d features, want 1", len(features))
	}
}

func TestLoadShapefileMissing(t *testing.T) {
	if _, err := geo.NewShapefileLoader("").LoadShapefile(filepath.Join(t.TempDir(), "nope.shp")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFilterByBounds(t *testing.T) {
	bounds := &geo.Bounds{MinLat: 20, MaxLat: 22, MinLon: 105, MaxLon: 106}

	inside := geo.NewPointFeature(geo.LatLng{Lat: 21, Lng: 105.5}, "Hanoi")
	outside := geo.NewPointFeature(geo.LatLng{Lat: 10, Lng: 106}, "Saigon")
	// Neither endpoint is visible but the segment crosses the view.
	crossing := geo.NewLineFeature(geo.FeatureLine, []geo.LatLng{{Lat: 19, Lng: 105.5}, {Lat: 23, Lng: 105.5}})
	away := geo.NewLineFeature(geo.FeatureOutline, []geo.LatLng{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}})

	got := geo.FilterByBounds([]*geo.Feature{inside, outside, crossing, away}, bounds)
	if len(got) != 2 || got[0] != inside || got[1] != crossing {
		t.Errorf("FilterByBounds kept %d features: %+v", len(got), got)
	}
}
