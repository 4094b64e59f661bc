package geo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"

	"quadmap/internal/debug"
)

// ShapefileLoader loads ESRI shapefiles used as the map backdrop
type ShapefileLoader struct {
	dataDir string
}

// NewShapefileLoader creates a new shapefile loader
func NewShapefileLoader(dataDir string) *ShapefileLoader {
	return &ShapefileLoader{
		dataDir: dataDir,
	}
}

// LoadAll loads every .shp file in the data directory.
// Files that fail to parse are skipped with a log line; the map works without them.
func (s *ShapefileLoader) LoadAll() ([]*Feature, error) {
	paths, err := filepath.Glob(filepath.Join(s.dataDir, "*.shp"))
	if err != nil {
		return nil, fmt.Errorf("failed to list shapefiles: %w", err)
	}

	var features []*Feature
	for _, path := range paths {
		loaded, err := s.LoadShapefile(path)
		if err != nil {
			debug.Warn("skipping backdrop %s: %v", filepath.Base(path), err)
			continue
		}
		features = append(features, loaded...)
	}

	debug.Log("Loaded %d backdrop features from %d files", len(features), len(paths))
	return features, nil
}

// LoadShapefile loads a shapefile and converts it to Feature objects.
// Multi-part shapes become one feature per part.
func (s *ShapefileLoader) LoadShapefile(path string) ([]*Feature, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	shape, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer shape.Close()

	nameIdx := nameField(shape)
	features := make([]*Feature, 0)

	for shape.Next() {
		n, p := shape.Shape()

		switch geom := p.(type) {
		case *shp.PolyLine:
			features = appendParts(features, FeatureLine, geom.Parts, geom.Points)

		case *shp.Polygon:
			features = appendParts(features, FeatureOutline, geom.Parts, geom.Points)

		case *shp.Point:
			name := ""
			if nameIdx >= 0 {
				name = strings.TrimSpace(shape.ReadAttribute(n, nameIdx))
			}
			features = append(features, NewPointFeature(LatLng{Lat: geom.Y, Lng: geom.X}, name))
		}
	}

	if err := shape.Err(); err != nil {
		return features, fmt.Errorf("failed reading %s: %w", filepath.Base(path), err)
	}

	return features, nil
}

// nameField finds a NAME-like attribute column, -1 when absent or when
// the .dbf sidecar is missing.
func nameField(shape *shp.Reader) (idx int) {
	defer func() {
		// a truncated .dbf makes go-shp index past its header
		if recover() != nil {
			idx = -1
		}
	}()

	for i, field := range shape.Fields() {
		// Field names in shapefiles are byte arrays padded with nulls
		fieldName := strings.TrimRight(string(field.Name[:]), "\x00 ")
		switch fieldName {
		case "NAME", "NAMEASCII", "NAME_EN", "name":
			return i
		}
	}
	return -1
}

func appendParts(features []*Feature, ftype FeatureType, parts []int32, pts []shp.Point) []*Feature {
	if len(parts) == 0 {
		parts = []int32{0}
	}

	for i, start := range parts {
		end := int32(len(pts))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || end > int32(len(pts)) || end-start < 2 {
			continue
		}

		points := make([]LatLng, 0, end-start)
		for _, point := range pts[start:end] {
			points = append(points, LatLng{Lat: point.Y, Lng: point.X})
		}
		features = append(features, NewLineFeature(ftype, points))
	}

	return features
}

// FilterByBounds filters features to only those within or intersecting the given bounds
func FilterByBounds(features []*Feature, bounds *Bounds) []*Feature {
	filtered := make([]*Feature, 0)

	for _, feature := range features {
		if feature.IsPoint() {
			if bounds.Contains(feature.Point.Lat, feature.Point.Lng) {
				filtered = append(filtered, feature)
			}
		} else if feature.IsLine() {
			if bounds.Intersects(boundsOf(feature.Points)) {
				filtered = append(filtered, feature)
			}
		}
	}

	return filtered
}

func boundsOf(points []LatLng) *Bounds {
	b := &Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLon: points[0].Lng, MaxLon: points[0].Lng,
	}
	for _, p := range points[1:] {
		b.MinLat = min(b.MinLat, p.Lat)
		b.MaxLat = max(b.MaxLat, p.Lat)
		b.MinLon = min(b.MinLon, p.Lng)
		b.MaxLon = max(b.MaxLon, p.Lng)
	}
	return b
}

// Bounds represents a geographic bounding box
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// Contains checks if a point is within the bounds
func (b *Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat &&
		lon >= b.MinLon && lon <= b.MaxLon
}

// Intersects reports whether two boxes overlap
func (b *Bounds) Intersects(o *Bounds) bool {
	return b.MinLat <= o.MaxLat && o.MinLat <= b.MaxLat &&
		b.MinLon <= o.MaxLon && o.MinLon <= b.MaxLon
}
