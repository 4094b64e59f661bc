package geo

// FeatureType represents the type of backdrop feature
type FeatureType int

const (
	FeatureOutline FeatureType = iota
	FeatureLine
	FeaturePlace
)

// String returns a string representation of the feature type
func (f FeatureType) String() string {
	switch f {
	case FeatureOutline:
		return "Outline"
	case FeatureLine:
		return "Line"
	case FeaturePlace:
		return "Place"
	default:
		return "Unknown"
	}
}

// Feature is one backdrop shape drawn beneath the placed points
type Feature struct {
	Type   FeatureType
	Points []LatLng // polyline or ring, empty for places
	Point  *LatLng  // set for places only
	Name   string
}

// NewLineFeature creates a new line/polyline feature
func NewLineFeature(ftype FeatureType, points []LatLng) *Feature {
	return &Feature{
		Type:   ftype,
		Points: points,
	}
}

// NewPointFeature creates a labelled place
func NewPointFeature(point LatLng, name string) *Feature {
	return &Feature{
		Type:  FeaturePlace,
		Point: &point,
		Name:  name,
	}
}

// IsPoint returns true if this is a point feature
func (f *Feature) IsPoint() bool {
	return f.Point != nil
}

// IsLine returns true if this is a line/polyline feature
func (f *Feature) IsLine() bool {
	return len(f.Points) > 0
}
