package domain

import (
	"fmt"
	"math"
)

const (
	// DefaultRadiusKm is used when a proximity query omits its radius.
	DefaultRadiusKm = 10.0

	earthRadiusKm = 6371.0
	kmPerDegree   = 111.0
)

// Location is a point on the map plus a human readable address.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// BoundingBox is an axis-aligned lat/lng rectangle used to pre-filter candidates.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// NewBoundingBox converts a center and radius into a box. The longitude span
// uses 111km * cos(lat) per degree and widens without bound near the poles;
// callers needing true distance use Haversine.
func NewBoundingBox(lat, lng, radiusKm float64) BoundingBox {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	latDelta := radiusKm / kmPerDegree
	lngDelta := radiusKm / (kmPerDegree * math.Cos(lat*math.Pi/180))
	return BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - lngDelta,
		MaxLng: lng + lngDelta,
	}
}

// Contains reports whether the point lies inside the box, edges included.
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ContainsLocation is a nil-safe Contains for optional locations.
func (b BoundingBox) ContainsLocation(loc *Location) bool {
	if loc == nil {
		return false
	}
	return b.Contains(loc.Lat, loc.Lng)
}

// Haversine returns the great-circle distance in kilometers.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push a past 1 for near-antipodal points.
	a = math.Min(1, math.Max(0, a))
	return earthRadiusKm * 2 * math.Asin(math.Sqrt(a))
}

// FormatDistance renders meters below one kilometer and one decimal km above.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%dm", int(math.Round(km*1000)))
	}
	return fmt.Sprintf("%.1fkm", km)
}
