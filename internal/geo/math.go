package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	degToRad = math.Pi / 180.0
	radToDeg = 180.0 / math.Pi
)

// LatLngToVector projects WGS84 degrees onto a sphere of the given radius.
//
// It uses polar angle phi = (90 - lat) and azimuth theta = (lng + 180), so the
// north pole lies on +Y and lng -180 on +X:
//
//	x = r * sin(phi) * cos(theta)
//	y = r * cos(phi)
//	z = r * sin(phi) * sin(theta)
func LatLngToVector(lat, lng, radius float64) mgl64.Vec3 {
	phi := (90.0 - lat) * degToRad
	theta := (lng + 180.0) * degToRad

	sinPhi := math.Sin(phi)
	return mgl64.Vec3{
		radius * sinPhi * math.Cos(theta),
		radius * math.Cos(phi),
		radius * sinPhi * math.Sin(theta),
	}
}

// VectorToLatLng is the inverse of LatLngToVector.
// It returns the latitude, longitude and distance from the origin of v.
// The origin maps to (0, 0, 0).
func VectorToLatLng(v mgl64.Vec3) (lat, lng, radius float64) {
	radius = v.Len()
	if radius < 1e-12 {
		return 0, 0, 0
	}

	phi := math.Acos(clamp(v.Y()/radius, -1, 1))
	theta := math.Atan2(v.Z(), v.X())

	lat = 90.0 - phi*radToDeg
	lng = theta*radToDeg - 180.0
	if lng < -180.0 {
		lng += 360.0
	}

	return lat, lng, radius
}

// ValidLatLng reports whether lat/lng are finite and inside WGS84 ranges.
func ValidLatLng(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
