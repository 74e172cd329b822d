package domain

// DefaultCenter is where the map opens when no fix is available.
var DefaultCenter = Vertex{Lat: 28.597082, Lng: 77.793120}

// Vertex is one corner of a drawn boundary.
type Vertex struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PolygonHandler receives the vertices of a completed boundary drawing.
type PolygonHandler func(vertices []Vertex)

// MapSurface is the capability the rest of the system needs from a mapping
// provider. Adapters translate it into provider-specific calls.
type MapSurface interface {
	SetCenter(lat, lng float64)
	AddMarker(lat, lng float64, label string)
	OnPolygonDrawn(fn PolygonHandler)
}
