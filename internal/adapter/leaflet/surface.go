// Package leaflet adapts domain.MapSurface to a Leaflet satellite map with a
// polygon draw control. The adapter keeps the view state and renders it as
// the JSON a Leaflet page would be initialized from.
package leaflet

import (
	"encoding/json"
	"math"
	"sync"

	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
)

const (
	TileURL       = "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}"
	Attribution   = "Tiles © Esri — Source: Esri, Maxar, Earthstar Geographics"
	DefaultZoom   = 20
	MaxZoom       = 21
	MaxNativeZoom = 19
)

const earthRadiusM = 6371008.8

// Marker is a labelled pin on the map.
type Marker struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label"`
}

// ShapeStyle is the stroke and fill of drawn polygons.
type ShapeStyle struct {
	Color       string  `json:"color"`
	Weight      int     `json:"weight"`
	FillOpacity float64 `json:"fillOpacity"`
}

// TileLayer describes the satellite imagery source.
type TileLayer struct {
	URL           string `json:"url"`
	Attribution   string `json:"attribution"`
	MaxZoom       int    `json:"maxZoom"`
	MaxNativeZoom int    `json:"maxNativeZoom"`
}

// View is the full map state.
type View struct {
	Center   domain.Vertex     `json:"center"`
	Zoom     int               `json:"zoom"`
	MaxZoom  int               `json:"maxZoom"`
	Tiles    TileLayer         `json:"tiles"`
	Markers  []Marker          `json:"markers"`
	Style    ShapeStyle        `json:"polygonStyle"`
	Polygons [][]domain.Vertex `json:"polygons"`
}

// JSON renders the view.
func (v View) JSON() ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// Surface is a Leaflet-backed domain.MapSurface.
type Surface struct {
	mu       sync.Mutex
	center   domain.Vertex
	markers  []Marker
	polygons [][]domain.Vertex
	handlers []domain.PolygonHandler
}

var _ domain.MapSurface = (*Surface)(nil)

// NewSurface opens a map on domain.DefaultCenter.
func NewSurface() *Surface {
	return &Surface{center: domain.DefaultCenter}
}

func (s *Surface) SetCenter(lat, lng float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center = domain.Vertex{Lat: lat, Lng: lng}
}

func (s *Surface) AddMarker(lat, lng float64, label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = append(s.markers, Marker{Lat: lat, Lng: lng, Label: label})
}

func (s *Surface) OnPolygonDrawn(fn domain.PolygonHandler) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
}

// DrawPolygon completes a boundary drawing and delivers it to every handler.
// It reports false and does nothing when the polygon has fewer than three
// vertices or its edges cross.
func (s *Surface) DrawPolygon(vertices []domain.Vertex) bool {
	if len(vertices) < 3 || selfIntersects(vertices) {
		return false
	}
	poly := make([]domain.Vertex, len(vertices))
	copy(poly, vertices)

	s.mu.Lock()
	s.polygons = append(s.polygons, poly)
	handlers := make([]domain.PolygonHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.mu.Unlock()

	for _, fn := range handlers {
		fn(poly)
	}
	return true
}

// View snapshots the current map state.
func (s *Surface) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	markers := make([]Marker, len(s.markers))
	copy(markers, s.markers)
	polygons := make([][]domain.Vertex, len(s.polygons))
	copy(polygons, s.polygons)

	return View{
		Center:  s.center,
		Zoom:    DefaultZoom,
		MaxZoom: MaxZoom,
		Tiles: TileLayer{
			URL:           TileURL,
			Attribution:   Attribution,
			MaxZoom:       MaxZoom,
			MaxNativeZoom: MaxNativeZoom,
		},
		Markers:  markers,
		Style:    ShapeStyle{Color: "#00bcd4", Weight: 2, FillOpacity: 0.3},
		Polygons: polygons,
	}
}

// Area approximates the enclosed area in square meters using an
// equirectangular projection around the polygon's mean latitude.
func Area(vertices []domain.Vertex) float64 {
	if len(vertices) < 3 {
		return 0
	}
	var meanLat float64
	for _, v := range vertices {
		meanLat += v.Lat
	}
	meanLat /= float64(len(vertices))
	kx := earthRadiusM * math.Pi / 180 * math.Cos(meanLat*math.Pi/180)
	ky := earthRadiusM * math.Pi / 180

	var sum float64
	for i, a := range vertices {
		b := vertices[(i+1)%len(vertices)]
		sum += (a.Lng*kx)*(b.Lat*ky) - (b.Lng*kx)*(a.Lat*ky)
	}
	return math.Abs(sum) / 2
}

// selfIntersects reports whether any two non-adjacent edges cross.
func selfIntersects(vs []domain.Vertex) bool {
	n := len(vs)
	for i := 0; i < n; i++ {
		a1, a2 := vs[i], vs[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if segmentsCross(a1, a2, vs[j], vs[(j+1)%n]) {
				return true
			}
		}
	}
	return false
}

func segmentsCross(p1, p2, q1, q2 domain.Vertex) bool {
	d1 := orient(q1, q2, p1)
	d2 := orient(q1, q2, p2)
	d3 := orient(p1, p2, q1)
	d4 := orient(p1, p2, q2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func orient(a, b, c domain.Vertex) float64 {
	return (b.Lng-a.Lng)*(c.Lat-a.Lat) - (b.Lat-a.Lat)*(c.Lng-a.Lng)
}
