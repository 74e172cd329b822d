package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/rainwater-harvest-service/internal/adapter/leaflet"
	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"github.com/couchcryptid/rainwater-harvest-service/internal/geolocation"
	"github.com/spf13/cobra"
)

var errBadPolygon = errors.New("polygon needs at least three vertices and no crossing edges")

// locator picks the geocoding locator when Mapbox is configured and the
// catalog locator otherwise.
func (a *app) locator(code domain.LocationCode, interval time.Duration) domain.Locator {
	opts := []geolocation.Option{geolocation.WithClock(a.clock)}
	if interval > 0 {
		opts = append(opts, geolocation.WithWatchInterval(interval))
	}
	if a.geocoder != nil {
		return geolocation.NewGeocodingLocator(a.geocoder, code, opts...)
	}
	return geolocation.NewRegionLocator(a.regions, code, opts...)
}

func locateCmd(a *app) *cobra.Command {
	var (
		location string
		watch    int
		interval time.Duration
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:         "locate",
		Short:       "Resolve the coordinates of a region",
		Annotations: page("/gis-analysis"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			loc := a.locator(domain.ParseLocationCode(location), interval)
			opts := domain.DefaultPositionOptions()
			out := cmd.OutOrStdout()
			emit := func(ctx context.Context, pos domain.Position) error {
				if asJSON {
					return a.writePayload(out, pos)
				}
				a.writePosition(ctx, out, pos)
				return nil
			}

			if watch <= 0 {
				pos, err := loc.CurrentPosition(cmd.Context(), opts)
				if err != nil {
					return err
				}
				return emit(cmd.Context(), pos)
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			seen := 0
			for u := range loc.Watch(ctx, opts) {
				if seen >= watch {
					continue
				}
				if u.Err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), domain.AdvisoryFor(u.Err))
				} else if err := emit(ctx, u.Position); err != nil {
					return err
				}
				if seen++; seen == watch {
					cancel()
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", string(domain.LocationOther), "Location code")
	cmd.Flags().IntVarP(&watch, "watch", "w", 0, "Report this many fixes instead of one")
	cmd.Flags().DurationVar(&interval, "interval", geolocation.DefaultWatchInterval, "Time between fixes when watching")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print each fix as an analysis payload")
	return cmd
}

// writePayload prints pos as a one-line analysis payload stamped now.
func (a *app) writePayload(w io.Writer, pos domain.Position) error {
	data, err := json.Marshal(domain.NewAnalysisPayload(pos, a.clock.Now()))
	if err != nil {
		return err
	}
	return printJSON(w, data)
}

// writePosition prints a fix, annotated with a place name when reverse
// geocoding is available.
func (a *app) writePosition(ctx context.Context, w io.Writer, pos domain.Position) {
	fmt.Fprintf(w, "Location: %.6f, %.6f (±%.0f m)\n", pos.Lat, pos.Lng, pos.Accuracy)
	if a.geocoder == nil {
		return
	}
	res, err := a.geocoder.ReverseGeocode(ctx, pos.Lat, pos.Lng)
	if err != nil {
		a.logger.Warn("reverse geocoding failed", "lat", pos.Lat, "lng", pos.Lng, "error", err)
		return
	}
	if !res.Empty() {
		fmt.Fprintf(w, "Place:    %s\n", res.FormattedAddress)
	}
}

func mapCmd(a *app) *cobra.Command {
	var location, polygon string

	cmd := &cobra.Command{
		Use:         "map",
		Short:       "Render the satellite map view for a region",
		Annotations: page("/gis-analysis"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			surface := leaflet.NewSurface()
			surface.OnPolygonDrawn(func(vs []domain.Vertex) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Boundary drawn: %d vertices, about %.0f m²\n", len(vs), leaflet.Area(vs))
			})

			loc := a.locator(domain.ParseLocationCode(location), 0)
			pos, err := loc.CurrentPosition(cmd.Context(), domain.DefaultPositionOptions())
			if err != nil {
				// The map stays on the default centre.
				fmt.Fprintln(cmd.ErrOrStderr(), domain.AdvisoryFor(err))
			} else {
				surface.SetCenter(pos.Lat, pos.Lng)
				surface.AddMarker(pos.Lat, pos.Lng, "Your Location")
			}

			if polygon != "" {
				vs, err := parsePolygon(polygon)
				if err != nil {
					return err
				}
				if !surface.DrawPolygon(vs) {
					return errBadPolygon
				}
			}

			data, err := surface.View().JSON()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", string(domain.LocationOther), "Location code")
	cmd.Flags().StringVar(&polygon, "polygon", "", `Boundary vertices as "lat,lng;lat,lng;..."`)
	return cmd
}

// parsePolygon reads "lat,lng;lat,lng;..." into vertices.
func parsePolygon(s string) ([]domain.Vertex, error) {
	var vs []domain.Vertex
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		latStr, lngStr, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, fmt.Errorf("vertex %q: want lat,lng", pair)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("vertex %q: invalid latitude", pair)
		}
		lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
		if err != nil || lng < -180 || lng > 180 {
			return nil, fmt.Errorf("vertex %q: invalid longitude", pair)
		}
		vs = append(vs, domain.Vertex{Lat: lat, Lng: lng})
	}
	return vs, nil
}

func regionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regions",
		Short: "List the selectable locations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			all := a.regions.All()
			rows := make([][]string, 0, len(all))
			for _, r := range all {
				rows = append(rows, []string{
					string(r.Code),
					r.Name,
					fmt.Sprintf("%.4f", r.Lat),
					fmt.Sprintf("%.4f", r.Lng),
					fmt.Sprintf("%.0f", r.Accuracy),
				})
			}
			writeTable(cmd.OutOrStdout(), []string{"Code", "Name", "Lat", "Lng", "Accuracy (m)"}, rows)
			return nil
		},
	}
}
