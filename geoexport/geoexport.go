// Package geoexport renders a track.Store snapshot as a GeoJSON
// FeatureCollection: one Point feature per aircraft with a known position,
// per SPEC_FULL.md §4.9. It is a read-only render of current state, not a
// served endpoint or a persistence layer (spec.md's non-goals).
package geoexport

import (
	"encoding/json"
	"fmt"

	"github.com/kpawlik/geojson"
	"github.com/paulmach/orb"

	"github.com/adsbtrack/modesd/track"
)

// Snapshot renders every record in records that has a known position into
// a GeoJSON FeatureCollection. Records without HasPosition are skipped
// (there is nothing to place on a map).
func Snapshot(records []track.Record) *geojson.FeatureCollection {
	features := make([]*geojson.Feature, 0, len(records))
	for _, r := range records {
		if !r.Merged.HasPosition {
			continue
		}
		features = append(features, toFeature(r))
	}
	return geojson.NewFeatureCollection(features)
}

// toFeature builds a single Point feature for one aircraft, tagged with
// ICAO24, callsign, altitude and squawk as properties.
func toFeature(r track.Record) *geojson.Feature {
	pt := orb.Point{r.Merged.Longitude, r.Merged.Latitude}
	coord := geojson.NewCoordinate(pt[0], pt[1])
	geometry := geojson.NewPoint(coord)

	props := map[string]interface{}{
		"icao24": icaoHex(r.ICAO24),
	}
	if r.Merged.HasCallSign {
		props["callsign"] = r.Merged.CallSign
	}
	if r.Merged.HasAltitude {
		props["altitude"] = r.Merged.Altitude
	}
	if r.Merged.HasSquawk {
		props["squawk"] = r.Merged.Squawk
	}

	return geojson.NewFeature(geometry, props, icaoHex(r.ICAO24))
}

func icaoHex(addr uint32) string {
	return fmt.Sprintf("%06X", addr)
}

// MarshalJSON renders records directly to GeoJSON bytes, for callers that
// just want to write a file or HTTP body without touching the
// intermediate FeatureCollection value.
func MarshalJSON(records []track.Record) ([]byte, error) {
	return json.Marshal(Snapshot(records))
}
