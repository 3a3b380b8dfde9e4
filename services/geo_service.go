package services

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371

// Locatable is any entity that can be the subject of a proximity
// query. Coordinate reports ok=false when the entity has no location,
// which excludes it from results rather than erroring.
type Locatable interface {
	GeoID() string
	Coordinate() (lat float64, lon float64, ok bool)
}

// GeoPoint is a decimal-degree coordinate.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Nearby pairs a candidate with its query-time distance from the
// origin. The distance is never persisted.
type Nearby struct {
	Entity     Locatable
	DistanceKm float64
}

// FindWithin returns the candidates within maxDistanceKm of origin,
// sorted by ascending distance with ties kept in input order. The
// entity identified by originID is excluded so a user never appears in
// their own nearby results. limit <= 0 means no cap. Pure function
// over the supplied candidate snapshot; freshness is the caller's
// concern.
func FindWithin(origin GeoPoint, originID string, candidates []Locatable, maxDistanceKm float64, limit int) []Nearby {
	var results []Nearby
	for _, c := range candidates {
		if originID != "" && c.GeoID() == originID {
			continue
		}
		lat, lon, ok := c.Coordinate()
		if !ok {
			continue
		}
		d := HaversineKm(origin, GeoPoint{Latitude: lat, Longitude: lon})
		if d > maxDistanceKm {
			continue
		}
		results = append(results, Nearby{Entity: c, DistanceKm: d})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// HaversineKm computes the great-circle distance between two points in
// kilometers.
func HaversineKm(p1, p2 GeoPoint) float64 {
	dLat := (p2.Latitude - p1.Latitude) * math.Pi / 180
	dLon := (p2.Longitude - p1.Longitude) * math.Pi / 180
	lat1 := p1.Latitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
