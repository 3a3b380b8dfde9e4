package services

import (
	"testing"

	"travelbuddy_server/models"

	"github.com/stretchr/testify/require"
)

var bengaluru = GeoPoint{Latitude: 12.9716, Longitude: 77.5946}

func coord(v float64) *float64 { return &v }

func userAt(id string, lat, lon float64) models.UserProfile {
	return models.UserProfile{UserID: id, Latitude: coord(lat), Longitude: coord(lon)}
}

func TestHaversineKnownDistance(t *testing.T) {
	goa := GeoPoint{Latitude: 15.2993, Longitude: 74.1240}

	d := HaversineKm(bengaluru, goa)
	require.InDelta(t, 455.0, d, 15.0)

	require.InDelta(t, 0.0, HaversineKm(bengaluru, bengaluru), 1e-9)
}

func TestFindWithinRadiusFilter(t *testing.T) {
	candidates := []Locatable{userAt("goa-user", 15.2993, 74.1240)}

	require.Empty(t, FindWithin(bengaluru, "me", candidates, 50, 0))

	found := FindWithin(bengaluru, "me", candidates, 600, 0)
	require.Len(t, found, 1)
	require.Equal(t, "goa-user", found[0].Entity.GeoID())
	require.InDelta(t, 455.0, found[0].DistanceKm, 15.0)
}

func TestFindWithinOrdersByAscendingDistance(t *testing.T) {
	candidates := []Locatable{
		userAt("far", bengaluru.Latitude+0.3, bengaluru.Longitude),
		userAt("near", bengaluru.Latitude+0.1, bengaluru.Longitude),
		userAt("mid", bengaluru.Latitude+0.2, bengaluru.Longitude),
	}

	found := FindWithin(bengaluru, "me", candidates, 50, 0)
	require.Len(t, found, 3)
	require.Equal(t, "near", found[0].Entity.GeoID())
	require.Equal(t, "mid", found[1].Entity.GeoID())
	require.Equal(t, "far", found[2].Entity.GeoID())
	require.LessOrEqual(t, found[0].DistanceKm, found[1].DistanceKm)
	require.LessOrEqual(t, found[1].DistanceKm, found[2].DistanceKm)
}

func TestFindWithinBreaksTiesByInputOrder(t *testing.T) {
	candidates := []Locatable{
		userAt("first", bengaluru.Latitude+0.1, bengaluru.Longitude),
		userAt("second", bengaluru.Latitude+0.1, bengaluru.Longitude),
	}

	found := FindWithin(bengaluru, "me", candidates, 50, 0)
	require.Len(t, found, 2)
	require.Equal(t, "first", found[0].Entity.GeoID())
	require.Equal(t, "second", found[1].Entity.GeoID())
}

func TestFindWithinSkipsMissingCoordinates(t *testing.T) {
	candidates := []Locatable{
		models.UserProfile{UserID: "nowhere"},
		userAt("here", bengaluru.Latitude, bengaluru.Longitude),
	}

	found := FindWithin(bengaluru, "me", candidates, 50, 0)
	require.Len(t, found, 1)
	require.Equal(t, "here", found[0].Entity.GeoID())
}

func TestFindWithinExcludesOrigin(t *testing.T) {
	candidates := []Locatable{
		userAt("me", bengaluru.Latitude, bengaluru.Longitude),
		userAt("other", bengaluru.Latitude, bengaluru.Longitude),
	}

	found := FindWithin(bengaluru, "me", candidates, 50, 0)
	require.Len(t, found, 1)
	require.Equal(t, "other", found[0].Entity.GeoID())
}

func TestFindWithinAppliesLimitAfterSort(t *testing.T) {
	candidates := []Locatable{
		userAt("far", bengaluru.Latitude+0.3, bengaluru.Longitude),
		userAt("near", bengaluru.Latitude+0.1, bengaluru.Longitude),
		userAt("mid", bengaluru.Latitude+0.2, bengaluru.Longitude),
	}

	found := FindWithin(bengaluru, "me", candidates, 50, 2)
	require.Len(t, found, 2)
	require.Equal(t, "near", found[0].Entity.GeoID())
	require.Equal(t, "mid", found[1].Entity.GeoID())
}
