package services

import (
	"context"
	"fmt"

	"travelbuddy_server/models"

	"go.uber.org/zap"
)

// PlaceStore supplies the candidate snapshot for place discovery.
type PlaceStore interface {
	ListPlaces(ctx context.Context) ([]models.Place, error)
}

// PlaceService answers nearby-place queries over the stored places.
type PlaceService struct {
	Store  PlaceStore
	Logger *zap.SugaredLogger
}

func NewPlaceService(store PlaceStore, logger *zap.SugaredLogger) *PlaceService {
	return &PlaceService{Store: store, Logger: logger}
}

// Nearby returns up to 20 places within maxDistanceKm of the origin,
// closest first.
func (s *PlaceService) Nearby(ctx context.Context, origin GeoPoint, maxDistanceKm float64) ([]models.NearbyPlace, error) {
	places, err := s.Store.ListPlaces(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]Locatable, 0, len(places))
	for _, p := range places {
		candidates = append(candidates, p)
	}

	found := FindWithin(origin, "", candidates, maxDistanceKm, 20)

	nearby := make([]models.NearbyPlace, 0, len(found))
	for _, n := range found {
		nearby = append(nearby, models.NearbyPlace{
			Place:      n.Entity.(models.Place),
			DistanceKm: n.DistanceKm,
		})
	}
	return nearby, nil
}

// DynamoPlaceStore reads places from the Places table.
type DynamoPlaceStore struct {
	Dynamo *DynamoService
}

func (st *DynamoPlaceStore) ListPlaces(ctx context.Context) ([]models.Place, error) {
	var places []models.Place
	if err := st.Dynamo.ScanWithFilter(ctx, models.PlacesTable, nil, &places); err != nil {
		return nil, fmt.Errorf("failed to fetch places: %w", err)
	}
	return places, nil
}
