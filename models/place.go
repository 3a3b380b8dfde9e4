package models

// Place is a geo-tagged point of interest used for discovery.
type Place struct {
	PlaceID   string   `dynamodbav:"placeId" json:"placeId"`
	Name      string   `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Category  string   `dynamodbav:"category,omitempty" json:"category,omitempty"`
	Latitude  *float64 `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
}

// GeoID implements services.Locatable.
func (p Place) GeoID() string { return p.PlaceID }

// Coordinate implements services.Locatable.
func (p Place) Coordinate() (float64, float64, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return 0, 0, false
	}
	return *p.Latitude, *p.Longitude, true
}

// NearbyPlace is a proximity query result for places.
type NearbyPlace struct {
	Place
	DistanceKm float64 `json:"distance"`
}

// PlacesTable is the DynamoDB table name for places
const PlacesTable = "Places"
