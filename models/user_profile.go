package models

// UserProfile is owned by the auth/profile subsystem; this core only
// reads it for buddy discovery. Coordinates are optional — a user with
// no location is never "nearby".
type UserProfile struct {
	UserID    string   `dynamodbav:"userId" json:"userId"`
	FullName  string   `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	Bio       string   `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	Latitude  *float64 `dynamodbav:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `dynamodbav:"longitude,omitempty" json:"longitude,omitempty"`
	IsOnline  bool     `dynamodbav:"isOnline" json:"isOnline"`
}

// GeoID implements services.Locatable.
func (u UserProfile) GeoID() string { return u.UserID }

// Coordinate implements services.Locatable.
func (u UserProfile) Coordinate() (float64, float64, bool) {
	if u.Latitude == nil || u.Longitude == nil {
		return 0, 0, false
	}
	return *u.Latitude, *u.Longitude, true
}

// NearbyUser is a proximity query result. DistanceKm is derived at
// query time and never persisted.
type NearbyUser struct {
	UserProfile
	DistanceKm float64 `json:"distance"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
