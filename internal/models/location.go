package models

// Location is a place resolved by the geocoding provider. FormattedAddress is
// unique across all locations; coordinates may be absent for imported rows.
type Location struct {
	ID               int64    `json:"-"`
	FormattedAddress string   `json:"formatted_address"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// HasCoordinates reports whether both latitude and longitude are known.
func (l *Location) HasCoordinates() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil
}

// Alias maps a normalized user supplied address to the location it resolved to.
type Alias struct {
	ID         int64  `json:"-"`
	Address    string `json:"address"`
	LocationID int64  `json:"-"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}
