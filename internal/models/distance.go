package models

// Distance is the response body of the distance endpoint. Start and end hold
// the normalized input addresses, not the formatted ones.
type Distance struct {
	StartLocation string  `json:"start_location"`
	EndLocation   string  `json:"end_location"`
	Distance      float64 `json:"distance"`
}
