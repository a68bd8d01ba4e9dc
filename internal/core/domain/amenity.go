package domain

// Amenity is a bookable shared facility. Ids are assigned externally.
type Amenity struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
