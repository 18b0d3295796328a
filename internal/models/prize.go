package models

// Prize represents a single prize in the catalog. Prizes sharing the same
// DisplayName and Provider form a prize group and are interchangeable on the
// next-draw screen.
type Prize struct {
	ID          string `bson:"id" json:"id"`
	Provider    string `bson:"provider" json:"provider"`
	DisplayName string `bson:"displayName" json:"display_name"`
}
