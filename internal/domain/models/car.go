package models

// CarValuation is the persisted outcome of one estimation request. Records
// are written once by the estimate pipeline and never updated or deleted.
// The JSON field names are part of the public API contract and the bson
// names mirror them so documents round-trip unchanged through the store.
type CarValuation struct {
	ID             string `json:"id" bson:"_id"`
	Brand          string `json:"brand" bson:"brand"`
	Model          string `json:"model" bson:"model"`
	FuelType       string `json:"fuel_type" bson:"fuel_type"`
	Transmission   string `json:"transmission" bson:"transmission"`
	EnginePower    int    `json:"enpower" bson:"enpower"`
	EngineVolume   int    `json:"envolume" bson:"envolume"`
	Year           int    `json:"year" bson:"year"`
	Mileage        int    `json:"mileage" bson:"mileage"`
	EstimatedPrice int    `json:"estimatedPrice" bson:"estimatedPrice"`
	ImageURL       string `json:"imageUrl" bson:"imageUrl"`
	CreatedAt      string `json:"createdAt" bson:"createdAt"` // RFC 3339 UTC, set once at write time
}

// CarFeatures carries the validated tabular inputs sent to the price model.
type CarFeatures struct {
	Brand        string
	Model        string
	Year         int
	Mileage      int
	EnginePower  int
	EngineVolume int
	FuelType     string
	Transmission string
}
