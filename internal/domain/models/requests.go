package models

// EstimateForm binds the multipart fields of POST /api/estimate. The image
// itself is read separately from the multipart payload; every other field
// arrives as text and is validated before any external call is made.
type EstimateForm struct {
	Brand        string `form:"brand" binding:"required"`
	Model        string `form:"model" binding:"required"`
	Year         string `form:"year" binding:"required"`
	Mileage      string `form:"mileage" binding:"required"`
	EnginePower  string `form:"enpower"`
	EngineVolume string `form:"envolume"`
	FuelType     string `form:"fuel_type" binding:"required"`
	Transmission string `form:"transmission" binding:"required"`
}

// SummaryRequest is the JSON body of POST /api/ai-summary. Engine specs,
// fuel and transmission are optional; the rest must be present.
type SummaryRequest struct {
	Brand          string `json:"brand" binding:"required"`
	Model          string `json:"model" binding:"required"`
	Year           int    `json:"year" binding:"required"`
	Mileage        int    `json:"mileage" binding:"required"`
	EnginePower    int    `json:"enpower"`
	EngineVolume   int    `json:"envolume"`
	FuelType       string `json:"fuel_type"`
	Transmission   string `json:"transmission"`
	EstimatedPrice int    `json:"estimatedPrice" binding:"required"`
}
