package models

// CaretakerProfile holds the bookable attributes of a caretaker.
// ServiceAreas and Specializations are stored as JSON text columns.
type CaretakerProfile struct {
	ID                   int64    `json:"id"`
	UserID               int64    `json:"userId"`
	Bio                  string   `json:"bio"`
	PricePerDay          float64  `json:"pricePerDay"`
	YearsExperience      int      `json:"yearsExperience"`
	Location             string   `json:"location"`
	ServiceAreas         []string `json:"serviceAreas"`
	Gender               string   `json:"gender"`
	Age                  int      `json:"age"`
	Specializations      []string `json:"specializations"`
	IsCertified          bool     `json:"isCertified"`
	IsBackgroundChecked  bool     `json:"isBackgroundChecked"`
	IsAvailable          bool     `json:"isAvailable"`
	ProvidesLiveLocation bool     `json:"providesLiveLocation"`
	Rating               float64  `json:"rating"`
	ReviewCount          int      `json:"reviewCount"`
	ImageURL             string   `json:"imageUrl,omitempty"`

	// Populated on search results; never includes credentials
	User *User `json:"user,omitempty"`
}
