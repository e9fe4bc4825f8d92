package domain

import "time"

// PartnerGym is a gym listed in the public partner directory.
type PartnerGym struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Street            string    `json:"street"`
	StreetNumber      string    `json:"streetNumber"`
	Neighborhood      string    `json:"neighborhood"`
	City              string    `json:"city"`
	State             string    `json:"state"`
	ZipCode           string    `json:"zipCode"`
	Complementary     string    `json:"complementary"`
	AvailableServices []string  `json:"availableServices"`
	ContactPhone      string    `json:"contactPhone"`
	ContactEmail      string    `json:"contactEmail"`
	ContactWebsite    string    `json:"contactWebsite"`
	PhotoURL          string    `json:"photoUrl"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
	Version           int32     `json:"-"`
}

// PartnerGymFilter narrows the directory listing. Zero fields do not filter.
// Only active gyms are ever listed.
type PartnerGymFilter struct {
	City     string   // case-insensitive substring
	State    string   // two-letter code, exact
	Search   string   // case-insensitive substring of the name
	Services []string // gyms offering at least one of them
	Limit    int
	Offset   int
}
