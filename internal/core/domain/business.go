package domain

import "time"

// BusinessVertical identifies the trade a business operates in.
type BusinessVertical string

const (
	VerticalHVAC        BusinessVertical = "hvac"
	VerticalPlumbing    BusinessVertical = "plumbing"
	VerticalElectrical  BusinessVertical = "electrical"
	VerticalCleaning    BusinessVertical = "cleaning"
	VerticalLandscaping BusinessVertical = "landscaping"
	VerticalRoofing     BusinessVertical = "roofing"
	VerticalGeneral     BusinessVertical = "general"
)

// IsValid reports whether the vertical is one of the known trades.
func (v BusinessVertical) IsValid() bool {
	switch v {
	case VerticalHVAC, VerticalPlumbing, VerticalElectrical, VerticalCleaning,
		VerticalLandscaping, VerticalRoofing, VerticalGeneral:
		return true
	}
	return false
}

// Business is a single tenant. Its ID is the partition key for every
// subscriber and automation-rule lookup in the platform.
type Business struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description,omitempty"`
	Address      string           `json:"address,omitempty"`
	City         string           `json:"city,omitempty"`
	State        string           `json:"state,omitempty"`
	Zip          string           `json:"zip,omitempty"`
	Phone        string           `json:"phone,omitempty"`
	Email        string           `json:"email,omitempty"`
	Website      string           `json:"website,omitempty"`
	Vertical     BusinessVertical `json:"vertical"`
	Logo         string           `json:"logo,omitempty"`
	Theme        map[string]any   `json:"theme,omitempty"`
	CustomDomain string           `json:"customDomain,omitempty"`
	Settings     map[string]any   `json:"settings,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    *time.Time       `json:"updatedAt,omitempty"`
}

// BusinessStats is the dashboard snapshot pushed to tenant connections on
// open and served by the stats endpoint. The website fields are static
// placeholders until real analytics land.
type BusinessStats struct {
	ActiveCustomers int64   `json:"activeCustomers"`
	ScheduledJobs   int64   `json:"scheduledJobs"`
	NewMessages     int64   `json:"newMessages"`
	AvgReview       float64 `json:"avgReview"`
	WebsiteVisitors int64   `json:"websiteVisitors"`
	ConversionRate  string  `json:"conversionRate"`
	AvgSessionTime  string  `json:"avgSessionTime"`
}

// WithWebsitePlaceholders fills the mock website analytics fields.
func (s BusinessStats) WithWebsitePlaceholders() BusinessStats {
	s.WebsiteVisitors = 1247
	s.ConversionRate = "3.2%"
	s.AvgSessionTime = "2:37"
	return s
}
