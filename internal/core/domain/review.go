package domain

import "time"

// Review is an external-platform review discovered for a business.
type Review struct {
	ID           int64      `json:"id"`
	BusinessID   int64      `json:"businessId"`
	Platform     string     `json:"platform"`
	Rating       int32      `json:"rating"`
	Content      string     `json:"content,omitempty"`
	ReviewerName string     `json:"reviewerName,omitempty"`
	ReviewDate   time.Time  `json:"reviewDate"`
	URL          string     `json:"url,omitempty"`
	IsResponded  bool       `json:"isResponded"`
	Response     string     `json:"response,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

// DemoToken grants time-limited demo access to one business's dashboard.
type DemoToken struct {
	ID         int64     `json:"id"`
	Token      string    `json:"token"`
	BusinessID int64     `json:"businessId"`
	ExpiresAt  time.Time `json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsExpired reports whether the token is past its expiry.
func (t *DemoToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
