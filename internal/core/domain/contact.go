package domain

import "time"

// Contact is a customer record scoped to one business.
type Contact struct {
	ID         int64      `json:"id"`
	BusinessID int64      `json:"businessId"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Address    string     `json:"address,omitempty"`
	City       string     `json:"city,omitempty"`
	State      string     `json:"state,omitempty"`
	Zip        string     `json:"zip,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// FullName returns the contact's display name.
func (c *Contact) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// Technician is a staff member who can be assigned to jobs.
type Technician struct {
	ID         int64      `json:"id"`
	BusinessID int64      `json:"businessId"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Specialty  string     `json:"specialty,omitempty"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// Equipment is a serviceable unit installed at a contact's property.
type Equipment struct {
	ID           int64      `json:"id"`
	BusinessID   int64      `json:"businessId"`
	ContactID    *int64     `json:"contactId,omitempty"`
	Type         string     `json:"type"`
	Brand        string     `json:"brand,omitempty"`
	Model        string     `json:"model,omitempty"`
	SerialNumber string     `json:"serialNumber,omitempty"`
	InstallDate  *time.Time `json:"installDate,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}
