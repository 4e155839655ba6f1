package contacts

import "time"

// Contact is a person or organization record owned by the platform. ID is
// assigned remotely on creation and is immutable. Email and phone are not
// guaranteed unique; uniqueness is advisory and enforced only through
// Lookup/Upsert.
type Contact struct {
	ID           string                `json:"id"`
	LocationID   string                `json:"locationId"`
	FirstName    string                `json:"firstName,omitempty"`
	LastName     string                `json:"lastName,omitempty"`
	ContactName  string                `json:"contactName,omitempty"`
	CompanyName  string                `json:"companyName,omitempty"`
	Email        string                `json:"email,omitempty"`
	Phone        string                `json:"phone,omitempty"`
	Address1     string                `json:"address1,omitempty"`
	City         string                `json:"city,omitempty"`
	State        string                `json:"state,omitempty"`
	PostalCode   string                `json:"postalCode,omitempty"`
	Country      string                `json:"country,omitempty"`
	Website      string                `json:"website,omitempty"`
	Source       string                `json:"source,omitempty"`
	Tags         []string              `json:"tags,omitempty"`
	DND          bool                  `json:"dnd,omitempty"`
	DNDSettings  map[string]DNDSetting `json:"dndSettings,omitempty"`
	CustomFields []CustomField         `json:"customFields,omitempty"`
	DateAdded    time.Time             `json:"dateAdded,omitzero"`
	DateUpdated  time.Time             `json:"dateUpdated,omitzero"`
}

// DNDSetting is a per-channel do-not-disturb flag.
type DNDSetting struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// CustomField is a value keyed by a remote-defined field id.
type CustomField struct {
	ID    string `json:"id"`
	Value any    `json:"value"`
}

// ListParams filters the contact list. Zero-valued fields are omitted from
// the request entirely.
type ListParams struct {
	Limit        int
	Query        string
	StartAfter   int64
	StartAfterID string
}

// LookupParams identifies a contact by email or phone. At least one must be
// set.
type LookupParams struct {
	Email string `validate:"omitempty,email"`
	Phone string
}

// CreateParams carries the fields accepted on contact creation.
type CreateParams struct {
	FirstName    string        `json:"firstName,omitempty"`
	LastName     string        `json:"lastName,omitempty"`
	Name         string        `json:"name,omitempty"`
	CompanyName  string        `json:"companyName,omitempty"`
	Email        string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string        `json:"phone,omitempty"`
	Address1     string        `json:"address1,omitempty"`
	City         string        `json:"city,omitempty"`
	State        string        `json:"state,omitempty"`
	PostalCode   string        `json:"postalCode,omitempty"`
	Country      string        `json:"country,omitempty"`
	Website      string        `json:"website,omitempty"`
	Source       string        `json:"source,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// UpdateParams carries the fields accepted on contact update. The remote
// treats absent fields as unchanged, so everything here is omitempty.
type UpdateParams struct {
	FirstName    string        `json:"firstName,omitempty"`
	LastName     string        `json:"lastName,omitempty"`
	Name         string        `json:"name,omitempty"`
	CompanyName  string        `json:"companyName,omitempty"`
	Email        string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone        string        `json:"phone,omitempty"`
	Address1     string        `json:"address1,omitempty"`
	City         string        `json:"city,omitempty"`
	State        string        `json:"state,omitempty"`
	PostalCode   string        `json:"postalCode,omitempty"`
	Country      string        `json:"country,omitempty"`
	Website      string        `json:"website,omitempty"`
	Source       string        `json:"source,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

// UpsertParams is CreateParams resolved server-side: the platform creates the
// contact if no match exists and updates it otherwise. The gateway does no
// duplicate detection of its own.
type UpsertParams = CreateParams

// UpsertResult reports what the platform decided to do with an upsert.
type UpsertResult struct {
	Contact Contact `json:"contact"`
	New     bool    `json:"new"`
}

// ListResult is a page of contacts plus cursor hints for the next page.
type ListResult struct {
	Contacts     []Contact
	Total        int
	StartAfter   int64
	StartAfterID string
}
