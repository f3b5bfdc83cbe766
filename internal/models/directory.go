// internal/models/directory.go
package models

import "time"

const (
	EntityBrand    = "brand"
	EntityProvider = "3pl"
)

// DirectoryEntry is the searchable admin-directory view of a brand or 3PL.
type DirectoryEntry struct {
	EntityType   string    `json:"entityType"`
	EntityID     string    `json:"entityId"`
	Name         string    `json:"name"`
	ContactName  string    `json:"contactName,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	Location     string    `json:"location,omitempty"`
	Industry     string    `json:"industry,omitempty"`
	Capabilities []string  `json:"capabilities,omitempty"`
	Certified    bool      `json:"certified"`
	Status       string    `json:"status,omitempty"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// DocumentID is the Elasticsearch _id for the entry.
func (e DirectoryEntry) DocumentID() string {
	return e.EntityType + ":" + e.EntityID
}
