// internal/workers/directory/index-directory-entry/models.go
package indexdirectoryentry

import (
	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"onboarding-workers/internal/models"
)

// Input indexes Entry, or removes it from the directory when Remove is set.
type Input struct {
	Entry  models.DirectoryEntry `json:"directoryEntry"`
	Remove bool                  `json:"remove,omitempty"`
}

func (i Input) Validate() error {
	e := i.Entry
	return ozzo.ValidateStruct(&e,
		ozzo.Field(&e.EntityType, ozzo.Required, ozzo.In(models.EntityBrand, models.EntityProvider).
			Error("entityType must be brand or 3pl")),
		ozzo.Field(&e.EntityID, ozzo.Required),
		ozzo.Field(&e.Name, ozzo.When(!i.Remove, ozzo.Required)),
	)
}

type Output struct {
	DocumentID string `json:"documentId"`
	Index      string `json:"index"`
	Result     string `json:"result"`
	Version    int64  `json:"version,omitempty"`
}
