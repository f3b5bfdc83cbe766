// internal/workers/directory/search-directory/models.go
package searchdirectory

import "onboarding-workers/internal/workers/directory/search-directory/queries"

type Input struct {
	Query      string     `json:"query"`
	EntityType string     `json:"entityType,omitempty"`
	Certified  *bool      `json:"certified,omitempty"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Results   []queries.Hit `json:"results"`
	TotalHits int64         `json:"totalHits"`
	MaxScore  float64       `json:"maxScore"`
	Took      int64         `json:"took"` // milliseconds
	HasMore   bool          `json:"hasMore"`
}
