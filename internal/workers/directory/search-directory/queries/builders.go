// internal/workers/directory/search-directory/queries/builders.go
package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"onboarding-workers/internal/models"
)

var (
	ErrMissingIndex      = errors.New("index name is required")
	ErrUnknownEntityType = errors.New("unknown entity type")
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

// DirectoryQuery is one admin search box request.
type DirectoryQuery struct {
	Index      string
	Text       string
	EntityType string
	Certified  *bool
	From       int
	Size       int
}

// Normalize clamps pagination and trims the search text.
func (q *DirectoryQuery) Normalize() {
	q.Text = strings.TrimSpace(q.Text)
	if q.From < 0 {
		q.From = 0
	}
	if q.Size < 1 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
}

// BuildSearch builds the search request for a directory query.
func BuildSearch(q DirectoryQuery) (*esapi.SearchRequest, error) {
	if q.Index == "" {
		return nil, ErrMissingIndex
	}
	switch q.EntityType {
	case "", models.EntityBrand, models.EntityProvider:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntityType, q.EntityType)
	}
	q.Normalize()

	body, err := json.Marshal(buildDirectoryQuery(q))
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	return &esapi.SearchRequest{
		Index:          []string{q.Index},
		Body:           bytes.NewReader(body),
		From:           &q.From,
		Size:           &q.Size,
		TrackTotalHits: true,
	}, nil
}

func buildDirectoryQuery(q DirectoryQuery) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if q.Text != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     q.Text,
				"fields":    []string{"name^3", "contactName^2", "contactEmail", "location", "industry", "capabilities"},
				"type":      "best_fields",
				"fuzziness": "AUTO",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	if q.EntityType != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"entityType": q.EntityType},
		})
	}
	if q.Certified != nil {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"certified": *q.Certified},
		})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
	}
	// relevance first when searching, otherwise most recently updated
	if q.Text == "" {
		query["sort"] = []interface{}{
			map[string]interface{}{"updatedAt": map[string]interface{}{"order": "desc", "unmapped_type": "date"}},
		}
	}
	return query
}
