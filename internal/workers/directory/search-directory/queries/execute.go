// internal/workers/directory/search-directory/queries/execute.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"onboarding-workers/internal/models"
)

type Hit struct {
	models.DirectoryEntry
	Score float64 `json:"score"`
}

type Result struct {
	Hits      []Hit
	TotalHits int64
	MaxScore  float64
	Took      int64
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			Score  *float64              `json:"_score"`
			Source models.DirectoryEntry `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Execute runs the query and decodes the hits.
func Execute(ctx context.Context, es *elasticsearch.Client, q DirectoryQuery) (*Result, error) {
	req, err := BuildSearch(q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, es)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var r searchResponse
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := &Result{
		Hits:      make([]Hit, 0, len(r.Hits.Hits)),
		TotalHits: r.Hits.Total.Value,
		Took:      r.Took,
	}
	if r.Took == 0 {
		out.Took = time.Since(start).Milliseconds()
	}
	if r.Hits.MaxScore != nil {
		out.MaxScore = *r.Hits.MaxScore
	}
	for _, h := range r.Hits.Hits {
		hit := Hit{DirectoryEntry: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}
