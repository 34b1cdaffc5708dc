// internal/workers/data-access/query-elasticsearch/queries/registry.go
package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"restaurant-workers/internal/models"
)

type QueryResult struct {
	Data      []models.ChatEntry
	TotalHits int64
	MaxScore  float64
	Took      int64
}

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []struct {
			Source models.ChatEntry `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// Supported reports whether queryType has a builder.
func Supported(queryType models.SearchQueryType) bool {
	switch queryType {
	case models.SearchQueryTypeChatHistory, models.SearchQueryTypeRecentChats:
		return true
	}
	return false
}

func Execute(ctx context.Context, esClient *elasticsearch.Client, q ChatQuery) (*QueryResult, error) {
	req, err := BuildQuery(q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := req.Do(ctx, esClient)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, q.Index)
	}
	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	data := make([]models.ChatEntry, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		data = append(data, hit.Source)
	}

	maxScore := 0.0
	if parsed.Hits.MaxScore != nil {
		maxScore = *parsed.Hits.MaxScore
	}

	return &QueryResult{
		Data:      data,
		TotalHits: parsed.Hits.Total.Value,
		MaxScore:  maxScore,
		Took:      time.Since(start).Milliseconds(),
	}, nil
}
