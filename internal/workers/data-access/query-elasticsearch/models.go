// internal/workers/data-access/query-elasticsearch/models.go
package queryelasticsearch

import "restaurant-workers/internal/models"

type Input struct {
	IndexName  string     `json:"indexName,omitempty"`
	QueryType  string     `json:"queryType"`
	OrderID    string     `json:"orderId,omitempty"`
	Sender     string     `json:"sender,omitempty"`
	Keywords   string     `json:"keywords,omitempty"`
	Pagination Pagination `json:"pagination"`
}

type Pagination struct {
	From int `json:"from"`
	Size int `json:"size"`
}

type Output struct {
	Data      []models.ChatEntry `json:"data"`
	TotalHits int64              `json:"totalHits"`
	MaxScore  float64            `json:"maxScore"`
	Took      int64              `json:"took"` // milliseconds
}
