package queries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"restaurant-workers/internal/models"
)

var (
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrMissingIndex     = errors.New("index name is required")
	ErrMissingParam     = errors.New("missing required parameter")
	ErrIndexNotFound    = errors.New("index not found")
)

const (
	DefaultSize = 20
	MaxSize     = 100
	// HistorySize bounds one order's conversation.
	HistorySize = 100
)

// ChatQuery describes one search against the chat log index.
type ChatQuery struct {
	Index     string
	QueryType models.SearchQueryType
	OrderID   string
	Sender    string
	Keywords  string
	From      int
	Size      int
}

// BuildQuery builds the search request for a chat query.
func BuildQuery(q ChatQuery) (*esapi.SearchRequest, error) {
	if q.Index == "" {
		return nil, ErrMissingIndex
	}

	var (
		body map[string]interface{}
		size int
	)
	switch q.QueryType {
	case models.SearchQueryTypeChatHistory:
		if q.OrderID == "" {
			return nil, fmt.Errorf("%w: orderId", ErrMissingParam)
		}
		body = buildChatHistoryQuery(q)
		size = HistorySize
	case models.SearchQueryTypeRecentChats:
		body = buildRecentChatsQuery(q)
		size = clampSize(q.Size)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownQueryType, q.QueryType)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	from := q.From
	if from < 0 {
		from = 0
	}
	return &esapi.SearchRequest{
		Index: []string{q.Index},
		Body:  bytes.NewReader(payload),
		From:  &from,
		Size:  &size,
	}, nil
}

func clampSize(size int) int {
	if size < 1 {
		return DefaultSize
	}
	if size > MaxSize {
		return MaxSize
	}
	return size
}

// buildChatHistoryQuery returns every entry of one order, oldest first.
func buildChatHistoryQuery(q ChatQuery) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"term": map[string]interface{}{"orderId": q.OrderID},
		},
		"sort": []map[string]interface{}{
			{"timestamp": map[string]interface{}{"order": "asc"}},
		},
	}
}

// buildRecentChatsQuery returns the newest entries across orders, optionally
// narrowed by sender and a full-text match on the message.
func buildRecentChatsQuery(q ChatQuery) map[string]interface{} {
	must := []interface{}{}
	filter := []interface{}{}

	if q.Keywords != "" {
		must = append(must, map[string]interface{}{
			"match": map[string]interface{}{"message": q.Keywords},
		})
	}
	if q.Sender != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"sender": q.Sender},
		})
	}
	if q.OrderID != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"orderId": q.OrderID},
		})
	}
	if len(must) == 0 {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"sort": []map[string]interface{}{
			{"timestamp": map[string]interface{}{"order": "desc"}},
		},
	}
}
