package ordering

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"

	"restaurant-workers/internal/models"
)

// ChatRecorder is what the order workers need from the chat log.
type ChatRecorder interface {
	Append(ctx context.Context, entry models.ChatEntry) error
}

const chatIndexMapping = `{
	"mappings": {
		"properties": {
			"id":             {"type": "keyword"},
			"orderId":        {"type": "keyword"},
			"sender":         {"type": "keyword"},
			"message":        {"type": "text"},
			"timestamp":      {"type": "date"},
			"parsedIntent":   {"type": "keyword"},
			"extractedItems": {"type": "keyword"}
		}
	}
}`

type ChatLog struct {
	client *elasticsearch.Client
	index  string
	now    func() time.Time
}

var _ ChatRecorder = (*ChatLog)(nil)

func NewChatLog(client *elasticsearch.Client, index string) *ChatLog {
	if index == "" {
		index = "chat_logs"
	}
	return &ChatLog{
		client: client,
		index:  index,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *ChatLog) Index() string {
	return l.index
}

// EnsureIndex creates the chat index with its mapping when it does not exist.
func (l *ChatLog) EnsureIndex(ctx context.Context) error {
	res, err := l.client.Indices.Exists([]string{l.index}, l.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", l.index, err)
	}
	res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = l.client.Indices.Create(l.index,
		l.client.Indices.Create.WithContext(ctx),
		l.client.Indices.Create.WithBody(bytes.NewReader([]byte(chatIndexMapping))),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", l.index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", l.index, res.String())
	}
	return nil
}

// Append indexes one entry. Missing ids and timestamps are filled in.
func (l *ChatLog) Append(ctx context.Context, entry models.ChatEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}

	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode chat entry: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      l.index,
		DocumentID: entry.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "wait_for",
	}
	res, err := req.Do(ctx, l.client)
	if err != nil {
		return fmt.Errorf("index chat entry: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index chat entry: %s", res.String())
	}
	return nil
}
