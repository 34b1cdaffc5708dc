package ordering

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-workers/internal/models"
)

// fakeElasticsearch records every request and answers with canned bodies.
type fakeElasticsearch struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(r *http.Request, body []byte) (int, string)
}

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

func (f *fakeElasticsearch) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
	f.mu.Unlock()

	status, payload := f.respond(r, body)
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(payload))
}

func newFakeElasticsearch(t *testing.T, respond func(r *http.Request, body []byte) (int, string)) (*fakeElasticsearch, *elasticsearch.Client) {
	fake := &fakeElasticsearch{respond: respond}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)
	return fake, client
}

func TestChatLog_Append(t *testing.T) {
	fake, client := newFakeElasticsearch(t, func(r *http.Request, body []byte) (int, string) {
		return http.StatusCreated, `{"result":"created"}`
	})

	chatLog := NewChatLog(client, "chat_logs")
	fixed := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	chatLog.now = func() time.Time { return fixed }

	err := chatLog.Append(context.Background(), models.ChatEntry{
		OrderID:        "ORD_1",
		Sender:         models.ChatSenderUser,
		Message:        "2 cokes please",
		ParsedIntent:   "order_food",
		ExtractedItems: []string{"Coke"},
	})
	require.NoError(t, err)

	require.Len(t, fake.requests, 1)
	req := fake.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.True(t, strings.HasPrefix(req.Path, "/chat_logs/_doc/"))
	assert.Contains(t, req.Query, "refresh=wait_for")

	var stored models.ChatEntry
	require.NoError(t, json.Unmarshal(req.Body, &stored))
	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, fixed, stored.Timestamp)
	assert.Equal(t, []string{"Coke"}, stored.ExtractedItems)
}

func TestChatLog_Append_Error(t *testing.T) {
	_, client := newFakeElasticsearch(t, func(r *http.Request, body []byte) (int, string) {
		return http.StatusInternalServerError, `{"error":"boom"}`
	})

	err := NewChatLog(client, "").Append(context.Background(), models.ChatEntry{ID: "x", Message: "hi"})
	assert.Error(t, err)
}

func TestChatLog_EnsureIndex(t *testing.T) {
	tests := []struct {
		name          string
		existsStatus  int
		expectedCalls int
	}{
		{name: "already exists", existsStatus: http.StatusOK, expectedCalls: 1},
		{name: "created", existsStatus: http.StatusNotFound, expectedCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, client := newFakeElasticsearch(t, func(r *http.Request, body []byte) (int, string) {
				if r.Method == http.MethodHead {
					return tt.existsStatus, ""
				}
				return http.StatusOK, `{"acknowledged":true}`
			})

			require.NoError(t, NewChatLog(client, "chat_logs").EnsureIndex(context.Background()))
			assert.Len(t, fake.requests, tt.expectedCalls)
			if tt.expectedCalls == 2 {
				assert.Equal(t, http.MethodPut, fake.requests[1].Method)
				assert.Contains(t, string(fake.requests[1].Body), `"orderId"`)
			}
		})
	}
}
