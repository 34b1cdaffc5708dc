package placeorder

import (
	"context"
	stderrors "errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-workers/internal/common/database"
	"restaurant-workers/internal/common/errors"
	"restaurant-workers/internal/common/logger"
	"restaurant-workers/internal/models"
	"restaurant-workers/internal/nlp"
	"restaurant-workers/internal/ordering"
)

type stubMenu struct {
	items []models.MenuItem
	err   error
}

func (s *stubMenu) Available(context.Context, string) ([]models.MenuItem, error) {
	return s.items, s.err
}

type recordingChat struct {
	entries []models.ChatEntry
	err     error
}

func (r *recordingChat) Append(_ context.Context, entry models.ChatEntry) error {
	r.entries = append(r.entries, entry)
	return r.err
}

type failingOrders struct{}

func (failingOrders) Create(context.Context, *models.Order) error {
	return stderrors.New("connection reset")
}

func (failingOrders) UpdateStatus(context.Context, string, models.OrderStatus) error {
	return nil
}

var fixedNow = time.Date(2024, 3, 5, 14, 30, 9, 0, time.UTC)

func createTestMenu() []models.MenuItem {
	return []models.MenuItem{
		{ItemID: "bev_001", Name: "Coke", Category: "Beverages", Price: 1.5, Available: true},
		{ItemID: "piz_001", Name: "Chicken Pizza", Category: "Pizza", Price: 12.99, Available: true},
	}
}

func createTestHandler(t *testing.T, deps Dependencies) *Handler {
	log := logger.NewTestLogger(t)
	if deps.Parser == nil {
		deps.Parser = nlp.NewParser(nlp.DefaultConfig(), nlp.WithLogger(log))
	}
	if deps.Menu == nil {
		deps.Menu = &stubMenu{items: createTestMenu()}
	}
	h := NewHandler(&Config{Timeout: 5 * time.Second, CurrencySymbol: "$"}, deps, log)
	h.now = func() time.Time { return fixedNow }
	return h
}

func TestHandler_Execute_PlacesOrder(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).
		WithArgs(sqlmock.AnyArg(), "Ali", "+15550100199", "", 15.99, "pending",
			"I want 2 chicken pizzas and 1 coke", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(sqlmock.AnyArg(), "piz_001", "Chicken Pizza", 1.0, 12.99, 12.99).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_items`).
		WithArgs(sqlmock.AnyArg(), "bev_001", "Coke", 2.0, 1.5, 3.0).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	chat := &recordingChat{}
	handler := createTestHandler(t, Dependencies{
		Orders: ordering.NewOrderStore(database.NewPostgresFromDB(db), 50, 200),
		Chat:   chat,
	})

	output, err := handler.Execute(context.Background(), &Input{
		Message: "  I want 2 chicken pizzas and 1 coke ",
		User:    &models.Customer{Name: "Ali", Phone: "+15550100199"},
	})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, "order_food", output.Intent)
	assert.Equal(t, 1.0, output.Confidence)
	require.NotNil(t, output.Order)
	assert.Regexp(t, regexp.MustCompile(`^ORD_20240305_143009_[0-9a-f]{6}$`), output.Order.OrderID)
	assert.Equal(t, models.OrderStatusPending, output.Order.Status)
	assert.Equal(t, 15.99, output.Order.TotalPrice)
	assert.Equal(t,
		"Order confirmed! Your order ID is "+output.Order.OrderID+". Total: $15.99. Items: 1x Chicken Pizza, 2x Coke",
		output.Response)

	require.Len(t, chat.entries, 2)
	assert.Equal(t, models.ChatSenderUser, chat.entries[0].Sender)
	assert.Equal(t, []string{"Chicken Pizza", "Coke"}, chat.entries[0].ExtractedItems)
	assert.Equal(t, models.ChatSenderSystem, chat.entries[1].Sender)
	assert.Equal(t, output.Response, chat.entries[1].Message)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_Replies(t *testing.T) {
	tests := []struct {
		name             string
		message          string
		expectedIntent   string
		expectedResponse string
		expectMenu       bool
	}{
		{name: "greeting", message: "Hello there", expectedIntent: "greeting", expectedResponse: ordering.WelcomeReply},
		{name: "show menu", message: "Show me the menu", expectedIntent: "show_menu", expectedResponse: ordering.MenuReply, expectMenu: true},
		{name: "cancel", message: "I changed my mind", expectedIntent: "cancel_order", expectedResponse: ordering.CancelReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &recordingChat{}
			handler := createTestHandler(t, Dependencies{Orders: failingOrders{}, Chat: chat})

			output, err := handler.Execute(context.Background(), &Input{Message: tt.message})

			require.NoError(t, err)
			assert.True(t, output.Success)
			assert.Equal(t, tt.expectedIntent, output.Intent)
			assert.Equal(t, tt.expectedResponse, output.Response)
			assert.Nil(t, output.Order)
			assert.Equal(t, tt.expectMenu, len(output.Menu) > 0)
			assert.Empty(t, chat.entries)
		})
	}
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name         string
		input        *Input
		deps         Dependencies
		expectedCode errors.ErrorCode
	}{
		{
			name:         "blank message",
			input:        &Input{Message: "   "},
			expectedCode: errors.ErrCodeMessageRequired,
		},
		{
			name:         "no items recognised",
			input:        &Input{Message: "I want 2 pizzas"},
			deps:         Dependencies{Menu: &stubMenu{items: []models.MenuItem{}}},
			expectedCode: errors.ErrCodeNoItemsFound,
		},
		{
			name:         "menu unavailable",
			input:        &Input{Message: "2 cokes"},
			deps:         Dependencies{Menu: &stubMenu{err: stderrors.New("timeout")}},
			expectedCode: errors.ErrCodeMenuFetchFailed,
		},
		{
			name:         "store failure",
			input:        &Input{Message: "I want 2 cokes"},
			deps:         Dependencies{Orders: failingOrders{}},
			expectedCode: errors.ErrCodeDatabaseInsertFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := createTestHandler(t, tt.deps)

			output, err := handler.Execute(context.Background(), tt.input)

			assert.Nil(t, output)
			stdErr, ok := errors.AsStandardError(err)
			require.True(t, ok, "unexpected error: %v", err)
			assert.Equal(t, tt.expectedCode, stdErr.Code)
		})
	}
}

func TestHandler_Execute_NoItemsCarriesReply(t *testing.T) {
	handler := createTestHandler(t, Dependencies{Menu: &stubMenu{items: []models.MenuItem{}}})

	_, err := handler.Execute(context.Background(), &Input{Message: "I want 2 pizzas"})

	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNoItemsFound, stdErr.Code)
	assert.Equal(t, ordering.NoItemsReply, stdErr.Metadata["response"])
	assert.Equal(t, ordering.NoItemsReply, errors.ConvertToBPMNError(stdErr).ErrorVariables["response"])
}

func TestHandler_Execute_ChatFailureIsNotFatal(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO orders`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO order_items`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	chat := &recordingChat{err: stderrors.New("index missing")}
	handler := createTestHandler(t, Dependencies{
		Orders: ordering.NewOrderStore(database.NewPostgresFromDB(db), 50, 200),
		Chat:   chat,
	})

	output, err := handler.Execute(context.Background(), &Input{Message: "I want 3 cokes"})

	require.NoError(t, err)
	require.NotNil(t, output.Order)
	assert.Equal(t, "Guest", output.Order.User.Name)
	assert.Equal(t, 4.5, output.Order.TotalPrice)
	assert.Len(t, chat.entries, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}
