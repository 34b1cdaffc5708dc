// internal/models/chat.go
package models

import "time"

type ChatSender string

const (
	ChatSenderUser   ChatSender = "user"
	ChatSenderSystem ChatSender = "system"
)

type ChatEntry struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"orderId,omitempty"`
	Sender         ChatSender `json:"sender"`
	Message        string     `json:"message"`
	Timestamp      time.Time  `json:"timestamp"`
	ParsedIntent   string     `json:"parsedIntent,omitempty"`
	ExtractedItems []string   `json:"extractedItems,omitempty"`
}
